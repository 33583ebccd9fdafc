package http

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/joinus-devs/backend-sub000/internal/proto"
	"github.com/joinus-devs/backend-sub000/internal/store"
)

// outFrame decodes both outbound shapes.
type outFrame struct {
	Status string  `json:"status"`
	Method *string `json:"method"`
	Body   struct {
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	} `json:"body"`
	User  int64   `json:"user"`
	Users []int64 `json:"users"`
}

func dialWS(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) outFrame {
	t.Helper()

	var frame outFrame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestWebSocketJoinBroadcastLeave(t *testing.T) {
	ts, st, _ := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, wsURL)
	connB := dialWS(t, ctx, wsURL)

	// A joins room 7.
	if err := wsjson.Write(ctx, connA, proto.Frame{Method: "join", Room: 7, User: 1}); err != nil {
		t.Fatalf("write join A: %v", err)
	}
	frame := readFrame(t, ctx, connA)
	if frame.Status != "success" || frame.Method == nil || *frame.Method != "join" {
		t.Fatalf("unexpected frame for A join: %+v", frame)
	}
	if len(frame.Users) != 1 || frame.Users[0] != 1 {
		t.Fatalf("unexpected users after A join: %v", frame.Users)
	}

	// B joins room 7; both receive the join frame with users [1 2].
	if err := wsjson.Write(ctx, connB, proto.Frame{Method: "join", Room: 7, User: 2}); err != nil {
		t.Fatalf("write join B: %v", err)
	}
	for _, conn := range []*websocket.Conn{connA, connB} {
		frame = readFrame(t, ctx, conn)
		if frame.Method == nil || *frame.Method != "join" || frame.User != 2 {
			t.Fatalf("unexpected join frame: %+v", frame)
		}
		if len(frame.Users) != 2 || frame.Users[0] != 1 || frame.Users[1] != 2 {
			t.Fatalf("unexpected users: %v", frame.Users)
		}
	}

	// B broadcasts; both receive the message.
	if err := wsjson.Write(ctx, connB, proto.Frame{Method: "broadcast", Body: "hi", Room: 7, User: 2}); err != nil {
		t.Fatalf("write broadcast: %v", err)
	}
	for _, conn := range []*websocket.Conn{connA, connB} {
		frame = readFrame(t, ctx, conn)
		if frame.Method == nil || *frame.Method != "broadcast" {
			t.Fatalf("unexpected frame: %+v", frame)
		}
		if frame.Body.Message != "hi" || frame.User != 2 {
			t.Fatalf("unexpected broadcast frame: %+v", frame)
		}
	}

	// The broadcast lands in history exactly once.
	deadline := time.Now().Add(2 * time.Second)
	var saved []*store.ChatMessage
	for time.Now().Before(deadline) {
		var err error
		saved, _, err = st.ListClubMessages(context.Background(), 7, nil, 10)
		if err != nil {
			t.Fatalf("list messages: %v", err)
		}
		if len(saved) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(saved) != 1 || saved[0].Message != "hi" || saved[0].UserID != 2 || saved[0].ClubID != 7 {
		t.Fatalf("unexpected history: %+v", saved)
	}

	// B closes; A sees the synthesized leave.
	connB.Close(websocket.StatusNormalClosure, "done")
	frame = readFrame(t, ctx, connA)
	if frame.Method == nil || *frame.Method != "leave" || frame.User != 2 {
		t.Fatalf("expected leave frame for B, got %+v", frame)
	}
	if len(frame.Users) != 1 || frame.Users[0] != 1 {
		t.Fatalf("unexpected users after leave: %v", frame.Users)
	}
}

func TestWebSocketProtocolErrors(t *testing.T) {
	ts, _, _ := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsURL)

	// Unknown method.
	if err := wsjson.Write(ctx, conn, proto.Frame{Method: "dance", Room: 7, User: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame := readFrame(t, ctx, conn)
	if frame.Status != "error" || frame.Method != nil {
		t.Fatalf("expected error frame, got %+v", frame)
	}
	if frame.Body.Message != "Invalid method" {
		t.Fatalf("unexpected message: %q", frame.Body.Message)
	}

	// Missing room.
	if err := wsjson.Write(ctx, conn, proto.Frame{Method: "join", User: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame = readFrame(t, ctx, conn)
	if frame.Status != "error" || frame.Body.Message != "Invalid request" {
		t.Fatalf("expected Invalid request, got %+v", frame)
	}

	// Malformed JSON keeps the connection open.
	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	frame = readFrame(t, ctx, conn)
	if frame.Status != "error" || frame.Body.Message != "Invalid request" {
		t.Fatalf("expected Invalid request for malformed frame, got %+v", frame)
	}

	// The connection still works after the errors.
	if err := wsjson.Write(ctx, conn, proto.Frame{Method: "join", Room: 7, User: 1}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	frame = readFrame(t, ctx, conn)
	if frame.Status != "success" {
		t.Fatalf("expected join to succeed after errors, got %+v", frame)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
