package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/joinus-devs/backend-sub000/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.Int64("user", 1, "user id")
	room := flag.Int64("room", 1, "club room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(frame proto.Frame) {
		if writeErr := wsjson.Write(ctx, conn, frame); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.Frame{Method: proto.MethodJoin, Room: *room, User: *user})

	fmt.Printf("Connected to %s as user %d in room %d\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send, *room, *user)

	send(proto.Frame{Method: proto.MethodLeave, Room: *room, User: *user})
	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var raw json.RawMessage
		if err := wsjson.Read(ctx, conn, &raw); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		var frame proto.Success
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("unmarshal frame: %v", err)
			continue
		}

		if frame.Status == proto.StatusError {
			fmt.Printf("error: %s\n", frame.Body.Message)
			continue
		}

		switch frame.Method {
		case proto.MethodBroadcast:
			fmt.Printf("[user %d] %s\n", frame.User, frame.Body.Message)
		case proto.MethodJoin:
			fmt.Printf("user %d joined, members: %v\n", frame.User, frame.Users)
		case proto.MethodLeave:
			fmt.Printf("user %d left, members: %v\n", frame.User, frame.Users)
		default:
			fmt.Printf("frame: %s\n", string(raw))
		}
	}
}

func writeLoop(ctx context.Context, send func(proto.Frame), room, user int64) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			send(proto.Frame{Method: proto.MethodBroadcast, Body: text, Room: room, User: user})
		}
	}
}
