package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joinus-devs/backend-sub000/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func ensureNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// captureStore records persisted messages for sink assertions.
type captureStore struct {
	mu    sync.Mutex
	saved []store.ChatMessage
}

func (s *captureStore) SaveMessage(_ context.Context, msg *store.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *msg)
	return nil
}

func (s *captureStore) ListClubMessages(_ context.Context, _ int64, _ *int64, _ int) ([]*store.ChatMessage, *int64, error) {
	return nil, nil, nil
}

func (s *captureStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *captureStore) last() store.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

func waitForSaved(t *testing.T, s *captureStore, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d persisted messages, got %d", want, s.count())
}

func startHub(t *testing.T, messages store.MessageStore) *Hub {
	t.Helper()

	hub := NewHub(messages, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}
