package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/joinus-devs/backend-sub000/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 || created.Username != "alice" {
		t.Fatalf("unexpected user: %+v", created)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, byName.ID)
	}

	if _, err := s.GetUserByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClubRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	club, err := s.CreateClub(ctx, "chess")
	if err != nil {
		t.Fatalf("create club: %v", err)
	}

	got, err := s.GetClubByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("get club: %v", err)
	}
	if got.Name != "chess" {
		t.Fatalf("unexpected club: %+v", got)
	}

	if _, err := s.GetClubByID(ctx, 404); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := &store.ChatMessage{UserID: 1, ClubID: 7, Message: "hi"}
	if err := s.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("save message: %v", err)
	}
	if msg.ID == 0 {
		t.Fatal("expected ID to be filled in")
	}
	if msg.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled in")
	}
}

func seedMessages(t *testing.T, s *SQLiteStore, clubID int64, n int) {
	t.Helper()

	ctx := context.Background()
	for i := 1; i <= n; i++ {
		msg := &store.ChatMessage{UserID: 1, ClubID: clubID, Message: fmt.Sprintf("msg %d", i)}
		if err := s.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}
}

func TestListClubMessagesPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMessages(t, s, 7, 15)

	// First page: ids 15..6 with next = 6.
	page, next, err := s.ListClubMessages(ctx, 7, nil, 10)
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(page))
	}
	for i, m := range page {
		if want := int64(15 - i); m.ID != want {
			t.Fatalf("row %d: expected id %d, got %d", i, want, m.ID)
		}
	}
	if next == nil || *next != 6 {
		t.Fatalf("expected next cursor 6, got %v", next)
	}

	// Second page: ids 5..1 with no further cursor.
	page, next2, err := s.ListClubMessages(ctx, 7, next, 10)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(page))
	}
	for i, m := range page {
		if want := int64(5 - i); m.ID != want {
			t.Fatalf("row %d: expected id %d, got %d", i, want, m.ID)
		}
	}
	if next2 != nil {
		t.Fatalf("expected no next cursor, got %d", *next2)
	}
}

func TestListClubMessagesExactPageBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMessages(t, s, 7, 10)

	page, next, err := s.ListClubMessages(ctx, 7, nil, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(page))
	}
	if next != nil {
		t.Fatalf("expected no next cursor for exact page, got %d", *next)
	}
}

func TestListClubMessagesExcludesSoftDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMessages(t, s, 7, 5)

	if _, err := s.db.ExecContext(ctx, `UPDATE chat_messages SET deleted_at = CURRENT_TIMESTAMP WHERE id = 3`); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	page, next, err := s.ListClubMessages(ctx, 7, nil, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(page))
	}
	for _, m := range page {
		if m.ID == 3 {
			t.Fatal("soft-deleted row returned")
		}
	}
	if next != nil {
		t.Fatalf("expected no next cursor, got %d", *next)
	}
}

func TestListClubMessagesScopedToClub(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMessages(t, s, 7, 3)
	seedMessages(t, s, 8, 2)

	page, _, err := s.ListClubMessages(ctx, 7, nil, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 rows for club 7, got %d", len(page))
	}
	for _, m := range page {
		if m.ClubID != 7 {
			t.Fatalf("row from wrong club: %+v", m)
		}
	}
}
