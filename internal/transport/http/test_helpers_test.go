package http

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/joinus-devs/backend-sub000/internal/auth"
	"github.com/joinus-devs/backend-sub000/internal/chat"
	"github.com/joinus-devs/backend-sub000/internal/config"
	"github.com/joinus-devs/backend-sub000/internal/store"
	"github.com/joinus-devs/backend-sub000/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(sqlite.Schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

// startTestServer wires a full server over an in-memory store and a running hub.
func startTestServer(t *testing.T) (*httptest.Server, store.Store, *auth.Service) {
	t.Helper()

	testStore := createTestStore(t)
	authService := createTestAuthService(t, testStore, "test-secret")

	hub := chat.NewHub(testStore, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.Nop()

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		JWTSecret:         "test-secret",
		HistoryPageSize:   10,
	}

	server := NewServer(hub, authService, testStore, cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, testStore, authService
}
