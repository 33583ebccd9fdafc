package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered club-app user.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Club is the minimal slice of the club entity the chat layer needs.
// Full club CRUD lives outside this service.
type Club struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ChatMessage is a persisted chat history row. Rooms are keyed by club id.
// The chat core only ever creates these; DeletedAt is set elsewhere and
// soft-deleted rows are excluded from history reads.
type ChatMessage struct {
	ID        int64
	UserID    int64
	ClubID    int64
	Message   string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ClubStore handles the club slice consumed by the chat boundary.
type ClubStore interface {
	// CreateClub creates a new club.
	CreateClub(ctx context.Context, name string) (*Club, error)

	// GetClubByID retrieves a club by ID.
	GetClubByID(ctx context.Context, id int64) (*Club, error)
}

// MessageStore handles chat history persistence.
type MessageStore interface {
	// SaveMessage persists a message. ID and CreatedAt are filled in on return.
	SaveMessage(ctx context.Context, msg *ChatMessage) error

	// ListClubMessages returns up to limit messages for a club ordered by
	// descending id, restricted to id < cursor when cursor is non-nil and
	// excluding soft-deleted rows. The second return value is the cursor for
	// the next page, or nil when no older messages remain.
	ListClubMessages(ctx context.Context, clubID int64, cursor *int64, limit int) ([]*ChatMessage, *int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ClubStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
