package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joinus-devs/backend-sub000/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function instead of
// the default schema. Useful for tests that seed data directly.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var u store.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ==== ClubStore implementation ====

// CreateClub creates a new club.
func (s *SQLiteStore) CreateClub(ctx context.Context, name string) (*store.Club, error) {
	query := `
		INSERT INTO clubs (name)
		VALUES (?)
	`
	result, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("insert club: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetClubByID(ctx, id)
}

// GetClubByID retrieves a club by ID.
func (s *SQLiteStore) GetClubByID(ctx context.Context, id int64) (*store.Club, error) {
	query := `
		SELECT id, name, created_at
		FROM clubs
		WHERE id = ?
	`
	var c store.Club
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan club: %w", err)
	}
	return &c, nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a chat message.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, club_id, message)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.UserID, msg.ClubID, msg.Message)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id

	row := s.db.QueryRowContext(ctx, `SELECT created_at FROM chat_messages WHERE id = ?`, id)
	if err := row.Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("scan created_at: %w", err)
	}
	return nil
}

// ListClubMessages returns one history page using keyset pagination on id.
// It fetches limit+1 rows; when the lookahead row exists, the id of the last
// row of the truncated page becomes the next cursor.
func (s *SQLiteStore) ListClubMessages(ctx context.Context, clubID int64, cursor *int64, limit int) ([]*store.ChatMessage, *int64, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, user_id, club_id, message, created_at, deleted_at
		FROM chat_messages
		WHERE club_id = ?
		  AND deleted_at IS NULL
	`
	args := []any{clubID}
	if cursor != nil {
		query += ` AND id < ?`
		args = append(args, *cursor)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var out []*store.ChatMessage
	for rows.Next() {
		var m store.ChatMessage
		var deletedAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.UserID, &m.ClubID, &m.Message, &m.CreatedAt, &deletedAt); err != nil {
			return nil, nil, fmt.Errorf("scan chat message: %w", err)
		}
		if deletedAt.Valid {
			t := deletedAt.Time
			m.DeletedAt = &t
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	var next *int64
	if len(out) > limit {
		out = out[:limit]
		id := out[len(out)-1].ID
		next = &id
	}
	return out, next, nil
}

var _ store.Store = (*SQLiteStore)(nil)
