// Package checkpoint persists conversation threads so a chat session
// survives process restarts. It lives in its own SQLite database and
// never shares a connection or transaction with the transaction store.
package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"grana/internal/cache"
	"grana/internal/core"
)

// Role identifies who produced a message in a thread.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

func (r Role) valid() bool {
	return r == RoleUser || r == RoleModel || r == RoleTool
}

// Message is one persisted turn of a conversation thread.
type Message struct {
	ID        int64
	ThreadID  string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Store reads and writes conversation checkpoints. History reads go
// through an LRU cache keyed by thread id; every append invalidates the
// thread's cached history.
type Store struct {
	db      *sql.DB
	history *cache.LRU[[]Message]
}

// NewStore opens (or creates) the checkpoint database at dbPath and
// runs its migrations.
func NewStore(dbPath string, cacheSize int, cacheTTL time.Duration) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create checkpoint database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping checkpoint database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate checkpoint database: %w", err)
	}

	return &Store{
		db:      db,
		history: cache.NewLRU[[]Message](cacheSize, cacheTTL),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// HistoryCache exposes the cache for expiry sweeps.
func (s *Store) HistoryCache() cache.Cleaner { return s.history }

// NewThreadID mints a thread id in the user:uuid form, so the owning
// user is readable straight off the id.
func NewThreadID(userID string) string {
	return userID + ":" + uuid.NewString()
}

// CreateThread registers a thread. Recreating an existing thread is a
// no-op so callers can resume by id without checking first.
func (s *Store) CreateThread(ctx context.Context, threadID, userID string) error {
	if threadID == "" || userID == "" {
		return fmt.Errorf("create thread: empty thread or user id")
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO threads (id, user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		threadID, userID, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	slog.InfoContext(ctx, "thread created",
		"thread_id", threadID,
		"user_id", userID)
	return nil
}

// LatestThread returns the most recently created thread of a user, or
// core.ErrNotFound when the user has none.
func (s *Store) LatestThread(ctx context.Context, userID string) (string, error) {
	var threadID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM threads
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`,
		userID).Scan(&threadID)
	if err == sql.ErrNoRows {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("latest thread: %w", err)
	}
	return threadID, nil
}

// Append persists one message at the end of a thread.
func (s *Store) Append(ctx context.Context, threadID string, role Role, content string) error {
	if !role.valid() {
		return fmt.Errorf("append message: invalid role %q", role)
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (thread_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		threadID, string(role), content, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	s.history.Delete(threadID)
	return nil
}

// History returns a thread's messages oldest first. An unknown thread
// yields an empty history, not an error.
func (s *Store) History(ctx context.Context, threadID string) ([]Message, error) {
	if msgs, ok := s.history.Get(threadID); ok {
		return msgs, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, role, content, created_at
		FROM messages
		WHERE thread_id = ?
		ORDER BY id ASC`,
		threadID)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var role, createdAt string
		if err := rows.Scan(&m.ID, &m.ThreadID, &role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = Role(role)
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse message timestamp: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	s.history.Set(threadID, msgs)
	return msgs, nil
}
