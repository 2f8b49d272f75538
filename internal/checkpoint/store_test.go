package checkpoint

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grana/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "checkpoint_test.db"), 16, time.Minute)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewThreadID(t *testing.T) {
	id := NewThreadID("ana")
	if !strings.HasPrefix(id, "ana:") {
		t.Errorf("NewThreadID() = %q, want ana: prefix", id)
	}
	if id == NewThreadID("ana") {
		t.Error("two thread ids for the same user must differ")
	}
}

func TestStore_AppendAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	threadID := NewThreadID("ana")
	if err := store.CreateThread(ctx, threadID, "ana"); err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}

	turns := []struct {
		role    Role
		content string
	}{
		{RoleUser, "gastei 45 no almoço"},
		{RoleTool, "✅ Despesa registrada com sucesso!"},
		{RoleModel, "Registrei R$ 45,00 em Alimentação."},
	}
	for _, turn := range turns {
		if err := store.Append(ctx, threadID, turn.role, turn.content); err != nil {
			t.Fatalf("Append(%s) error: %v", turn.role, err)
		}
	}

	msgs, err := store.History(ctx, threadID)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(msgs) != len(turns) {
		t.Fatalf("History() returned %d messages, want %d", len(msgs), len(turns))
	}
	for i, turn := range turns {
		if msgs[i].Role != turn.role || msgs[i].Content != turn.content {
			t.Errorf("message %d = {%s %q}, want {%s %q}",
				i, msgs[i].Role, msgs[i].Content, turn.role, turn.content)
		}
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].ID <= msgs[i-1].ID {
			t.Errorf("message ids out of order: %d after %d", msgs[i].ID, msgs[i-1].ID)
		}
	}
}

func TestStore_HistoryCacheInvalidatedOnAppend(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	threadID := NewThreadID("ana")
	if err := store.CreateThread(ctx, threadID, "ana"); err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}
	if err := store.Append(ctx, threadID, RoleUser, "oi"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	// Prime the cache, then append behind it.
	if _, err := store.History(ctx, threadID); err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if err := store.Append(ctx, threadID, RoleModel, "olá!"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	msgs, err := store.History(ctx, threadID)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("History() after append = %d messages, want 2", len(msgs))
	}
}

func TestStore_HistoryUnknownThreadIsEmpty(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.History(context.Background(), "ana:missing")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("History() = %d messages, want 0", len(msgs))
	}
}

func TestStore_AppendRejectsUnknownRole(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append(context.Background(), "ana:t", Role("system"), "x"); err == nil {
		t.Error("Append() with unknown role must fail")
	}
}

func TestStore_CreateThreadIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	threadID := NewThreadID("ana")
	for i := 0; i < 2; i++ {
		if err := store.CreateThread(ctx, threadID, "ana"); err != nil {
			t.Fatalf("CreateThread() attempt %d error: %v", i+1, err)
		}
	}
}

func TestStore_LatestThread(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LatestThread(ctx, "ana"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("LatestThread() with no threads = %v, want ErrNotFound", err)
	}

	first := NewThreadID("ana")
	second := NewThreadID("ana")
	if err := store.CreateThread(ctx, first, "ana"); err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}
	if err := store.CreateThread(ctx, second, "ana"); err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}
	if err := store.CreateThread(ctx, NewThreadID("bob"), "bob"); err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}

	got, err := store.LatestThread(ctx, "ana")
	if err != nil {
		t.Fatalf("LatestThread() error: %v", err)
	}
	if got != second {
		t.Errorf("LatestThread() = %q, want %q", got, second)
	}
}
