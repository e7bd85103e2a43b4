package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "ede.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSQLiteGetMissing(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteSetOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, "k", `{"xp":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "k", `{"xp":2}`); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"xp":2}` {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestSQLiteKeysRemoveClear(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, k := range []string{"b", "a", "c"} {
		if err := st.Set(ctx, k, "v"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if err := st.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := st.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	keys, err = st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys after clear: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ede.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(context.Background(), "yoruba_user_progress", `{"xp":10}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	got, err := st.Get(context.Background(), "yoruba_user_progress")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"xp":10}` {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryBehavesLikeSQLite(t *testing.T) {
	var kv KV = NewMemory()
	ctx := context.Background()
	if _, err := kv.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := kv.Set(ctx, "x", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := kv.Get(ctx, "x"); got != "1" {
		t.Fatalf("unexpected value %q", got)
	}
	if err := kv.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	keys, _ := kv.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}
