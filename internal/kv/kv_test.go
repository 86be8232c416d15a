package kv

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := openTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	store.Set("settings", payload{Name: "vecho", Count: 3})

	var got payload
	if !store.Get("settings", &got) {
		t.Fatal("expected settings key to exist")
	}
	if got.Name != "vecho" || got.Count != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	store := openTestStore(t)

	store.Set("k", 1)
	store.Set("k", 2)

	var got int
	if !store.Get("k", &got) {
		t.Fatal("expected key")
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestSQLiteMissingKey(t *testing.T) {
	store := openTestStore(t)

	var out string
	if store.Get("nope", &out) {
		t.Error("expected miss for unknown key")
	}
	if store.Has("nope") {
		t.Error("Has should report false for unknown key")
	}
}

func TestSQLiteSerializeFailureIsNoOp(t *testing.T) {
	store := openTestStore(t)

	// Channels cannot be marshalled; the write must degrade to a no-op.
	store.Set("bad", make(chan int))

	if store.Has("bad") {
		t.Error("unserializable value must not be stored")
	}
}

func TestSQLiteCorruptValueDegrades(t *testing.T) {
	store := openTestStore(t)

	entry := kvEntry{Key: Prefix + "corrupt", Value: []byte("{not json")}
	if err := store.db.Create(&entry).Error; err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	var out map[string]any
	if store.Get("corrupt", &out) {
		t.Error("corrupt value must read as absent, not crash")
	}
}

func TestSQLiteKeysAndClear(t *testing.T) {
	store := openTestStore(t)

	store.Set("a", 1)
	store.Set("b", 2)

	keys := store.Keys()
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 entries", keys)
	}
	for _, k := range keys {
		if k != "a" && k != "b" {
			t.Errorf("unexpected key %q (prefix not stripped?)", k)
		}
	}

	store.Remove("a")
	if store.Has("a") {
		t.Error("removed key still present")
	}

	store.Clear()
	if got := store.Keys(); len(got) != 0 {
		t.Errorf("clear left keys: %v", got)
	}
}
