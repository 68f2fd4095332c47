package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewStore(path)
	if got := store.Token(); got != "" {
		t.Fatalf("expected empty token before set, got %q", got)
	}
	if err := store.Set("abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := store.Token(); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}

	// A fresh store must read the same token back from disk.
	fresh := NewStore(path)
	if got := fresh.Token(); got != "abc123" {
		t.Fatalf("expected persisted token, got %q", got)
	}
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewStore(path)
	if err := store.Set("abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Fatalf("expected empty token after clear, got %q", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected token file removed, got %v", err)
	}
	// Clearing an already-cleared store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestStoreTokenTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  tok-1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewStore(path)
	if got := store.Token(); got != "tok-1" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
}
