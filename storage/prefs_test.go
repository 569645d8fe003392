package storage

import (
	"context"
	"path/filepath"
	"testing"
)

// TestPrefsRoundTrip verifies Set then Get returns the stored value.
func TestPrefsRoundTrip(t *testing.T) {
	store, err := NewPrefsInMemory()
	if err != nil {
		t.Fatalf("NewPrefsInMemory failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, PrefModel, "gemini-2.5-pro"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, PrefModel)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "gemini-2.5-pro" {
		t.Errorf("Get = %q, want gemini-2.5-pro", got)
	}
}

// TestPrefsMissingKey verifies an unset key reads as empty without error.
func TestPrefsMissingKey(t *testing.T) {
	store, err := NewPrefsInMemory()
	if err != nil {
		t.Fatalf("NewPrefsInMemory failed: %v", err)
	}
	defer store.Close()

	got, err := store.Get(context.Background(), "never_set")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}

// TestPrefsOverwrite verifies Set replaces a previous value.
func TestPrefsOverwrite(t *testing.T) {
	store, err := NewPrefsInMemory()
	if err != nil {
		t.Fatalf("NewPrefsInMemory failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, PrefAPIKey, "old"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, PrefAPIKey, "new"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := store.Get(ctx, PrefAPIKey); got != "new" {
		t.Errorf("Get = %q, want new", got)
	}
}

// TestPrefsDeleteAndKeys verifies deletion and key listing.
func TestPrefsDeleteAndKeys(t *testing.T) {
	store, err := NewPrefsInMemory()
	if err != nil {
		t.Fatalf("NewPrefsInMemory failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	_ = store.Set(ctx, "a", "1")
	_ = store.Set(ctx, "b", "2")
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("deleting an absent key should not error: %v", err)
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("Keys = %v, want [b]", keys)
	}
}

// TestPrefsOpenCreatesParentDirs verifies OpenPrefs creates missing
// directories on the way to the database file.
func TestPrefsOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.db")
	store, err := OpenPrefs(path)
	if err != nil {
		t.Fatalf("OpenPrefs failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, PrefTone, "formal"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := store.Get(ctx, PrefTone); got != "formal" {
		t.Errorf("Get = %q, want formal", got)
	}
}
