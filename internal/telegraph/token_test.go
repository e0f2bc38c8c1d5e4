package telegraph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenStore_LoadMissingFile(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), ".telegraph_token"))

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if token != "" {
		t.Errorf("Expected empty token for missing file, got %s", token)
	}
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".telegraph_token")
	store := NewTokenStore(path)

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if token != "abc123" {
		t.Errorf("Expected token abc123, got %s", token)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected permissions 0600, got %o", perm)
	}
}

func TestTokenStore_LoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".telegraph_token")

	if err := os.WriteFile(path, []byte("  abc123\n\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	token, err := NewTokenStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if token != "abc123" {
		t.Errorf("Expected trimmed token abc123, got %s", token)
	}
}

func TestTokenStore_Path(t *testing.T) {
	store := NewTokenStore(".telegraph_token")

	if store.Path() != ".telegraph_token" {
		t.Errorf("Expected path .telegraph_token, got %s", store.Path())
	}
}
