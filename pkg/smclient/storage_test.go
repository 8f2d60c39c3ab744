package smclient

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := s.Set(KeyPreferredLanguage, "hindi"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(KeyAccessToken, "token-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage reopen: %v", err)
	}
	if v, ok := reopened.Get(KeyPreferredLanguage); !ok || v != "hindi" {
		t.Errorf("preferredLanguage = %q (present=%v), want hindi", v, ok)
	}
	if v, ok := reopened.Get(KeyAccessToken); !ok || v != "token-1" {
		t.Errorf("accessToken = %q (present=%v), want token-1", v, ok)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after persist")
	}
}

func TestFileStorageDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := s.Set(KeyAccessToken, "token-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reopened, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage reopen: %v", err)
	}
	if _, ok := reopened.Get(KeyAccessToken); ok {
		t.Error("accessToken survived delete")
	}
}

func TestFileStorageMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage on corrupt file: %v", err)
	}
	if _, ok := s.Get(KeyAccessToken); ok {
		t.Error("got a value out of a corrupt file")
	}

	// The next write replaces the corrupt file with valid JSON.
	if err := s.Set(KeyPreferredLanguage, "tamil"); err != nil {
		t.Fatalf("Set after corrupt load: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tamil") {
		t.Errorf("file = %s, want rewritten JSON containing tamil", data)
	}
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()

	if _, ok := s.Get(KeyRefreshToken); ok {
		t.Error("empty storage returned a value")
	}
	if err := s.Set(KeyRefreshToken, "r1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := s.Get(KeyRefreshToken); !ok || v != "r1" {
		t.Errorf("refreshToken = %q (present=%v), want r1", v, ok)
	}
	if err := s.Delete(KeyRefreshToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get(KeyRefreshToken); ok {
		t.Error("value survived delete")
	}
}
