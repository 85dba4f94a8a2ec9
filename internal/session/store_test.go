// ABOUTME: Tests for session store backends
// ABOUTME: Covers memory, file (plain and sealed) and redis via miniredis

package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// exerciseStore runs the shared Store contract against any backend
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := s.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set b: %v", err)
	}

	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Errorf("expected a=1, got %q ok=%v err=%v", v, ok, err)
	}

	if err := s.Set(ctx, "a", "updated"); err != nil {
		t.Fatalf("overwrite a: %v", err)
	}
	if v, _, _ := s.Get(ctx, "a"); v != "updated" {
		t.Errorf("expected overwrite to be visible, got %q", v)
	}

	if err := s.Delete(ctx, "a", "b", "never-set"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, ok, _ := s.Get(ctx, k); ok {
			t.Errorf("expected %s to be deleted", k)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path, ""))
}

func TestFileStore_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	exerciseStore(t, NewFileStore(path, "s3cret"))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewFileStore(path, "").Set(ctx, KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := NewFileStore(path, "").Get(ctx, KeyToken)
	if err != nil || !ok || v != "abc" {
		t.Errorf("expected token to survive reload, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileStore_SealedFileIsNotPlaintext(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewFileStore(path, "s3cret").Set(ctx, KeyToken, "very-secret-token"); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(raw), "very-secret-token") {
		t.Error("expected sealed file not to contain the token in plaintext")
	}
}

func TestFileStore_WrongSecretReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewFileStore(path, "right").Set(ctx, KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	_, ok, err := NewFileStore(path, "wrong").Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected foreign sealed file to read as empty")
	}
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, ok, err := NewFileStore(path, "").Get(context.Background(), KeyToken)
	if err != nil || ok {
		t.Errorf("expected corrupt file to read as empty, got ok=%v err=%v", ok, err)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseStore(t, NewRedisStore(rdb, "tests", 0))
}

func TestRedisStore_NamespacesAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb, "kiosk-1", time.Hour)
	if err := s.Set(context.Background(), KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	key := "study-portal:session:kiosk-1:token"
	if !mr.Exists(key) {
		t.Fatalf("expected key %s to exist", key)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("expected 1h TTL, got %s", ttl)
	}

	other := NewRedisStore(rdb, "kiosk-2", 0)
	if _, ok, _ := other.Get(context.Background(), KeyToken); ok {
		t.Error("expected namespaces to be isolated")
	}
}

func TestNewRedisStoreFromURL_Invalid(t *testing.T) {
	if _, err := NewRedisStoreFromURL("not-a-url", "", 0); err == nil {
		t.Error("expected error for invalid URL, got nil")
	}
}
