package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return s
}

func TestLocalStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	payload := []byte("quarterly-report-bytes")

	key, err := s.Save(context.Background(), 7, "report.pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(key, "7_") || !strings.HasSuffix(key, "_report.pdf") {
		t.Fatalf("unexpected key shape: %s", key)
	}

	content, err := s.Retrieve(context.Background(), key)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	defer content.Body.Close()

	if content.RedirectURL != "" {
		t.Fatalf("local store must stream bytes, not redirect")
	}
	if content.Filename != "report.pdf" {
		t.Fatalf("unexpected download name: %s", content.Filename)
	}

	got, err := io.ReadAll(content.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("retrieved bytes differ from stored bytes")
	}
}

func TestLocalStore_RepeatedSavesMintFreshKeys(t *testing.T) {
	s := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		key, err := s.Save(context.Background(), 3, "same.txt", strings.NewReader("v"))
		if err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		if seen[key] {
			t.Fatalf("key %s minted twice", key)
		}
		seen[key] = true
	}
}

func TestLocalStore_KeysIsolatePerOrder(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	k1, err := s.Save(context.Background(), 1, "a.txt", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	k2, err := s.Save(context.Background(), 2, "a.txt", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("same timestamp and name for different orders must not collide")
	}
}

func TestLocalStore_DeleteAbsentIsSuccess(t *testing.T) {
	s := newTestStore(t)

	if err := s.Delete(context.Background(), "1_123_missing.txt"); err != nil {
		t.Fatalf("deleting an absent key must succeed, got %v", err)
	}

	key, _ := s.Save(context.Background(), 1, "f.txt", strings.NewReader("x"))
	if err := s.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Retrieve(context.Background(), key); err == nil {
		t.Fatalf("retrieve after delete must fail")
	}
	// second delete of the same key also succeeds
	if err := s.Delete(context.Background(), key); err != nil {
		t.Fatalf("repeat delete must succeed, got %v", err)
	}
}

func TestLocalStore_SanitizesHostileNames(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(context.Background(), 9, "../../etc/pass wd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if strings.Contains(key, "/") || strings.Contains(key, " ") {
		t.Fatalf("key leaks path or space characters: %s", key)
	}
}
