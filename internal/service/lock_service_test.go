package service

import (
	"testing"

	"github.com/google/uuid"
)

func TestLockKeyBuilders(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	if got, want := ResourceLockKey(id), "booking:resource:6ba7b810-9dad-11d1-80b4-00c04fd430c8"; got != want {
		t.Errorf("ResourceLockKey = %q, want %q", got, want)
	}
	if got, want := TokenLockKey(id), "booking:token:6ba7b810-9dad-11d1-80b4-00c04fd430c8"; got != want {
		t.Errorf("TokenLockKey = %q, want %q", got, want)
	}
	if got, want := NextTokenLockKey(id), "queue:next_token:6ba7b810-9dad-11d1-80b4-00c04fd430c8"; got != want {
		t.Errorf("NextTokenLockKey = %q, want %q", got, want)
	}
}

func TestLockKeysAreDisjointPerConcern(t *testing.T) {
	id := uuid.New()
	keys := map[string]bool{
		ResourceLockKey(id):  true,
		TokenLockKey(id):     true,
		NextTokenLockKey(id): true,
	}
	if len(keys) != 3 {
		t.Errorf("expected 3 distinct keys for one id, got %d", len(keys))
	}
}
