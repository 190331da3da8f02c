package usecase

import (
	"context"
	"testing"

	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
)

func TestCancelNote(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		override string
		want     string
	}{
		{
			name:    "keeps existing note when no override given",
			current: "patient requested morning slot",
			want:    "patient requested morning slot",
		},
		{
			name:     "override replaces the existing note",
			current:  "patient requested morning slot",
			override: "moved to afternoon at patient request",
			want:     "moved to afternoon at patient request",
		},
		{
			name:     "override fills an empty note",
			override: "duplicate entry",
			want:     "duplicate entry",
		},
		{
			name: "both empty stays empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cancelNote(tt.current, tt.override); got != tt.want {
				t.Errorf("cancelNote(%q, %q) = %q, want %q", tt.current, tt.override, got, tt.want)
			}
		})
	}
}

// captureLockService records the order locks are requested in.
type captureLockService struct {
	keys []string
}

func (s *captureLockService) Acquire(ctx context.Context, key string) (func(), error) {
	s.keys = append(s.keys, key)
	return func() {}, nil
}

func TestAcquireResourceLocksStableOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	forward := &captureLockService{}
	u := &bookingUsecase{lockService: forward}
	release, err := u.acquireResourceLocks(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()

	backward := &captureLockService{}
	u = &bookingUsecase{lockService: backward}
	release, err = u.acquireResourceLocks(context.Background(), b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()

	if len(forward.keys) != 2 || len(backward.keys) != 2 {
		t.Fatalf("expected two lock acquisitions per call, got %d and %d", len(forward.keys), len(backward.keys))
	}
	for i := range forward.keys {
		if forward.keys[i] != backward.keys[i] {
			t.Errorf("lock order depends on argument order: %v vs %v", forward.keys, backward.keys)
		}
	}
}

func TestAcquireResourceLocksSameResource(t *testing.T) {
	id := uuid.New()
	locks := &captureLockService{}
	u := &bookingUsecase{lockService: locks}

	release, err := u.acquireResourceLocks(context.Background(), id, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()

	if len(locks.keys) != 1 {
		t.Fatalf("expected a single lock for a same-resource reschedule, got %d", len(locks.keys))
	}
	if locks.keys[0] != service.ResourceLockKey(id) {
		t.Errorf("unexpected lock key %q", locks.keys[0])
	}
}
