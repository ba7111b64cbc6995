package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTracker(t *testing.T) (*StateTracker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestStateTracker_ExecRunsOnce(t *testing.T) {
	// Arrange
	tracker, mr := newTracker(t)
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) error { calls++; return nil }

	// Act
	first := tracker.Exec(ctx, "delivery-1", fn)
	second := tracker.Exec(ctx, "delivery-1", fn)

	// Assert
	if first != nil {
		t.Fatalf("first Exec() error = %v", first)
	}
	if !errors.Is(second, ErrAlreadyCompleted) {
		t.Errorf("second Exec() error = %v, want ErrAlreadyCompleted", second)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got, _ := mr.Get("idempotency:delivery-1"); got != StateCompleted.String() {
		t.Errorf("stored state = %q", got)
	}
}

func TestStateTracker_ExecFailure(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	errSMTP := errors.New("smtp down")

	err := tracker.Exec(ctx, "delivery-2", func(context.Context) error { return errSMTP })
	if !errors.Is(err, errSMTP) {
		t.Fatalf("Exec() error = %v, want errSMTP", err)
	}

	err = tracker.Exec(ctx, "delivery-2", func(context.Context) error { return nil })
	if !errors.Is(err, ErrAlreadyFailed) {
		t.Errorf("Exec() after failure = %v, want ErrAlreadyFailed", err)
	}

	err = tracker.Exec(ctx, "delivery-2", func(context.Context) error { return nil }, WithRetryFailed())
	if err != nil {
		t.Errorf("Exec(WithRetryFailed) error = %v", err)
	}
}

func TestStateTracker_AcquireInProgress(t *testing.T) {
	tracker, mr := newTracker(t)
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "k", time.Minute)
	if err != nil || state != StateNone {
		t.Fatalf("Acquire() = %s, %v", state, err)
	}

	state, err = tracker.Acquire(ctx, "k", time.Minute)
	if err != nil || state != StateInProgress {
		t.Fatalf("second Acquire() = %s, %v", state, err)
	}

	mr.FastForward(2 * time.Minute)

	state, err = tracker.Acquire(ctx, "k", time.Minute)
	if err != nil || state != StateNone {
		t.Errorf("Acquire() after lock expiry = %s, %v", state, err)
	}
}

func TestStateTracker_AcquireInvalidState(t *testing.T) {
	tracker, mr := newTracker(t)
	if err := mr.Set("idempotency:k", "garbage"); err != nil {
		t.Fatal(err)
	}

	_, err := tracker.Acquire(context.Background(), "k", time.Minute)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Acquire() error = %v, want ErrInvalidState", err)
	}
}
