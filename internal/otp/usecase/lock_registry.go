package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
)

// LockRegistry reads and writes the account, spam and cooldown locks. A lock
// only ever ends by expiry.
type LockRegistry struct {
	store  repoCache
	policy entity.Policy
}

func NewLockRegistry(store repoCache, policy entity.Policy) *LockRegistry {
	return &LockRegistry{store: store, policy: policy.WithDefaults()}
}

// IsLocked reports whether the lock key holds any value.
func (r *LockRegistry) IsLocked(ctx context.Context, identity string, kind entity.LockKind) (bool, error) {
	_, err := r.store.Get(ctx, kind.Key(identity))
	if errors.Is(err, goerror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// SetLock writes the lock with ttl, or the policy duration when ttl <= 0.
func (r *LockRegistry) SetLock(ctx context.Context, identity string, kind entity.LockKind, ttl time.Duration) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", entity.ErrUnknownLockKind, kind)
	}
	if ttl <= 0 {
		ttl = kind.TTL(r.policy)
	}

	return r.store.Set(ctx, kind.Key(identity), kind.Value(), ttl)
}

// Remaining returns how long the lock still holds, 0 when it is not set.
func (r *LockRegistry) Remaining(ctx context.Context, identity string, kind entity.LockKind) (time.Duration, error) {
	d, err := r.store.TTL(ctx, kind.Key(identity))
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if d == kvstore.NoExpiry {
		return kind.TTL(r.policy), nil
	}
	return max(d, 0), nil
}
