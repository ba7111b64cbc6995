package usecase

import (
	"context"
	"strconv"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
)

// RequestThrottle counts issuance requests per identity inside a sliding
// window and sets the spam lock once the limit is reached.
//
// The counter is read then written in two round trips, so two concurrent
// requests may both see the same value.
type RequestThrottle struct {
	store  repoCache
	locks  *LockRegistry
	policy entity.Policy
}

func NewRequestThrottle(store repoCache, locks *LockRegistry, policy entity.Policy) *RequestThrottle {
	return &RequestThrottle{store: store, locks: locks, policy: policy.WithDefaults()}
}

// CheckAndTrack returns a ThrottledError with reason spam on the request that
// reaches MaxRequests. The counter is not incremented in that case. Otherwise
// the counter is incremented and its window restarts.
func (t *RequestThrottle) CheckAndTrack(ctx context.Context, identity string) error {
	key := entity.RequestCountKey(identity)

	count, err := readCounter(ctx, t.store, key)
	if err != nil {
		return err
	}

	if count >= t.policy.MaxRequests-1 {
		if err := t.locks.SetLock(ctx, identity, entity.LockSpam, t.policy.SpamLockTTL); err != nil {
			return err
		}
		return &entity.ThrottledError{Reason: entity.LockSpam, RetryAfter: t.policy.SpamLockTTL}
	}

	return t.store.Set(ctx, key, strconv.Itoa(count+1), t.policy.RequestWindow)
}
