package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/otp"
)

// Verifier checks a submitted code and escalates repeated failures to an
// account lock. The failed-attempt counter is always removed together with
// the code.
type Verifier struct {
	store  repoCache
	locks  *LockRegistry
	policy entity.Policy
}

func NewVerifier(store repoCache, locks *LockRegistry, policy entity.Policy) *Verifier {
	return &Verifier{store: store, locks: locks, policy: policy.WithDefaults()}
}

// Verify returns an error only when the store fails; every decision is in the
// result.
func (v *Verifier) Verify(ctx context.Context, identity, submitted string) (entity.VerifyResult, error) {
	codeKey := entity.CodeKey(identity)
	failedKey := entity.FailedAttemptsKey(identity)

	stored, err := v.store.Get(ctx, codeKey)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.VerifyResult{Status: entity.VerifyExpired}, nil
	}
	if err != nil {
		return entity.VerifyResult{}, err
	}

	if otp.Equal(submitted, stored) {
		if err := v.store.Del(ctx, codeKey, failedKey); err != nil {
			return entity.VerifyResult{}, err
		}
		return entity.VerifyResult{Status: entity.VerifyAccepted}, nil
	}

	failed, err := readCounter(ctx, v.store, failedKey)
	if err != nil {
		return entity.VerifyResult{}, err
	}

	if failed >= v.policy.MaxFailedAttempts-1 {
		if err := v.locks.SetLock(ctx, identity, entity.LockAccount, v.policy.AccountLockTTL); err != nil {
			return entity.VerifyResult{}, err
		}
		if err := v.store.Del(ctx, codeKey, failedKey); err != nil {
			return entity.VerifyResult{}, err
		}
		return entity.VerifyResult{Status: entity.VerifyLocked, RetryAfter: v.policy.AccountLockTTL}, nil
	}

	failed++
	if err := v.store.Set(ctx, failedKey, strconv.Itoa(failed), v.policy.FailedAttemptWindow); err != nil {
		return entity.VerifyResult{}, err
	}

	return entity.VerifyResult{
		Status:            entity.VerifyRejected,
		// counted after the increment: with 3 allowed, wrong guesses report 1, 0, then locked
		AttemptsRemaining: v.policy.MaxFailedAttempts - 1 - failed,
	}, nil
}
