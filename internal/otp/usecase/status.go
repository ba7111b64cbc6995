package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
)

type StatusInput struct {
	Email string `validate:"required,email"`
}

// Status reports the OTP state of an identity without changing it.
func (s *Usecase) Status(ctx context.Context, in StatusInput) (*entity.Status, error) {
	ctx, span := s.startSpan(ctx, "Status")
	defer span.End()

	in.Email = entity.NormalizeIdentity(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	st, err := s.status(ctx, in.Email)
	if err != nil {
		return nil, s.toError(ctx, "read otp status", in.Email, err)
	}

	return st, nil
}

func (s *Usecase) status(ctx context.Context, identity string) (*entity.Status, error) {
	st := &entity.Status{State: entity.StateNoCode}

	var err error
	if st.AccountLockedFor, err = s.locks.Remaining(ctx, identity, entity.LockAccount); err != nil {
		return nil, err
	}
	if st.SpamLockedFor, err = s.locks.Remaining(ctx, identity, entity.LockSpam); err != nil {
		return nil, err
	}
	if st.CooldownFor, err = s.locks.Remaining(ctx, identity, entity.LockCooldown); err != nil {
		return nil, err
	}

	codeTTL, err := s.store.TTL(ctx, entity.CodeKey(identity))
	switch {
	case errors.Is(err, goerror.ErrNotFound):
	case err != nil:
		return nil, err
	case codeTTL == kvstore.NoExpiry:
		st.State, st.CodeExpiresIn = entity.StatePending, s.policy.CodeTTL
	default:
		st.State, st.CodeExpiresIn = entity.StatePending, codeTTL
	}
	if st.AccountLockedFor > 0 {
		st.State = entity.StateLocked
	}

	failed, err := readCounter(ctx, s.store, entity.FailedAttemptsKey(identity))
	if err != nil {
		return nil, err
	}
	requests, err := readCounter(ctx, s.store, entity.RequestCountKey(identity))
	if err != nil {
		return nil, err
	}

	st.AttemptsRemaining = max(s.policy.MaxFailedAttempts-1-failed, 0)
	st.RequestsRemaining = max(s.policy.MaxRequests-1-requests, 0)
	if st.AccountLockedFor > 0 {
		st.AttemptsRemaining = 0
	}
	if st.SpamLockedFor > 0 {
		st.RequestsRemaining = 0
	}

	return st, nil
}
