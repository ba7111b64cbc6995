package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
)

type RedeliverOTPInput struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,max=100,personname"`
}

// RedeliverOTP resends the current code after a failed delivery. It is gated
// by the account and spam locks but not the cooldown. A resend counts toward
// the request throttle; a call with no current code does not.
func (s *Usecase) RedeliverOTP(ctx context.Context, in RedeliverOTPInput) error {
	ctx, span := s.startSpan(ctx, "RedeliverOTP")
	defer span.End()

	in.Email = entity.NormalizeIdentity(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.checkGates(ctx, in.Email, entity.LockAccount, entity.LockSpam); err != nil {
		return s.toError(ctx, "check otp gates", in.Email, err)
	}

	if _, err := s.store.TTL(ctx, entity.CodeKey(in.Email)); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			err = entity.ErrCodeExpiredOrAbsent
		}
		return s.toError(ctx, "read otp", in.Email, err)
	}

	if err := s.throttle.CheckAndTrack(ctx, in.Email); err != nil {
		return s.toError(ctx, "track otp request", in.Email, err)
	}

	if err := s.issuer.Redeliver(ctx, in.Email, in.Name, s.notifier); err != nil {
		return s.toError(ctx, "redeliver otp", in.Email, err)
	}

	slog.InfoContext(ctx, "otp redelivered", "email", in.Email)
	return nil
}
