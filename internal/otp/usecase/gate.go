package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
)

// checkGates walks kinds in order and returns a ThrottledError for the first
// lock that is set. RetryAfter is the lock's remaining lifetime.
func (s *Usecase) checkGates(ctx context.Context, identity string, kinds ...entity.LockKind) error {
	for _, kind := range kinds {
		locked, err := s.locks.IsLocked(ctx, identity, kind)
		if err != nil {
			return err
		}
		if !locked {
			continue
		}

		remaining, err := s.locks.Remaining(ctx, identity, kind)
		if err != nil {
			return err
		}
		return &entity.ThrottledError{Reason: kind, RetryAfter: remaining}
	}

	return nil
}

// toError converts a domain outcome into the error returned to callers.
// Anything unrecognized is an internal failure.
func (s *Usecase) toError(ctx context.Context, op, identity string, err error) error {
	var (
		throttled *entity.ThrottledError
		mismatch  *entity.MismatchError
		delivery  *entity.DeliveryError
	)

	switch {
	case errors.As(err, &throttled):
		add(ctx, s.metrics.throttled, attribute.String("reason", throttled.Reason.String()))
		slog.WarnContext(ctx, "otp request refused", "op", op, "email", identity,
			"reason", throttled.Reason.String(), "retry_after", throttled.RetryAfter.String())
		return s.throttledError(throttled)

	case errors.As(err, &mismatch):
		slog.WarnContext(ctx, "otp mismatch", "email", identity, "attempts_remaining", mismatch.AttemptsRemaining)
		return goerror.NewBusinessWithFields(
			fmt.Sprintf("Invalid OTP! You have %d attempts left before your account gets locked.", mismatch.AttemptsRemaining),
			goerror.CodeUnauthorized,
			"attempts_remaining", strconv.Itoa(mismatch.AttemptsRemaining),
		)

	case errors.Is(err, entity.ErrCodeExpiredOrAbsent):
		slog.WarnContext(ctx, "otp expired or absent", "op", op, "email", identity)
		return goerror.NewBusiness("OTP expired! Please request a new one.", goerror.CodeGone)

	case errors.As(err, &delivery):
		add(ctx, s.metrics.deliveryFailed)
		slog.ErrorContext(ctx, "failed to deliver otp", "op", op, "email", identity, "error", delivery.Err)
		return goerror.WrapBusiness(err,
			"OTP was generated but could not be delivered. Please retry delivery.",
			goerror.CodeUnavailable,
			"retry_delivery", "true",
		)

	case errors.Is(err, entity.ErrStoreUnavailable):
		slog.ErrorContext(ctx, "otp store unavailable", "op", op, "email", identity, "error", err)
		return goerror.WrapBusiness(err,
			"Service temporarily unavailable. Please retry.",
			goerror.CodeUnavailable,
			"retryable", "true",
		)

	default:
		slog.ErrorContext(ctx, "failed to "+op, "email", identity, "error", err)
		return goerror.NewServer(err)
	}
}

func (s *Usecase) throttledError(e *entity.ThrottledError) error {
	retryAfter := strconv.Itoa(int(e.RetryAfter.Round(time.Second) / time.Second))

	switch e.Reason {
	case entity.LockAccount:
		return goerror.NewBusinessWithFields(
			fmt.Sprintf("Account locked due to multiple failed attempts! Try again after %s.", waitPhrase(s.policy.AccountLockTTL)),
			goerror.CodeLocked,
			"retry_after_seconds", retryAfter,
		)
	case entity.LockSpam:
		return goerror.NewBusinessWithFields(
			fmt.Sprintf("Too many OTP requests! Please wait %s and try again.", waitPhrase(s.policy.SpamLockTTL)),
			goerror.CodeTooManyRequest,
			"retry_after_seconds", retryAfter,
		)
	default:
		return goerror.NewBusinessWithFields(
			fmt.Sprintf("Please wait %s before requesting a new OTP again!", waitPhrase(s.policy.CooldownTTL)),
			goerror.CodeTooManyRequest,
			"retry_after_seconds", retryAfter,
		)
	}
}

// waitPhrase renders d the way messages say it: "a minute", "30 minutes",
// "1 hour", "2 hours".
func waitPhrase(d time.Duration) string {
	switch {
	case d <= time.Minute:
		return "a minute"
	case d%time.Hour == 0:
		if h := int(d / time.Hour); h > 1 {
			return strconv.Itoa(h) + " hours"
		}
		return "1 hour"
	default:
		return strconv.Itoa(int((d+time.Minute-1)/time.Minute)) + " minutes"
	}
}
