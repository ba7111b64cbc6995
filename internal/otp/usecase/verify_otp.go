package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
)

type VerifyOTPInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

type VerifyOTPOutput struct {
	Email string
}

func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = entity.NormalizeIdentity(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.checkGates(ctx, in.Email, entity.LockAccount); err != nil {
		return nil, s.toError(ctx, "check otp gates", in.Email, err)
	}

	res, err := s.verifier.Verify(ctx, in.Email, in.Code)
	if err != nil {
		return nil, s.toError(ctx, "verify otp", in.Email, err)
	}

	add(ctx, s.metrics.verify, attribute.String("outcome", res.Status.String()))

	if err := res.Err(); err != nil {
		return nil, s.toError(ctx, "verify otp", in.Email, err)
	}

	slog.InfoContext(ctx, "otp verified", "email", in.Email)
	return &VerifyOTPOutput{Email: in.Email}, nil
}
