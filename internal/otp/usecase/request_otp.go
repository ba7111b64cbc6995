package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
)

const (
	AccountTypeUser   = "user"
	AccountTypeSeller = "seller"
)

type RequestOTPInput struct {
	Email       string `validate:"required,email"`
	Name        string `validate:"required,max=100,personname"`
	AccountType string `validate:"required,oneof=user seller"`
	PhoneNumber string `validate:"required_if=AccountType seller,max=20"`
	Country     string `validate:"required_if=AccountType seller,max=56"`
}

type RequestOTPOutput struct {
	ExpiresIn   time.Duration
	CooldownFor time.Duration
}

func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.Email = entity.NormalizeIdentity(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.AccountType = strings.ToLower(strings.TrimSpace(in.AccountType))
	if in.AccountType == "" {
		in.AccountType = AccountTypeUser
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.checkGates(ctx, in.Email, entity.GateOrder...); err != nil {
		return nil, s.toError(ctx, "check otp gates", in.Email, err)
	}

	if err := s.throttle.CheckAndTrack(ctx, in.Email); err != nil {
		return nil, s.toError(ctx, "track otp request", in.Email, err)
	}

	if err := s.issuer.Issue(ctx, in.Email, in.Name, s.notifier); err != nil {
		return nil, s.toError(ctx, "issue otp", in.Email, err)
	}

	add(ctx, s.metrics.issued)
	slog.InfoContext(ctx, "otp issued", "email", in.Email, "account_type", in.AccountType)

	return &RequestOTPOutput{
		ExpiresIn:   s.policy.CodeTTL,
		CooldownFor: s.policy.CooldownTTL,
	}, nil
}
