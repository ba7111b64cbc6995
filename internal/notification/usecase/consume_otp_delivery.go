package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpguard/internal/notification/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
)

var ErrMailNotSent = errors.New("notification: mail not sent")

type ConsumeOTPDeliveryInput struct {
	DeliveryID  string `validate:"required"`
	Email       string `validate:"required,email"`
	DisplayName string `validate:"required,max=100"`
	Subject     string `validate:"required"`
	TemplateID  string `validate:"required"`
	Code        string `validate:"required"`
}

// ConsumeOTPDelivery emails one code at most once per DeliveryID. A nil
// return acks the message; only infrastructure failures ask for redelivery.
func (s *Usecase) ConsumeOTPDelivery(ctx context.Context, in ConsumeOTPDeliveryInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPDelivery")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "delivery_id", in.DeliveryID, "error", err)
		return nil
	}

	opts := []idempotency.Option{
		idempotency.WithLockDuration(s.idempLock),
		idempotency.WithStateTTL(s.idempTTL),
	}
	if s.retryFailed {
		opts = append(opts, idempotency.WithRetryFailed())
	}

	err := s.idemp.Exec(ctx, "otp_delivery:"+in.DeliveryID, func(ctx context.Context) error {
		return s.deliver(ctx, in)
	}, opts...)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "otp delivery already handled", "delivery_id", in.DeliveryID, "error", err)
		return nil
	case errors.Is(err, ErrMailNotSent):
		slog.ErrorContext(ctx, "otp delivery gave up", "delivery_id", in.DeliveryID, "error", err)
		return nil
	default:
		slog.ErrorContext(ctx, "otp delivery not processed", "delivery_id", in.DeliveryID, "error", err)
		return err
	}
}

func (s *Usecase) deliver(ctx context.Context, in ConsumeOTPDeliveryInput) error {
	body, err := s.renderer.Render(in.TemplateID, mail.TemplateVars(map[string]string{
		"DisplayName": in.DisplayName,
		"Code":        in.Code,
	}, s.companyName, s.clock.Now()))
	if err != nil {
		s.log(ctx, in, entity.DeliveryStatusFailed, 0, err)
		return fmt.Errorf("%w: %w", ErrMailNotSent, err)
	}

	msg := mail.Message{To: []string{in.Email}, Subject: in.Subject, HTMLBody: body}

	b := retry.NewFibonacci(s.retryBase)
	b = retry.WithCappedDuration(s.retryCap, b)
	b = retry.WithMaxRetries(s.retryMax, b)

	attempts := 0
	sendErr := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++
		if err := s.repoMail.Send(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to send otp email", "delivery_id", in.DeliveryID, "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if sendErr != nil {
		s.log(ctx, in, entity.DeliveryStatusFailed, attempts, sendErr)
		return fmt.Errorf("%w: %w", ErrMailNotSent, sendErr)
	}

	s.log(ctx, in, entity.DeliveryStatusSent, attempts, nil)
	return nil
}

// log records the outcome. A failed write never changes the outcome.
func (s *Usecase) log(ctx context.Context, in ConsumeOTPDeliveryInput, status entity.DeliveryStatus, attempts int, cause error) {
	resp := map[string]any{}
	if cause != nil {
		resp["error"] = cause.Error()
	}

	err := s.repoDB.CreateDeliveryLog(ctx, entity.DeliveryLog{
		ID:               s.uid.Generate(),
		DeliveryID:       in.DeliveryID,
		Channel:          entity.ChannelEmail,
		Recipient:        in.Email,
		TemplateID:       in.TemplateID,
		Status:           status,
		Attempts:         attempts,
		ProviderResponse: resp,
		CreatedAt:        s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "delivery log already written", "delivery_id", in.DeliveryID)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "delivery_id", in.DeliveryID, "status", status.String(), "error", err)
	}
}
