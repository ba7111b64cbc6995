package inbound

import (
	"context"

	"github.com/shandysiswandi/otpguard/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPDelivery(ctx context.Context, in usecase.ConsumeOTPDeliveryInput) error
}
