package inbound

import (
	"context"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/otp/usecase"
	"github.com/shandysiswandi/otpguard/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	RedeliverOTP(ctx context.Context, in usecase.RedeliverOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Status(ctx context.Context, in usecase.StatusInput) (*entity.Status, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/request", end.RequestOTP)
	r.POST("/api/v1/otp/redeliver", end.RedeliverOTP)
	r.POST("/api/v1/otp/verify", end.VerifyOTP)
	r.GET("/api/v1/otp/status", end.Status)
}
