package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/otp"
	"github.com/shandysiswandi/otpguard/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	store     repoCache
	notifier  Notifier
	locks     *LockRegistry
	throttle  *RequestThrottle
	issuer    *CodeIssuer
	verifier  *Verifier
	validator validator.Validator
	ins       instrument.Instrumentation
	policy    entity.Policy
	metrics   metrics
}

type Dependency struct {
	RepoCache  repoCache
	Notifier   Notifier
	Generator  otp.Generator
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	// Policy zero values fall back to entity.DefaultPolicy.
	Policy entity.Policy
}

func New(dep Dependency) *Usecase {
	policy := dep.Policy.WithDefaults()
	locks := NewLockRegistry(dep.RepoCache, policy)

	return &Usecase{
		store:     dep.RepoCache,
		notifier:  dep.Notifier,
		locks:     locks,
		throttle:  NewRequestThrottle(dep.RepoCache, locks, policy),
		issuer:    NewCodeIssuer(dep.RepoCache, dep.Generator, policy),
		verifier:  NewVerifier(dep.RepoCache, locks, policy),
		validator: dep.Validator,
		ins:       dep.Instrument,
		policy:    policy,
		metrics:   newMetrics(dep.Instrument.Meter("otp.usecase")),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

type metrics struct {
	issued         metric.Int64Counter
	throttled      metric.Int64Counter
	verify         metric.Int64Counter
	deliveryFailed metric.Int64Counter
}

func newMetrics(meter metric.Meter) metrics {
	var m metrics
	var err error

	if m.issued, err = meter.Int64Counter("otp.issued", metric.WithDescription("Codes issued")); err != nil {
		slog.Error("failed to create otp.issued counter", "error", err)
	}
	if m.throttled, err = meter.Int64Counter("otp.throttled", metric.WithDescription("Requests refused by a lock")); err != nil {
		slog.Error("failed to create otp.throttled counter", "error", err)
	}
	if m.verify, err = meter.Int64Counter("otp.verify", metric.WithDescription("Verification outcomes")); err != nil {
		slog.Error("failed to create otp.verify counter", "error", err)
	}
	if m.deliveryFailed, err = meter.Int64Counter("otp.delivery.failed", metric.WithDescription("Failed code deliveries")); err != nil {
		slog.Error("failed to create otp.delivery.failed counter", "error", err)
	}

	return m
}

func add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
