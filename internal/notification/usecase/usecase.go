package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpguard/internal/notification/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/config"
	"github.com/shandysiswandi/otpguard/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
	"github.com/shandysiswandi/otpguard/internal/pkg/uid"
	"github.com/shandysiswandi/otpguard/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateDeliveryLog(ctx context.Context, dl entity.DeliveryLog) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type renderer interface {
	Render(id string, vars map[string]any) (string, error)
}

type Usecase struct {
	repoDB      repoDB
	repoMail    repoMail
	renderer    renderer
	idemp       idempotency.Idempotency
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	validator   validator.Validator
	ins         instrument.Instrumentation
	retryBase   time.Duration
	retryCap    time.Duration
	retryMax    uint64
	idempTTL    time.Duration
	idempLock   time.Duration
	retryFailed bool
	companyName string
}

type Dependency struct {
	RepoDB      repoDB
	RepoMail    repoMail
	Renderer    renderer
	Idempotency idempotency.Idempotency
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	s := &Usecase{
		repoDB:      dep.RepoDB,
		repoMail:    dep.RepoMail,
		renderer:    dep.Renderer,
		idemp:       dep.Idempotency,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		validator:   dep.Validator,
		ins:         dep.Instrument,
		retryBase:   dep.Config.GetMillisecond("modules.notification.mail_retry.base_ms"),
		retryCap:    dep.Config.GetMillisecond("modules.notification.mail_retry.cap_ms"),
		retryMax:    uint64(max(dep.Config.GetInt("modules.notification.mail_retry.max_retries"), 0)),
		idempTTL:    dep.Config.GetMinute("modules.notification.idempotency_ttl_minutes"),
		idempLock:   dep.Config.GetSecond("modules.notification.idempotency_lock_seconds"),
		retryFailed: dep.Config.GetBool("modules.notification.retry_failed_deliveries"),
		companyName: dep.Config.GetString("app.company_name"),
	}

	if s.retryBase <= 0 {
		s.retryBase = 200 * time.Millisecond
	}
	if s.retryCap <= 0 {
		s.retryCap = 5 * time.Second
	}
	if !dep.Config.IsSet("modules.notification.mail_retry.max_retries") {
		s.retryMax = 3
	}
	if s.idempTTL <= 0 {
		s.idempTTL = 24 * time.Hour
	}
	if s.idempLock <= 0 {
		s.idempLock = time.Minute
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
