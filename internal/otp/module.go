package otp

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/otp/inbound"
	"github.com/shandysiswandi/otpguard/internal/otp/outbound/cache"
	"github.com/shandysiswandi/otpguard/internal/otp/outbound/email"
	"github.com/shandysiswandi/otpguard/internal/otp/outbound/mq"
	"github.com/shandysiswandi/otpguard/internal/otp/usecase"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/config"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
	"github.com/shandysiswandi/otpguard/internal/pkg/messaging"
	pkgotp "github.com/shandysiswandi/otpguard/internal/pkg/otp"
	"github.com/shandysiswandi/otpguard/internal/pkg/router"
	"github.com/shandysiswandi/otpguard/internal/pkg/uid"
	"github.com/shandysiswandi/otpguard/internal/pkg/validator"
)

const (
	DeliveryDriverMessaging = "messaging"
	DeliveryDriverMail      = "mail"
)

var ErrUnknownDeliveryDriver = errors.New("otp: unknown delivery driver")

type Dependency struct {
	Store      kvstore.Store              `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Renderer   *mail.Renderer             `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	policy := PolicyFromConfig(dep.Config)

	gen, err := pkgotp.NewNumeric(policy.CodeMin, policy.CodeMax)
	if err != nil {
		return err
	}

	var notifier usecase.Notifier
	switch driver := dep.Config.GetString("modules.otp.delivery.driver"); driver {
	case "", DeliveryDriverMessaging:
		notifier = mq.NewMessaging(dep.Messaging, dep.UUID, dep.Instrument)
	case DeliveryDriverMail:
		notifier = email.New(dep.Mail, dep.Renderer, dep.Clock, dep.Config.GetString("app.company_name"), dep.Instrument)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDeliveryDriver, driver)
	}

	uc := usecase.New(usecase.Dependency{
		RepoCache:  cache.New(dep.Store, dep.Instrument),
		Notifier:   notifier,
		Generator:  gen,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
		Policy:     policy,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// PolicyFromConfig reads modules.otp.policy.*. Missing keys keep the defaults.
func PolicyFromConfig(cfg config.Config) entity.Policy {
	p := entity.Policy{
		CodeTTL:             cfg.GetSecond("modules.otp.policy.code_ttl_seconds"),
		CooldownTTL:         cfg.GetSecond("modules.otp.policy.cooldown_seconds"),
		AccountLockTTL:      cfg.GetMinute("modules.otp.policy.account_lock_minutes"),
		SpamLockTTL:         cfg.GetMinute("modules.otp.policy.spam_lock_minutes"),
		RequestWindow:       cfg.GetMinute("modules.otp.policy.request_window_minutes"),
		FailedAttemptWindow: cfg.GetMinute("modules.otp.policy.failed_attempt_window_minutes"),
		MaxRequests:         cfg.GetInt("modules.otp.policy.max_requests"),
		MaxFailedAttempts:   cfg.GetInt("modules.otp.policy.max_failed_attempts"),
		CodeMin:             cfg.GetInt64("modules.otp.policy.code_min"),
		CodeMax:             cfg.GetInt64("modules.otp.policy.code_max"),
	}

	return p.WithDefaults()
}
