package otp

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/config"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
	"github.com/shandysiswandi/otpguard/internal/pkg/messaging"
	"github.com/shandysiswandi/otpguard/internal/pkg/router"
	"github.com/shandysiswandi/otpguard/internal/pkg/uid"
	"github.com/shandysiswandi/otpguard/internal/pkg/validator"
)

func TestPolicyFromConfig(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  otp:
    policy:
      cooldown_seconds: 120
      max_failed_attempts: 5
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	p := PolicyFromConfig(cfg)

	if p.CooldownTTL != 2*time.Minute || p.MaxFailedAttempts != 5 {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.CodeTTL != 5*time.Minute || p.AccountLockTTL != 30*time.Minute || p.CodeMax != 9999 {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestPolicyFromConfig_ShippedFile(t *testing.T) {
	// Arrange
	cfg, err := config.NewViper(filepath.Join("..", "..", "config", "config.yaml"))
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	defer cfg.Close()

	// Act
	p := PolicyFromConfig(cfg)

	// Assert
	if p != entity.DefaultPolicy() {
		t.Errorf("shipped policy = %+v, want %+v", p, entity.DefaultPolicy())
	}
	if p.MaxRequests != 3 || p.MaxFailedAttempts != 3 {
		t.Errorf("thresholds = %d requests, %d failures; want 3 and 3", p.MaxRequests, p.MaxFailedAttempts)
	}
}

func newDependency(t *testing.T, yaml string) Dependency {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	r, err := mail.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	ins := instrument.NewNoop()

	return Dependency{
		Store:      kvstore.NewMemory(nil),
		Messaging:  messaging.NewMemory(),
		Mail:       mail.NewLog("no-reply@otpguard.local"),
		Renderer:   r,
		Router:     router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: ins}),
		Config:     cfg,
		Instrument: ins,
		UUID:       uid.NewUUID(),
		Clock:      clock.New(),
		Validator:  v,
	}
}

func TestNew(t *testing.T) {
	for _, driver := range []string{"", "messaging", "mail"} {
		dep := newDependency(t, "modules: {otp: {delivery: {driver: '"+driver+"'}}}")
		if err := New(dep); err != nil {
			t.Errorf("New(driver=%q) error = %v", driver, err)
		}
	}

	dep := newDependency(t, "modules: {otp: {delivery: {driver: pigeon}}}")
	if err := New(dep); !errors.Is(err, ErrUnknownDeliveryDriver) {
		t.Errorf("New() error = %v, want ErrUnknownDeliveryDriver", err)
	}

	dep = newDependency(t, "app: {}")
	dep.Store = nil
	if err := New(dep); err == nil {
		t.Error("New() without store should fail validation")
	}
}
