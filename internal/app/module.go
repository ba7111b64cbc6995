package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpguard/internal/notification"
	"github.com/shandysiswandi/otpguard/internal/otp"
)

func (a *App) initModules() {
	if err := otp.New(otp.Dependency{
		Store:      a.store,
		Messaging:  a.messaging,
		Mail:       a.mail,
		Renderer:   a.mailRenderer,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
			Renderer:    a.mailRenderer,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
