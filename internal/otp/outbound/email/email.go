package email

import (
	"context"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

type renderer interface {
	Render(id string, vars map[string]any) (string, error)
}

// Mail renders and sends the delivery in the request path.
type Mail struct {
	client      mail.Mail
	renderer    renderer
	clock       clock.Clocker
	companyName string
	ins         instrument.Instrumentation
}

func New(client mail.Mail, r renderer, clk clock.Clocker, companyName string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, renderer: r, clock: clk, companyName: companyName, ins: ins}
}

func (m *Mail) Notify(ctx context.Context, d entity.Delivery) error {
	ctx, span := m.ins.Tracer("otp.outbound.email").Start(ctx, "Notify")
	defer span.End()

	body, err := m.renderer.Render(d.TemplateID, mail.TemplateVars(d.Variables, m.companyName, m.clock.Now()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{d.Identity},
		Subject:  d.Subject,
		HTMLBody: body,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
