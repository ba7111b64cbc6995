package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Mail is the provider side of one delivery attempt. Retrying is the
// caller's job.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(
		attribute.Int("mail.recipients", len(msg.To)),
		attribute.String("mail.recipient_domain", recipientDomain(msg.To)),
	)

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("notification: send mail: %w", err)
	}

	return nil
}

// recipientDomain keeps addresses out of traces.
func recipientDomain(to []string) string {
	if len(to) == 0 {
		return ""
	}
	_, domain, _ := strings.Cut(to[0], "@")
	return domain
}
