package mail

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Gomail sends through gopkg.in/gomail.v2, which negotiates STARTTLS or
// implicit TLS from the port.
type Gomail struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomail(cfg SMTPConfig) (*Gomail, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Gomail{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (g *Gomail) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := msg.resolve(g.from)
	if err != nil {
		return err
	}

	return g.dialer.DialAndSend(toGomail(msg))
}

func (g *Gomail) Close() error { return nil }

func toGomail(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m
}
