// Package mail sends email through a pluggable provider and renders the
// embedded HTML templates used for OTP delivery.
package mail

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNoRecipients = errors.New("mail: no recipients provided")
	ErrNoSender     = errors.New("mail: no sender provided")
)

// Message is a provider-agnostic email.
type Message struct {
	// From falls back to the driver's configured sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// resolve validates m and fills From.
func (m Message) resolve(defaultFrom string) (Message, error) {
	if len(m.recipients()) == 0 {
		return m, ErrNoRecipients
	}
	if m.From == "" {
		m.From = defaultFrom
	}
	if m.From == "" {
		return m, ErrNoSender
	}
	return m, nil
}

// Mail is implemented by every driver.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
