package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/mail"
)

type stubMail struct {
	got mail.Message
	err error
}

func (s *stubMail) Send(_ context.Context, msg mail.Message) error {
	s.got = msg
	return s.err
}

func (s *stubMail) Close() error { return nil }

func TestMail_Send(t *testing.T) {
	// Arrange
	client := &stubMail{}
	m := New(client, instrument.NewNoop())

	// Act
	err := m.Send(context.Background(), mail.Message{To: []string{"a@x.com"}, Subject: "hi"})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if client.got.Subject != "hi" {
		t.Errorf("subject = %q", client.got.Subject)
	}
}

func TestMail_SendWrapsProviderError(t *testing.T) {
	client := &stubMail{err: errors.New("smtp down")}
	m := New(client, instrument.NewNoop())

	err := m.Send(context.Background(), mail.Message{To: []string{"a@x.com"}})

	if !errors.Is(err, client.err) {
		t.Errorf("Send() error = %v, want wrapped %v", err, client.err)
	}
}

func TestRecipientDomain(t *testing.T) {
	tests := []struct {
		to   []string
		want string
	}{
		{nil, ""},
		{[]string{"alice@example.com"}, "example.com"},
		{[]string{"broken"}, ""},
	}

	for _, tt := range tests {
		if got := recipientDomain(tt.to); got != tt.want {
			t.Errorf("recipientDomain(%v) = %q, want %q", tt.to, got, tt.want)
		}
	}
}
