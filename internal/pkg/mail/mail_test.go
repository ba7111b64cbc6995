package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewFromDriver(t *testing.T) {
	cfg := SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@otpguard.local"}

	tests := []struct {
		driver  string
		wantErr error
	}{
		{DriverSMTP, nil},
		{DriverGomail, nil},
		{DriverLog, nil},
		{"", nil},
		{"carrier-pigeon", ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			m, err := NewFromDriver(tt.driver, cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && m == nil {
				t.Fatal("NewFromDriver() returned nil Mail")
			}
		})
	}
}

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{Host: "localhost"}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Errorf("NewSMTP() error = %v", err)
	}
	if _, err := NewGomail(SMTPConfig{Port: 25}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Errorf("NewGomail() error = %v", err)
	}
}

func TestLog_Send(t *testing.T) {
	l := NewLog("")

	err := l.Send(context.Background(), Message{To: []string{"a@x.com"}})
	if !errors.Is(err, ErrNoSender) {
		t.Errorf("Send() without sender = %v, want ErrNoSender", err)
	}

	err = l.Send(context.Background(), Message{From: "x@y.z"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send() without recipients = %v, want ErrNoRecipients", err)
	}

	err = l.Send(context.Background(), Message{From: "x@y.z", To: []string{"a@x.com"}, Subject: "Verify Your Email"})
	if err != nil {
		t.Errorf("Send() error = %v", err)
	}
}

func TestSMTP_SendCanceled(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "x@y.z"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Send(ctx, Message{To: []string{"a@x.com"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := buildMIME(Message{
		From:     "x@y.z",
		To:       []string{"a@x.com"},
		Subject:  "Verify Your Email",
		TextBody: "code 4821",
		HTMLBody: "<b>4821</b>",
	})

	for _, want := range []string{"From: x@y.z\r\n", "To: a@x.com\r\n", "Subject: Verify Your Email\r\n", "multipart/alternative", "<b>4821</b>"} {
		if !strings.Contains(raw, want) {
			t.Errorf("buildMIME() missing %q", want)
		}
	}
}

func TestRenderer_Render(t *testing.T) {
	// Arrange
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	// Act
	body, err := r.Render("user-activation-mail", map[string]any{
		"DisplayName": "Ada <script>",
		"Code":        "4821",
	})

	// Assert
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(body, "4821") {
		t.Error("body should contain the code")
	}
	if !strings.Contains(body, "Ada &lt;script&gt;") {
		t.Error("display name should be HTML escaped")
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render("password-reset", nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Render() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestTemplateVars(t *testing.T) {
	in := map[string]string{"Code": "4821"}

	got := TemplateVars(in, "OTP Guard", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	if got["Code"] != "4821" || got["Year"] != 2026 || got["CompanyName"] != "OTP Guard" {
		t.Errorf("TemplateVars() = %v", got)
	}
	if _, ok := in["Year"]; ok {
		t.Error("input map must not be modified")
	}
}
