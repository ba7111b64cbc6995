package mail

import (
	"context"
	"log/slog"
)

// Log writes messages to slog instead of sending them. Used for local runs.
type Log struct {
	from string
}

func NewLog(from string) *Log {
	return &Log{from: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	msg, err := msg.resolve(l.from)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail not sent, log driver active",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTMLBody,
	)
	return nil
}

func (l *Log) Close() error { return nil }
