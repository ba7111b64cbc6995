package messaging

import (
	"context"

	"go.uber.org/atomic"
)

// ackOnce guards a message against being settled twice, for example when the
// handler acks and auto-ack then runs.
type ackOnce struct {
	done atomic.Bool
}

// claim returns true for the first caller only.
func (a *ackOnce) claim() bool {
	return !a.done.Swap(true)
}

func (a *ackOnce) settled() bool {
	return a.done.Load()
}

type settleable interface {
	Message
	settled() bool
}

// autoSettle acks on success and nacks on failure unless the handler already
// settled the message.
func autoSettle(ctx context.Context, msg settleable, handlerErr error) error {
	if msg.settled() {
		return nil
	}
	if handlerErr == nil {
		return msg.Ack(ctx)
	}
	if n, ok := msg.(Nackable); ok {
		return n.Nack(ctx)
	}
	return nil
}
