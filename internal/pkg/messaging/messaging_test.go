package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewConsumeOptions(t *testing.T) {
	co := newConsumeOptions(WithConcurrency(0), WithAutoAck(true), WithGroup("g"), WithQueueGroup("q"), nil)

	if co.concurrency != 1 {
		t.Errorf("concurrency = %d, want 1", co.concurrency)
	}
	if !co.autoAck || co.group != "g" || co.queueGroup != "q" {
		t.Errorf("options = %+v", co)
	}
}

func TestNewFromDriver(t *testing.T) {
	if _, err := NewFromDriver("pigeon", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("error = %v, want ErrUnknownDriver", err)
	}
	if _, err := NewFromDriver(DriverKafka, FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Errorf("error = %v, want ErrKafkaBrokersRequired", err)
	}
	if _, err := NewFromDriver(DriverNATS, FactoryOptions{}); !errors.Is(err, ErrNATSURLRequired) {
		t.Errorf("error = %v, want ErrNATSURLRequired", err)
	}
	m, err := NewFromDriver(DriverMemory, FactoryOptions{})
	if err != nil || m == nil {
		t.Errorf("memory driver = %v, %v", m, err)
	}
}

func TestSafeHandle_RecoversPanic(t *testing.T) {
	err := safeHandle(context.Background(), "test", func(context.Context, Message) error {
		panic("boom")
	}, &memoryMessage{})

	if err == nil {
		t.Fatal("safeHandle() should return an error after panic")
	}
}

func TestAckOnce(t *testing.T) {
	var a ackOnce
	if !a.claim() {
		t.Fatal("first claim should succeed")
	}
	if a.claim() {
		t.Error("second claim should fail")
	}
	if !a.settled() {
		t.Error("settled() should be true")
	}
}

func TestPublishValidation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Publish(ctx, "", OutgoingMessage{}); !errors.Is(err, ErrDestinationRequired) {
		t.Errorf("empty destination error = %v", err)
	}
	if _, err := m.Publish(ctx, "otp_delivery", OutgoingMessage{Delay: time.Second}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("delay error = %v", err)
	}
	if err := m.Consume(ctx, "otp_delivery", nil); !errors.Is(err, ErrHandlerRequired) {
		t.Errorf("nil handler error = %v", err)
	}
}

func TestMemory_PublishConsume(t *testing.T) {
	// Arrange
	m := NewMemory()
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Consume(ctx, "otp_delivery", func(_ context.Context, msg Message) error {
			got <- msg
			return nil
		}, WithAutoAck(true))
	}()
	waitSubscribed(t, m, "otp_delivery")

	// Act
	_, err := m.Publish(ctx, "otp_delivery", OutgoingMessage{
		Body:    []byte(`{"email":"a@x.com"}`),
		Headers: []Header{{Key: "cID", Value: []byte("cid-1")}},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Assert
	select {
	case msg := <-got:
		if string(msg.Body()) != `{"email":"a@x.com"}` {
			t.Errorf("Body() = %s", msg.Body())
		}
		if msg.Header("cID") != "cid-1" {
			t.Errorf("Header(cID) = %q", msg.Header("cID"))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Consume() error = %v, want context.Canceled", err)
	}
}

func TestMemory_NackRedelivers(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	attempts := 0
	delivered := make(chan struct{})
	go func() {
		_ = m.Consume(ctx, "t", func(context.Context, Message) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts == 1 {
				return errors.New("transient")
			}
			close(delivered)
			return nil
		}, WithAutoAck(true))
	}()
	waitSubscribed(t, m, "t")

	if _, err := m.Publish(ctx, "t", OutgoingMessage{Body: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("nacked message was not redelivered")
	}
}

func waitSubscribed(t *testing.T, m *Memory, source string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.RLock()
		n := len(m.subs[source])
		m.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber on %s", source)
}
