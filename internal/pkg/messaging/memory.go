package messaging

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Memory is an in-process broker. Every Consume call on a source gets its own
// copy of each message published after it subscribed. Nacked messages are
// redelivered once per Nack. Intended for tests and single-node runs.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string][]chan *memoryMessage
	closed bool
	seq    atomic.Int64
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]chan *memoryMessage)}
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, destination, msg); err != nil {
		return PublishResult{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return PublishResult{}, io.ErrClosedPipe
	}

	id := strconv.FormatInt(m.seq.Inc(), 10)
	now := time.Now()
	for _, ch := range m.subs[destination] {
		mm := &memoryMessage{
			id:      id,
			topic:   destination,
			body:    append([]byte(nil), msg.Body...),
			key:     append([]byte(nil), msg.Key...),
			headers: append([]Header(nil), msg.Headers...),
			at:      now,
			requeue: ch,
		}
		select {
		case ch <- mm:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		}
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: now}, nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, source, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	ch := make(chan *memoryMessage, 64)
	if err := m.subscribe(source, ch); err != nil {
		return err
	}
	defer m.unsubscribe(source, ch)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-ch:
					herr := safeHandle(ctx, "memory", handler, mm)
					if co.autoAck {
						_ = autoSettle(ctx, mm, herr)
					}
				}
			}
		})
	}

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

func (m *Memory) subscribe(source string, ch chan *memoryMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	m.subs[source] = append(m.subs[source], ch)
	return nil
}

func (m *Memory) unsubscribe(source string, ch chan *memoryMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.subs[source]
	for i, c := range list {
		if c == ch {
			m.subs[source] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.subs = make(map[string][]chan *memoryMessage)
	return nil
}

var errRequeueFull = errors.New("messaging: memory requeue buffer full")

type memoryMessage struct {
	ackOnce
	id      string
	topic   string
	body    []byte
	key     []byte
	headers []Header
	at      time.Time
	requeue chan *memoryMessage
}

func (mm *memoryMessage) Body() []byte             { return mm.body }
func (mm *memoryMessage) Key() []byte              { return mm.key }
func (mm *memoryMessage) Headers() []Header        { return mm.headers }
func (mm *memoryMessage) Header(key string) string { return firstHeader(mm.headers, key) }
func (mm *memoryMessage) ID() string               { return mm.id }
func (mm *memoryMessage) Topic() string            { return mm.topic }
func (mm *memoryMessage) Timestamp() time.Time     { return mm.at }

func (mm *memoryMessage) Ack(context.Context) error {
	mm.claim()
	return nil
}

func (mm *memoryMessage) Nack(context.Context) error {
	if !mm.claim() {
		return nil
	}

	again := &memoryMessage{
		id: mm.id, topic: mm.topic, body: mm.body, key: mm.key,
		headers: mm.headers, at: mm.at, requeue: mm.requeue,
	}
	select {
	case mm.requeue <- again:
		return nil
	default:
		return errRequeueFull
	}
}
