package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Cache is the OTP module's view of the key-value store. A missing key is
// goerror.ErrNotFound; every other failure wraps entity.ErrStoreUnavailable.
type Cache struct {
	store kvstore.Store
	ins   instrument.Instrumentation
}

func New(store kvstore.Store, ins instrument.Instrumentation) *Cache {
	return &Cache{store: store, ins: ins}
}

func (c *Cache) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kvstore.ErrNil) {
		return goerror.ErrNotFound
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrStoreUnavailable, op, err)
}

func (c *Cache) startSpan(ctx context.Context, name string, keys ...string) (context.Context, trace.Span) {
	return c.ins.Tracer("otp.outbound.cache").Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.StringSlice("cache.keys", keys)),
	)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) Get(ctx context.Context, key string) (val string, err error) {
	ctx, span := c.startSpan(ctx, "Get", key)
	defer func() { c.endSpan(span, err) }()

	val, err = c.store.Get(ctx, key)
	err = c.mapError("get", err)
	return val, err
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "Set", key)
	defer func() { c.endSpan(span, err) }()

	err = c.mapError("set", c.store.Set(ctx, key, value, ttl))
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) (err error) {
	ctx, span := c.startSpan(ctx, "Del", keys...)
	defer func() { c.endSpan(span, err) }()

	err = c.mapError("del", c.store.Del(ctx, keys...))
	return err
}

// TTL returns kvstore.NoExpiry for a key without expiry.
func (c *Cache) TTL(ctx context.Context, key string) (d time.Duration, err error) {
	ctx, span := c.startSpan(ctx, "TTL", key)
	defer func() { c.endSpan(span, err) }()

	d, err = c.store.TTL(ctx, key)
	err = c.mapError("ttl", err)
	return d, err
}
