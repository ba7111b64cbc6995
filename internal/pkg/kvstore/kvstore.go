// Package kvstore is the shared key-value store with per-key expiry.
//
// Every instance of the service talks to the same store, so it is the only
// place request state lives. Two implementations are provided: Redis for
// production and Memory for tests and single-process tooling.
package kvstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// NoExpiry is returned by TTL for a key that exists without an expiry.
const NoExpiry time.Duration = -1

var (
	// ErrNil is returned when a key does not exist or has expired.
	ErrNil = errors.New("kvstore: key not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kvstore: store closed")
)

// Store is the subset of key-value operations the service relies on.
// Each call is independent; there are no transactions across keys.
type Store interface {
	io.Closer

	// Get returns the value of key, or ErrNil.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value with a fresh ttl, replacing any previous value and
	// expiry. A ttl <= 0 stores the key without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes every key given. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error

	// TTL returns the remaining lifetime of key, NoExpiry, or ErrNil.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
