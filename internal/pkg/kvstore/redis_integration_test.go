//go:build integration

package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedis_Container(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	client, err := Connect(ctx, DefaultRedisConfig(uri))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	store := NewRedis(client)
	defer store.Close()

	if err := store.Set(ctx, "otp_lock:a@x.com", "locked", 2*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	ttl, err := store.TTL(ctx, "otp_lock:a@x.com")
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > 2*time.Second {
		t.Errorf("TTL() = %v, want (0, 2s]", ttl)
	}

	time.Sleep(2100 * time.Millisecond)

	if _, err := store.Get(ctx, "otp_lock:a@x.com"); !errors.Is(err, ErrNil) {
		t.Errorf("Get() after expiry error = %v, want ErrNil", err)
	}
}
