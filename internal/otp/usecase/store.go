package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
)

// repoCache is the key-value store as seen by this module. Get and TTL return
// goerror.ErrNotFound for a missing key; other errors wrap
// entity.ErrStoreUnavailable.
type repoCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Notifier delivers a freshly issued or resent code.
type Notifier interface {
	Notify(ctx context.Context, d entity.Delivery) error
}

// readCounter returns the integer at key, 0 when absent. A value that does not
// parse as a non-negative integer also counts as 0 and is logged.
func readCounter(ctx context.Context, store repoCache, key string) (int, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		slog.WarnContext(ctx, "unparsable otp counter treated as zero", "key", key, "value", raw)
		return 0, nil
	}

	return n, nil
}
