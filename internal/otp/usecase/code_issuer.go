package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/otp"
)

// CodeIssuer generates, stores and delivers codes. A new code replaces any
// previous one for the identity.
type CodeIssuer struct {
	store  repoCache
	gen    otp.Generator
	policy entity.Policy
}

func NewCodeIssuer(store repoCache, gen otp.Generator, policy entity.Policy) *CodeIssuer {
	return &CodeIssuer{store: store, gen: gen, policy: policy.WithDefaults()}
}

// Issue stores a new code and the cooldown flag, then notifies. When
// notification fails the stored keys stay in place and a DeliveryError is
// returned.
func (c *CodeIssuer) Issue(ctx context.Context, identity, displayName string, notify Notifier) error {
	code, err := c.gen.Generate()
	if err != nil {
		return fmt.Errorf("otp: generate code: %w", err)
	}

	if err := c.store.Set(ctx, entity.CodeKey(identity), code, c.policy.CodeTTL); err != nil {
		return err
	}

	cooldown := entity.LockCooldown
	if err := c.store.Set(ctx, cooldown.Key(identity), cooldown.Value(), c.policy.CooldownTTL); err != nil {
		return err
	}

	if err := notify.Notify(ctx, entity.NewActivationDelivery(identity, displayName, code)); err != nil {
		return &entity.DeliveryError{Identity: identity, Err: err}
	}

	return nil
}

// Redeliver sends the current code again without touching its TTL or the
// cooldown.
func (c *CodeIssuer) Redeliver(ctx context.Context, identity, displayName string, notify Notifier) error {
	code, err := c.store.Get(ctx, entity.CodeKey(identity))
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.ErrCodeExpiredOrAbsent
	}
	if err != nil {
		return err
	}

	if err := notify.Notify(ctx, entity.NewActivationDelivery(identity, displayName, code)); err != nil {
		return &entity.DeliveryError{Identity: identity, Err: err}
	}

	return nil
}
