package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStoreUnavailable wraps every failed store round trip. Nothing can be
	// assumed about what was written before the failure.
	ErrStoreUnavailable = errors.New("otp: store unavailable")

	// ErrCodeExpiredOrAbsent means there is no current code to check or resend.
	ErrCodeExpiredOrAbsent = errors.New("otp: code expired or absent")

	// ErrAccountLocked is the terminal outcome of too many wrong guesses.
	ErrAccountLocked = errors.New("otp: account locked")

	ErrUnknownLockKind = errors.New("otp: unknown lock kind")
)

// ThrottledError is returned when a gate or the request throttle refuses a
// request. It is an expected outcome, not a fault.
type ThrottledError struct {
	Reason     LockKind
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("otp: throttled (%s), retry after %s", e.Reason, e.RetryAfter)
}

// Is lets errors.Is(err, ErrAccountLocked) match an account-lock throttle.
func (e *ThrottledError) Is(target error) bool {
	return target == ErrAccountLocked && e.Reason == LockAccount
}

// MismatchError reports a wrong code that did not yet lock the account.
type MismatchError struct {
	AttemptsRemaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("otp: code mismatch, %d attempts remaining", e.AttemptsRemaining)
}

// DeliveryError means the code is stored and usable but the notification
// failed.
type DeliveryError struct {
	Identity string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("otp: delivery to %s failed: %v", e.Identity, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
