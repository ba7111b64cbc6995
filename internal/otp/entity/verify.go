package entity

import "time"

// VerifyStatus is the outcome of a single verification.
type VerifyStatus int

const (
	VerifyExpired VerifyStatus = iota + 1
	VerifyAccepted
	VerifyRejected
	VerifyLocked
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyExpired:
		return "expired"
	case VerifyAccepted:
		return "accepted"
	case VerifyRejected:
		return "rejected"
	case VerifyLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// VerifyResult carries the attempts left after a rejection and the lock
// duration after a lock.
type VerifyResult struct {
	Status            VerifyStatus
	AttemptsRemaining int
	RetryAfter        time.Duration
}

// Err converts a non-accepted result into its error form.
func (r VerifyResult) Err() error {
	switch r.Status {
	case VerifyAccepted:
		return nil
	case VerifyRejected:
		return &MismatchError{AttemptsRemaining: r.AttemptsRemaining}
	case VerifyLocked:
		return &ThrottledError{Reason: LockAccount, RetryAfter: r.RetryAfter}
	default:
		return ErrCodeExpiredOrAbsent
	}
}
