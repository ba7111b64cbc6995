package entity

import "time"

// CodeState is where an identity sits in the code lifecycle.
type CodeState string

const (
	StateNoCode  CodeState = "no_code"
	StatePending CodeState = "pending"
	StateLocked  CodeState = "locked"
)

// Status is a read-only snapshot of an identity's OTP state. Zero durations
// mean the lock is not set.
type Status struct {
	State             CodeState
	CodeExpiresIn     time.Duration
	AccountLockedFor  time.Duration
	SpamLockedFor     time.Duration
	CooldownFor       time.Duration
	AttemptsRemaining int
	RequestsRemaining int
}
