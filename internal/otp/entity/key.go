package entity

import "strings"

// Key purposes. Every key is "{purpose}:{identity}".
const (
	PurposeCode           = "otp"
	PurposeCooldown       = "otp_cooldown"
	PurposeAccountLock    = "otp_lock"
	PurposeSpamLock       = "otp_spam_lock"
	PurposeRequestCount   = "otp_requests_count"
	PurposeFailedAttempts = "otp_failed_attempts"
)

// Stored flag values.
const (
	ValueLocked   = "locked"
	ValueCooldown = "true"
)

// NormalizeIdentity lower-cases and trims an email so "A@X.com " and
// "a@x.com" share state.
func NormalizeIdentity(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func Key(purpose, identity string) string {
	return purpose + ":" + identity
}

func CodeKey(identity string) string           { return Key(PurposeCode, identity) }
func RequestCountKey(identity string) string   { return Key(PurposeRequestCount, identity) }
func FailedAttemptsKey(identity string) string { return Key(PurposeFailedAttempts, identity) }
