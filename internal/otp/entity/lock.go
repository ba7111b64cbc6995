package entity

import "time"

// LockKind names one of the three independent gates.
type LockKind int

const (
	LockAccount LockKind = iota + 1
	LockSpam
	LockCooldown
)

// GateOrder is the order requests are checked in; the first lock found wins.
var GateOrder = []LockKind{LockAccount, LockSpam, LockCooldown}

func (k LockKind) String() string {
	switch k {
	case LockAccount:
		return "account_locked"
	case LockSpam:
		return "spam"
	case LockCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

func (k LockKind) purpose() string {
	switch k {
	case LockAccount:
		return PurposeAccountLock
	case LockSpam:
		return PurposeSpamLock
	case LockCooldown:
		return PurposeCooldown
	default:
		return ""
	}
}

// Key returns the store key of the lock for identity.
func (k LockKind) Key(identity string) string {
	return Key(k.purpose(), identity)
}

// Value is what the lock key holds while set.
func (k LockKind) Value() string {
	if k == LockCooldown {
		return ValueCooldown
	}
	return ValueLocked
}

// TTL picks the lock duration from p.
func (k LockKind) TTL(p Policy) time.Duration {
	switch k {
	case LockAccount:
		return p.AccountLockTTL
	case LockSpam:
		return p.SpamLockTTL
	case LockCooldown:
		return p.CooldownTTL
	default:
		return 0
	}
}

func (k LockKind) Valid() bool {
	return k.purpose() != ""
}
