package entity

import "time"

// Policy holds every TTL and threshold of the OTP lifecycle.
type Policy struct {
	CodeTTL        time.Duration
	CooldownTTL    time.Duration
	AccountLockTTL time.Duration
	SpamLockTTL    time.Duration

	// RequestWindow is the TTL refreshed on the request counter.
	RequestWindow time.Duration
	// FailedAttemptWindow is the TTL refreshed on the failed-attempt counter.
	FailedAttemptWindow time.Duration

	// MaxRequests is the request that trips the spam lock (the 3rd by default).
	MaxRequests int
	// MaxFailedAttempts is the wrong guess that locks the account.
	MaxFailedAttempts int

	// CodeMin and CodeMax bound generated codes as [CodeMin, CodeMax).
	CodeMin int64
	CodeMax int64
}

func DefaultPolicy() Policy {
	return Policy{
		CodeTTL:             5 * time.Minute,
		CooldownTTL:         60 * time.Second,
		AccountLockTTL:      30 * time.Minute,
		SpamLockTTL:         time.Hour,
		RequestWindow:       time.Hour,
		FailedAttemptWindow: 30 * time.Minute,
		MaxRequests:         3,
		MaxFailedAttempts:   3,
		CodeMin:             1000,
		CodeMax:             9999,
	}
}

// WithDefaults replaces zero or negative fields with DefaultPolicy values.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()

	durations := []struct {
		dst *time.Duration
		def time.Duration
	}{
		{&p.CodeTTL, d.CodeTTL},
		{&p.CooldownTTL, d.CooldownTTL},
		{&p.AccountLockTTL, d.AccountLockTTL},
		{&p.SpamLockTTL, d.SpamLockTTL},
		{&p.RequestWindow, d.RequestWindow},
		{&p.FailedAttemptWindow, d.FailedAttemptWindow},
	}
	for _, f := range durations {
		if *f.dst <= 0 {
			*f.dst = f.def
		}
	}

	if p.MaxRequests <= 0 {
		p.MaxRequests = d.MaxRequests
	}
	if p.MaxFailedAttempts <= 0 {
		p.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if p.CodeMin <= 0 || p.CodeMax <= p.CodeMin {
		p.CodeMin, p.CodeMax = d.CodeMin, d.CodeMax
	}

	return p
}
