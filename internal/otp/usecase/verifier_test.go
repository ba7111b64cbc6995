package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
)

func newVerifier(f *fixture) *Verifier {
	p := entity.DefaultPolicy()
	return NewVerifier(f.repo, NewLockRegistry(f.repo, p), p)
}

func seedCode(t *testing.T, f *fixture, code string) {
	t.Helper()
	if err := f.store.Set(context.Background(), "otp:a@x.com", code, 5*time.Minute); err != nil {
		t.Fatalf("seed code: %v", err)
	}
}

func TestVerifier_NoCode(t *testing.T) {
	f := newFixture(t)

	res, err := newVerifier(f).Verify(context.Background(), "a@x.com", "4821")

	if err != nil || res.Status != entity.VerifyExpired {
		t.Fatalf("Verify() = %+v, %v; want expired", res, err)
	}
	if _, ok := f.value(t, "otp_failed_attempts:a@x.com"); ok {
		t.Errorf("no-code verify must not count an attempt")
	}
}

func TestVerifier_Accept(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	v := newVerifier(f)
	seedCode(t, f, "4821")
	if _, err := v.Verify(ctx, "a@x.com", "0000"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	// Act
	res, err := v.Verify(ctx, "a@x.com", "4821")

	// Assert
	if err != nil || res.Status != entity.VerifyAccepted {
		t.Fatalf("Verify() = %+v, %v; want accepted", res, err)
	}
	if _, ok := f.value(t, "otp:a@x.com"); ok {
		t.Errorf("code should be deleted")
	}
	if _, ok := f.value(t, "otp_failed_attempts:a@x.com"); ok {
		t.Errorf("failed counter should be deleted with the code")
	}

	res, err = v.Verify(ctx, "a@x.com", "4821")
	if err != nil || res.Status != entity.VerifyExpired {
		t.Errorf("second Verify() = %+v, %v; want expired", res, err)
	}
}

func TestVerifier_ThreeWrongGuessesLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := newVerifier(f)
	seedCode(t, f, "4821")

	want := []entity.VerifyResult{
		{Status: entity.VerifyRejected, AttemptsRemaining: 1},
		{Status: entity.VerifyRejected, AttemptsRemaining: 0},
		{Status: entity.VerifyLocked, RetryAfter: 30 * time.Minute},
	}
	for i, w := range want {
		res, err := v.Verify(ctx, "a@x.com", "0000")
		if err != nil {
			t.Fatalf("guess %d error = %v", i+1, err)
		}
		if res != w {
			t.Errorf("guess %d = %+v, want %+v", i+1, res, w)
		}
	}

	if v, ok := f.value(t, "otp_lock:a@x.com"); !ok || v != "locked" {
		t.Errorf("account lock = %q, %v", v, ok)
	}
	if got := f.ttl(t, "otp_lock:a@x.com"); got != 30*time.Minute {
		t.Errorf("lock ttl = %v, want 30m", got)
	}
	if _, ok := f.value(t, "otp:a@x.com"); ok {
		t.Errorf("code should be deleted on lock")
	}
	if _, ok := f.value(t, "otp_failed_attempts:a@x.com"); ok {
		t.Errorf("failed counter should be deleted on lock")
	}
}

func TestVerifier_NineNineNineNineIsMismatch(t *testing.T) {
	f := newFixture(t)
	seedCode(t, f, "4821")

	res, err := newVerifier(f).Verify(context.Background(), "a@x.com", "9999")

	if err != nil || res.Status != entity.VerifyRejected {
		t.Errorf("Verify(9999) = %+v, %v; want rejected", res, err)
	}
}

func TestVerifier_FailedCounterTTL(t *testing.T) {
	f := newFixture(t)
	seedCode(t, f, "4821")

	if _, err := newVerifier(f).Verify(context.Background(), "a@x.com", "1234"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if v, _ := f.value(t, "otp_failed_attempts:a@x.com"); v != "1" {
		t.Errorf("failed counter = %q, want 1", v)
	}
	if got := f.ttl(t, "otp_failed_attempts:a@x.com"); got != 30*time.Minute {
		t.Errorf("failed counter ttl = %v, want 30m", got)
	}
}

func TestVerifier_UnparsableCounterCountsAsZero(t *testing.T) {
	f := newFixture(t)
	seedCode(t, f, "4821")
	if err := f.store.Set(context.Background(), "otp_failed_attempts:a@x.com", "x", time.Minute); err != nil {
		t.Fatalf("seed error = %v", err)
	}

	res, err := newVerifier(f).Verify(context.Background(), "a@x.com", "0000")

	if err != nil || res.Status != entity.VerifyRejected || res.AttemptsRemaining != 1 {
		t.Errorf("Verify() = %+v, %v; want rejected with 1 left", res, err)
	}
}
