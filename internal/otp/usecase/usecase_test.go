package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
)

func TestUsecase_LockoutScenario(t *testing.T) {
	// Arrange
	f := newFixture(t, "4821", "5310")

	// Act & Assert
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	if got := f.notifier.last().Variables[entity.VarCode]; got != "4821" {
		t.Fatalf("delivered code = %q, want 4821", got)
	}

	for _, left := range []string{"1", "0"} {
		gerr := requireCode(t, f.verify(t, "a@x.com", "0000"), goerror.CodeUnauthorized)
		if gerr.Fields()["attempts_remaining"] != left {
			t.Errorf("attempts_remaining = %q, want %s", gerr.Fields()["attempts_remaining"], left)
		}
	}
	gerr := requireCode(t, f.verify(t, "a@x.com", "0000"), goerror.CodeLocked)
	if gerr.Msg() != "Account locked due to multiple failed attempts! Try again after 30 minutes." {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
	if gerr.Fields()["retry_after_seconds"] != "1800" {
		t.Errorf("retry_after_seconds = %q, want 1800", gerr.Fields()["retry_after_seconds"])
	}

	f.clock.Advance(10 * time.Minute)
	requireCode(t, f.request(t, "a@x.com"), goerror.CodeLocked)
	gerr = requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeLocked)
	if gerr.Fields()["retry_after_seconds"] != "1200" {
		t.Errorf("retry_after_seconds = %q, want remaining 1200", gerr.Fields()["retry_after_seconds"])
	}

	f.clock.Advance(20 * time.Minute)
	requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeGone)
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() after lock expiry error = %v", err)
	}
	if err := f.verify(t, "a@x.com", "5310"); err != nil {
		t.Errorf("VerifyOTP() with new code error = %v", err)
	}
}

func TestUsecase_MismatchMessage(t *testing.T) {
	f := newFixture(t, "4821")
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}

	gerr := requireCode(t, f.verify(t, "a@x.com", "9999"), goerror.CodeUnauthorized)

	if gerr.Msg() != "Invalid OTP! You have 1 attempts left before your account gets locked." {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
}

func TestUsecase_AcceptThenExpired(t *testing.T) {
	f := newFixture(t, "4821")
	if err := f.request(t, " A@X.com "); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}

	if err := f.verify(t, "a@x.com", "4821"); err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	gerr := requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeGone)
	if gerr.Msg() != "OTP expired! Please request a new one." {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
}

func TestUsecase_CodeExpiresAfterFiveMinutes(t *testing.T) {
	f := newFixture(t, "4821")
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}

	f.clock.Advance(5 * time.Minute)

	requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeGone)
}

func TestUsecase_Cooldown(t *testing.T) {
	f := newFixture(t, "4821", "5310")
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	if got := f.ttl(t, "otp_cooldown:a@x.com"); got != time.Minute {
		t.Fatalf("cooldown ttl = %v, want 60s", got)
	}

	gerr := requireCode(t, f.request(t, "a@x.com"), goerror.CodeTooManyRequest)
	if gerr.Msg() != "Please wait a minute before requesting a new OTP again!" {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
	if gerr.Fields()["retry_after_seconds"] != "60" {
		t.Errorf("retry_after_seconds = %q", gerr.Fields()["retry_after_seconds"])
	}
	if v, _ := f.value(t, "otp_requests_count:a@x.com"); v != "1" {
		t.Errorf("counter = %q, gated request must not be counted", v)
	}

	f.clock.Advance(time.Minute)
	if err := f.request(t, "a@x.com"); err != nil {
		t.Errorf("RequestOTP() after cooldown error = %v", err)
	}
}

func TestUsecase_SpamLockOnThirdRequest(t *testing.T) {
	f := newFixture(t, "1111", "2222", "3333")

	for i := 1; i <= 2; i++ {
		if err := f.request(t, "a@x.com"); err != nil {
			t.Fatalf("request %d error = %v", i, err)
		}
		f.clock.Advance(time.Minute)
	}

	gerr := requireCode(t, f.request(t, "a@x.com"), goerror.CodeTooManyRequest)
	if gerr.Msg() != "Too many OTP requests! Please wait 1 hour and try again." {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
	if f.notifier.count() != 2 {
		t.Errorf("deliveries = %d, want 2", f.notifier.count())
	}

	f.clock.Advance(59 * time.Minute)
	requireCode(t, f.request(t, "a@x.com"), goerror.CodeTooManyRequest)

	f.clock.Advance(time.Minute)
	if err := f.request(t, "a@x.com"); err != nil {
		t.Errorf("RequestOTP() after spam lock error = %v", err)
	}
}

func TestUsecase_CheckGatesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, kind := range entity.GateOrder {
		if err := f.uc.locks.SetLock(ctx, "a@x.com", kind, 0); err != nil {
			t.Fatalf("SetLock(%s) error = %v", kind, err)
		}
	}

	for _, want := range entity.GateOrder {
		err := f.uc.checkGates(ctx, "a@x.com", entity.GateOrder...)

		var te *entity.ThrottledError
		if !errors.As(err, &te) || te.Reason != want {
			t.Fatalf("checkGates() = %v, want %s", err, want)
		}
		if err := f.store.Del(ctx, want.Key("a@x.com")); err != nil {
			t.Fatalf("Del() error = %v", err)
		}
	}

	if err := f.uc.checkGates(ctx, "a@x.com", entity.GateOrder...); err != nil {
		t.Errorf("checkGates() with no locks = %v", err)
	}
}

func TestUsecase_DeliveryFailureThenRedeliver(t *testing.T) {
	// Arrange
	f := newFixture(t, "4821")
	f.notifier.setErr(errors.New("smtp down"))

	// Act
	err := f.request(t, "a@x.com")

	// Assert
	gerr := requireCode(t, err, goerror.CodeUnavailable)
	if gerr.Fields()["retry_delivery"] != "true" {
		t.Errorf("Fields() = %v", gerr.Fields())
	}
	if v, _ := f.value(t, "otp:a@x.com"); v != "4821" {
		t.Fatalf("code = %q, want it kept after delivery failure", v)
	}

	f.notifier.setErr(nil)
	in := RedeliverOTPInput{Email: "a@x.com", Name: "Alice"}
	if err := f.uc.RedeliverOTP(context.Background(), in); err != nil {
		t.Fatalf("RedeliverOTP() error = %v", err)
	}
	if got := f.notifier.last().Variables[entity.VarCode]; got != "4821" {
		t.Errorf("redelivered code = %q", got)
	}
	requireCode(t, f.uc.RedeliverOTP(context.Background(), in), goerror.CodeTooManyRequest)

	if err := f.verify(t, "a@x.com", "4821"); err != nil {
		t.Errorf("VerifyOTP() error = %v", err)
	}
}

func TestUsecase_RedeliverWithoutCode(t *testing.T) {
	f := newFixture(t)

	err := f.uc.RedeliverOTP(context.Background(), RedeliverOTPInput{Email: "a@x.com", Name: "Alice"})

	requireCode(t, err, goerror.CodeGone)
	if _, ok := f.value(t, "otp_requests_count:a@x.com"); ok {
		t.Errorf("redeliver without a code must not be counted")
	}
}

func TestUsecase_Validation(t *testing.T) {
	f := newFixture(t, "4821")
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{"bad email", f.request(t, "not-an-email")},
		{"seller without phone", func() error {
			_, err := f.uc.RequestOTP(ctx, RequestOTPInput{Email: "s@x.com", Name: "Shop", AccountType: "seller", Country: "ID"})
			return err
		}()},
		{"unknown account type", func() error {
			_, err := f.uc.RequestOTP(ctx, RequestOTPInput{Email: "s@x.com", Name: "Shop", AccountType: "admin"})
			return err
		}()},
		{"malformed code", f.verify(t, "a@x.com", "48a1")},
		{"status bad email", func() error {
			_, err := f.uc.Status(ctx, StatusInput{Email: "x"})
			return err
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, tt.err, goerror.CodeInvalidInput)
		})
	}

	if _, ok := f.value(t, "otp_failed_attempts:a@x.com"); ok {
		t.Errorf("malformed code must not count as an attempt")
	}
	if f.notifier.count() != 0 {
		t.Errorf("invalid requests must not deliver")
	}
}

func TestUsecase_SellerRequest(t *testing.T) {
	f := newFixture(t, "4821")

	_, err := f.uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:       "s@x.com",
		Name:        "Shop Owner",
		AccountType: "Seller",
		PhoneNumber: "+62811000111",
		Country:     "Indonesia",
	})

	if err != nil {
		t.Errorf("RequestOTP() error = %v", err)
	}
}

func TestUsecase_StoreFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, "4821")
	_ = f.store.Close()

	// Act
	gerr := requireCode(t, f.request(t, "a@x.com"), goerror.CodeUnavailable)

	// Assert
	if gerr.Type() != goerror.TypeBusiness {
		t.Errorf("Type() = %s, want business", gerr.Type())
	}
	if gerr.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("StatusCode() = %d, want 503", gerr.StatusCode())
	}
	if gerr.Fields()["retryable"] != "true" {
		t.Errorf("Fields() = %v, want retryable=true", gerr.Fields())
	}
	if !errors.Is(gerr, entity.ErrStoreUnavailable) {
		t.Errorf("error should keep ErrStoreUnavailable as cause")
	}
}

func TestUsecase_Status(t *testing.T) {
	f := newFixture(t, "4821")
	ctx := context.Background()

	st, err := f.uc.Status(ctx, StatusInput{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.State != entity.StateNoCode || st.AttemptsRemaining != 2 || st.RequestsRemaining != 2 {
		t.Errorf("Status() initial = %+v", st)
	}

	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	requireCode(t, f.verify(t, "a@x.com", "0000"), goerror.CodeUnauthorized)
	f.clock.Advance(30 * time.Second)

	st, err = f.uc.Status(ctx, StatusInput{Email: "A@x.com"})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	want := entity.Status{
		State:             entity.StatePending,
		CodeExpiresIn:     4*time.Minute + 30*time.Second,
		CooldownFor:       30 * time.Second,
		AttemptsRemaining: 1,
		RequestsRemaining: 1,
	}
	if *st != want {
		t.Errorf("Status() = %+v, want %+v", *st, want)
	}
}

func TestUsecase_PolicyOverride(t *testing.T) {
	f := newFixture(t)
	uc := New(Dependency{
		RepoCache:  f.repo,
		Notifier:   f.notifier,
		Generator:  newSeqGen("4821"),
		Validator:  f.uc.validator,
		Instrument: f.uc.ins,
		Policy:     entity.Policy{CooldownTTL: 2 * time.Minute, MaxFailedAttempts: 5},
	})

	if _, err := uc.RequestOTP(context.Background(), RequestOTPInput{Email: "a@x.com", Name: "Alice"}); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{Email: "a@x.com", Name: "Alice"})
	gerr := requireCode(t, err, goerror.CodeTooManyRequest)
	if gerr.Msg() != "Please wait 2 minutes before requesting a new OTP again!" {
		t.Errorf("Msg() = %q", gerr.Msg())
	}

	_, err = uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@x.com", Code: "0000"})
	gerr = requireCode(t, err, goerror.CodeUnauthorized)
	if gerr.Fields()["attempts_remaining"] != "3" {
		t.Errorf("attempts_remaining = %q, want 3", gerr.Fields()["attempts_remaining"])
	}
}

func TestUsecase_LockoutScenarioOnRedis(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	store := kvstore.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	f := newFixtureWithStore(t, store, clock.NewManual(testStart), "4821")

	// Act
	if err := f.request(t, "a@x.com"); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	for range 2 {
		requireCode(t, f.verify(t, "a@x.com", "0000"), goerror.CodeUnauthorized)
	}
	requireCode(t, f.verify(t, "a@x.com", "0000"), goerror.CodeLocked)

	// Assert
	if got := mr.TTL("otp_lock:a@x.com"); got != 30*time.Minute {
		t.Errorf("lock ttl = %v, want 30m", got)
	}
	if mr.Exists("otp:a@x.com") || mr.Exists("otp_failed_attempts:a@x.com") {
		t.Errorf("code and failed counter should be deleted on lock")
	}

	mr.FastForward(61 * time.Second)
	requireCode(t, f.request(t, "a@x.com"), goerror.CodeLocked)
	requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeLocked)

	mr.FastForward(30 * time.Minute)
	requireCode(t, f.verify(t, "a@x.com", "4821"), goerror.CodeGone)
}

func TestWaitPhrase(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{60 * time.Second, "a minute"},
		{30 * time.Second, "a minute"},
		{2 * time.Minute, "2 minutes"},
		{30 * time.Minute, "30 minutes"},
		{90 * time.Second, "2 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}

	for _, tt := range tests {
		if got := waitPhrase(tt.in); got != tt.want {
			t.Errorf("waitPhrase(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
