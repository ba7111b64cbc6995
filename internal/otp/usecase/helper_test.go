package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/entity"
	"github.com/shandysiswandi/otpguard/internal/otp/outbound/cache"
	"github.com/shandysiswandi/otpguard/internal/pkg/clock"
	"github.com/shandysiswandi/otpguard/internal/pkg/goerror"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpguard/internal/pkg/validator"
)

var testStart = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// seqGen hands out codes in order and repeats the last one.
type seqGen struct {
	mu    sync.Mutex
	codes []string
	i     int
}

func newSeqGen(codes ...string) *seqGen { return &seqGen{codes: codes} }

func (g *seqGen) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.codes) == 0 {
		return "", errors.New("no codes")
	}
	c := g.codes[min(g.i, len(g.codes)-1)]
	g.i++
	return c, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []entity.Delivery
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, d entity.Delivery) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, d)
	return nil
}

func (n *fakeNotifier) setErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *fakeNotifier) last() entity.Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return entity.Delivery{}
	}
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	uc       *Usecase
	clock    *clock.Manual
	store    kvstore.Store
	repo     *cache.Cache
	notifier *fakeNotifier
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()

	clk := clock.NewManual(testStart)
	store := kvstore.NewMemory(clk)
	t.Cleanup(func() { _ = store.Close() })

	return newFixtureWithStore(t, store, clk, codes...)
}

func newFixtureWithStore(t *testing.T, store kvstore.Store, clk *clock.Manual, codes ...string) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	repo := cache.New(store, instrument.NewNoop())
	n := &fakeNotifier{}

	uc := New(Dependency{
		RepoCache:  repo,
		Notifier:   n,
		Generator:  newSeqGen(codes...),
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})

	return &fixture{uc: uc, clock: clk, store: store, repo: repo, notifier: n}
}

func (f *fixture) request(t *testing.T, email string) error {
	t.Helper()
	_, err := f.uc.RequestOTP(context.Background(), RequestOTPInput{Email: email, Name: "Alice"})
	return err
}

func (f *fixture) verify(t *testing.T, email, code string) error {
	t.Helper()
	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: email, Code: code})
	return err
}

func (f *fixture) value(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, err := f.store.Get(context.Background(), key)
	if errors.Is(err, kvstore.ErrNil) {
		return "", false
	}
	if err != nil {
		t.Fatalf("store.Get(%q) error = %v", key, err)
	}
	return v, true
}

func (f *fixture) ttl(t *testing.T, key string) time.Duration {
	t.Helper()
	d, err := f.store.TTL(context.Background(), key)
	if err != nil {
		t.Fatalf("store.TTL(%q) error = %v", key, err)
	}
	return d
}

func requireCode(t *testing.T, err error, want goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v (%T), want *goerror.Error", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("Code() = %s, want %s (msg %q)", gerr.Code(), want, gerr.Msg())
	}
	return gerr
}
