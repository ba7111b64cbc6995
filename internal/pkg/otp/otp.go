package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"
	"strconv"
)

// ErrInvalidRange is returned by NewNumeric when min >= max or min < 0.
var ErrInvalidRange = errors.New("otp: invalid code range")

// Generator produces a fresh code on each call.
type Generator interface {
	Generate() (string, error)
}

// Numeric draws integers uniformly from the half-open range [min, max) and
// renders them in base 10. With the default range every code has four digits
// and 9999 is never produced.
type Numeric struct {
	min    int64
	span   *big.Int
	reader io.Reader
}

// DefaultMin and DefaultMax bound the default four digit codes.
const (
	DefaultMin = 1000
	DefaultMax = 9999
)

// NewNumeric returns a Numeric generator over [minCode, maxCode).
func NewNumeric(minCode, maxCode int64) (*Numeric, error) {
	if minCode < 0 || minCode >= maxCode {
		return nil, ErrInvalidRange
	}

	return &Numeric{
		min:    minCode,
		span:   big.NewInt(maxCode - minCode),
		reader: rand.Reader,
	}, nil
}

// NewDefault returns the four digit generator over [1000, 9999).
func NewDefault() *Numeric {
	n, _ := NewNumeric(DefaultMin, DefaultMax) //nolint:errcheck // constant range is valid
	return n
}

func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.reader, n.span)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.min+v.Int64(), 10), nil
}

// Equal reports whether submitted matches stored without leaking timing
// information about where they differ.
func Equal(submitted, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
