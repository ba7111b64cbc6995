package otp

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
)

func TestNumeric_GenerateStaysInRange(t *testing.T) {
	gen := NewDefault()

	for range 5000 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("Generate() = %q, want 4 digits", code)
		}
		v, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Generate() = %q is not numeric", code)
		}
		if v < DefaultMin || v >= DefaultMax {
			t.Fatalf("Generate() = %d, want in [%d, %d)", v, DefaultMin, DefaultMax)
		}
	}
}

func TestNumeric_UpperBoundExcluded(t *testing.T) {
	// An all-ones entropy source yields the largest value rand.Int allows.
	gen, err := NewNumeric(9997, 9999)
	if err != nil {
		t.Fatalf("NewNumeric() error = %v", err)
	}
	gen.reader = bytes.NewReader(bytes.Repeat([]byte{0xff}, 64))

	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if code != "9998" {
		t.Errorf("Generate() = %q, want %q", code, "9998")
	}
}

func TestNewNumeric_InvalidRange(t *testing.T) {
	for _, r := range [][2]int64{{10, 10}, {10, 5}, {-1, 5}} {
		if _, err := NewNumeric(r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("NewNumeric(%d, %d) error = %v, want ErrInvalidRange", r[0], r[1], err)
		}
	}
}

func TestNumeric_ReaderFailure(t *testing.T) {
	gen := NewDefault()
	gen.reader = bytes.NewReader(nil)

	if _, err := gen.Generate(); err == nil {
		t.Error("Generate() should fail when the entropy source is empty")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("4821", "4821") {
		t.Error("Equal should match identical codes")
	}
	if Equal("4822", "4821") {
		t.Error("Equal should reject different codes")
	}
	if Equal("482", "4821") {
		t.Error("Equal should reject different lengths")
	}
	if Equal("9999", "4821") {
		t.Error("Equal should reject 9999 against a stored code")
	}
}
