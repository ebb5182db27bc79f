package ratio

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is a numerator divided by a denominator.
// Not necessarily reduced. The memory layout matches the C struct
//
//	struct { uint64_t numerator; uint64_t denominator; }
type Rational struct {
	Numerator   uint64
	Denominator uint64
}

// New creates a Rational without validating or reducing it.
func New(numerator, denominator uint64) Rational {
	return Rational{Numerator: numerator, Denominator: denominator}
}

// Default returns the canonical default {0, 1}.
// It is the result of undefined operations at the boundary.
func Default() Rational {
	return Rational{Numerator: 0, Denominator: 1}
}

// IsDefault reports whether r is exactly {0, 1}.
func (r Rational) IsDefault() bool {
	return r.Numerator == 0 && r.Denominator == 1
}

// String renders r as "N/D".
func (r Rational) String() string {
	return strconv.FormatUint(r.Numerator, 10) + "/" + strconv.FormatUint(r.Denominator, 10)
}

// Parse reads "N/D" or a bare "N" (meaning N/1).
// Whitespace around either component is ignored. A zero denominator is
// accepted; definedness is checked by the arithmetic, not the parser.
func Parse(s string) (Rational, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: numerator: %w", s, err)
	}
	if !found {
		return New(n, 1), nil
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: denominator: %w", s, err)
	}
	return New(n, d), nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or with literal inputs.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}
