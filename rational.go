// Package rational provides exact rational arithmetic backed by the
// rational_impl artifact.
//
// The package-level functions call the artifact semantics linked into this
// binary. NewClient binds the same API to any other Surface, such as a
// separately built shared library loaded with internal/dylib:
//
//	a := rational.New(41, 64)
//	b := rational.New(11, 64)
//	sum := rational.Add(&a, &b) // 13/16
//
// Every call is a stateless pass-through. Nothing is allocated and nothing
// is retained between calls.
package rational

import (
	"github.com/roach88/rational/internal/boundary"
	"github.com/roach88/rational/internal/ratio"
)

// Rational is a numerator divided by a denominator, not necessarily reduced.
type Rational = ratio.Rational

// New creates a Rational without validation.
func New(numerator, denominator uint64) Rational {
	return ratio.New(numerator, denominator)
}

// Default returns the canonical default, 0/1.
func Default() Rational {
	return ratio.Default()
}

// Surface is the artifact's function set, as seen from Go.
// Nil pointers follow the artifact's null policy: nil inputs read as
// Default(), nil outputs are skipped.
type Surface interface {
	GetVersion(major, minor, patch *int32)
	IsDynamicallyLinked() int32
	AddRationals(a, b *Rational) Rational
	NormalizeRational(r *Rational)
}

// Client is the safe API over a Surface.
type Client struct {
	s Surface
}

// NewClient wraps s.
func NewClient(s Surface) *Client {
	return &Client{s: s}
}

// Version returns the (major, minor, patch) version of the linked artifact.
func (c *Client) Version() (int32, int32, int32) {
	var major, minor, patch int32
	c.s.GetVersion(&major, &minor, &patch)
	return major, minor, patch
}

// IsDynamicallyLinked reports whether the artifact was built for dynamic
// linkage.
func (c *Client) IsDynamicallyLinked() bool {
	return c.s.IsDynamicallyLinked() != 0
}

// Add returns x + y in lowest terms. An undefined sum (zero denominator)
// is returned as Default().
func (c *Client) Add(x, y *Rational) Rational {
	return c.s.AddRationals(x, y)
}

// Normalize reduces x to lowest terms in place.
func (c *Client) Normalize(x *Rational) {
	c.s.NormalizeRational(x)
}

var local = Client{s: boundary.Local{}}

// Version returns the version of the artifact linked into this binary.
func Version() (int32, int32, int32) {
	return local.Version()
}

// IsDynamicallyLinked reports how the artifact linked into this binary
// was built.
func IsDynamicallyLinked() bool {
	return local.IsDynamicallyLinked()
}

// Add returns x + y in lowest terms. An undefined sum is Default().
func Add(x, y *Rational) Rational {
	return local.Add(x, y)
}

// Normalize reduces x to lowest terms in place.
func Normalize(x *Rational) {
	local.Normalize(x)
}
