package arith

import "github.com/roach88/rational/internal/ratio"

// GCD returns the greatest common divisor of x and y.
// The larger operand is reduced modulo the smaller until one reaches zero.
// GCD(x, 0) == GCD(0, x) == x, and GCD(0, 0) == 0.
func GCD(x, y uint64) uint64 {
	if y > x {
		x, y = y, x
	}
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

// LCM returns the least common multiple of x and y.
// When either operand is zero the result is 0.
func LCM(x, y uint64) uint64 {
	if y > x {
		x, y = y, x
	}
	if y == 0 {
		return 0
	}
	return x * (y / GCD(x, y))
}

// NormalizeOne reduces r to lowest terms in place.
// On {0, 0} it returns a FaultZeroGCD fault and leaves r unchanged.
func NormalizeOne(r *ratio.Rational) error {
	g := GCD(r.Numerator, r.Denominator)
	if g == 0 {
		return newZeroGCDFault(*r)
	}
	r.Numerator /= g
	r.Denominator /= g
	return nil
}

// NormalizeTwo brings x and y onto a common denominator, the LCM of their
// denominators. Neither operand is reduced. Equal denominators are left alone.
func NormalizeTwo(x, y *ratio.Rational) {
	if x.Denominator == y.Denominator {
		return
	}

	lcm := LCM(x.Denominator, y.Denominator)
	scale(x, lcm)
	scale(y, lcm)
}

func scale(r *ratio.Rational, lcm uint64) {
	if r.Denominator == lcm {
		return
	}
	r.Numerator *= lcm / r.Denominator
	r.Denominator = lcm
}

// Add returns x + y in lowest terms.
//
// If either denominator is zero the sum is undefined: Add returns
// ratio.Default() together with a FaultZeroDenominator fault.
func Add(x, y ratio.Rational) (ratio.Rational, error) {
	if x.Denominator == 0 || y.Denominator == 0 {
		return ratio.Default(), newZeroDenominatorFault(x, y)
	}

	NormalizeTwo(&x, &y)
	sum := ratio.Rational{
		Numerator:   x.Numerator + y.Numerator,
		Denominator: x.Denominator,
	}
	// The shared denominator is nonzero here, so the GCD is too.
	if err := NormalizeOne(&sum); err != nil {
		return ratio.Default(), err
	}
	return sum, nil
}
