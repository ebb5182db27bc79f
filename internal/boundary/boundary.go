package boundary

import (
	"github.com/roach88/rational/internal/arith"
	"github.com/roach88/rational/internal/ratio"
)

// GetVersion writes the artifact's semantic version into the given slots.
// Nil slots are skipped.
func GetVersion(major, minor, patch *int32) {
	maj, mnr, pat := versionParts(version)
	if major != nil {
		*major = maj
	}
	if minor != nil {
		*minor = mnr
	}
	if patch != nil {
		*patch = pat
	}
}

// IsDynamicallyLinked returns 1 when the artifact was built for dynamic
// linkage and 0 when built as a static archive.
func IsDynamicallyLinked() int32 {
	if linkMode == LinkDynamic {
		return 1
	}
	return 0
}

// AddRationals returns a + b in lowest terms.
// A nil operand is read as ratio.Default(). An undefined sum (zero
// denominator) is returned as ratio.Default().
func AddRationals(a, b *ratio.Rational) ratio.Rational {
	sum, err := arith.Add(deref(a), deref(b))
	if err != nil {
		return ratio.Default()
	}
	return sum
}

// NormalizeRational reduces *r to lowest terms in place.
// A nil r is a no-op. {0, 0} has no lowest terms and becomes ratio.Default().
func NormalizeRational(r *ratio.Rational) {
	if r == nil {
		return
	}
	if err := arith.NormalizeOne(r); err != nil {
		*r = ratio.Default()
	}
}

// deref reads p, substituting the canonical default for nil.
func deref(p *ratio.Rational) ratio.Rational {
	if p == nil {
		return ratio.Default()
	}
	return *p
}
