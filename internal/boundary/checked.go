package boundary

import (
	"github.com/roach88/rational/internal/arith"
	"github.com/roach88/rational/internal/ratio"
)

// Status is the result code of the checked entry points.
// Values are part of the C ABI and must not be renumbered.
type Status int32

const (
	StatusOK              Status = 0
	StatusZeroDenominator Status = 1
	StatusZeroGCD         Status = 2
	StatusNullOutput      Status = 3
	StatusFault           Status = 4
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusZeroDenominator:
		return string(arith.FaultZeroDenominator)
	case StatusZeroGCD:
		return string(arith.FaultZeroGCD)
	case StatusNullOutput:
		return "NULL_OUTPUT"
	case StatusFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// statusOf maps an arith error to its Status.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case arith.IsZeroDenominator(err):
		return StatusZeroDenominator
	case arith.IsZeroGCD(err):
		return StatusZeroGCD
	default:
		return StatusFault
	}
}

// AddRationalsChecked writes a + b into *out and reports any fault.
// Nil inputs read as ratio.Default(). On a fault *out receives
// ratio.Default(). A nil out returns StatusNullOutput without computing.
func AddRationalsChecked(a, b, out *ratio.Rational) Status {
	if out == nil {
		return StatusNullOutput
	}
	sum, err := arith.Add(deref(a), deref(b))
	*out = sum
	return statusOf(err)
}

// NormalizeRationalChecked reduces *r in place and reports any fault.
// Unlike NormalizeRational it leaves {0, 0} untouched and returns
// StatusZeroGCD.
func NormalizeRationalChecked(r *ratio.Rational) Status {
	if r == nil {
		return StatusNullOutput
	}
	return statusOf(arith.NormalizeOne(r))
}

// LayoutOf writes the Rational layout this artifact was compiled with.
// Nil slots are skipped.
func LayoutOf(size, numeratorOffset, denominatorOffset *uint64) {
	l := ratio.HostLayout()
	if size != nil {
		*size = uint64(l.Size)
	}
	if numeratorOffset != nil {
		*numeratorOffset = uint64(l.NumeratorOffset)
	}
	if denominatorOffset != nil {
		*denominatorOffset = uint64(l.DenominatorOffset)
	}
}
