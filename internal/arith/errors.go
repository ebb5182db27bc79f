package arith

import (
	"errors"
	"fmt"

	"github.com/roach88/rational/internal/ratio"
)

// ErrArithmeticFault matches every *Fault via errors.Is.
var ErrArithmeticFault = errors.New("arithmetic fault")

// FaultCode categorizes definedness faults.
type FaultCode string

const (
	// FaultZeroDenominator indicates an operand with denominator zero.
	FaultZeroDenominator FaultCode = "ZERO_DENOMINATOR"

	// FaultZeroGCD indicates normalization of {0, 0}, whose GCD is zero.
	FaultZeroGCD FaultCode = "ZERO_GCD"
)

// Fault reports an operation invoked on inputs with no defined result.
type Fault struct {
	// Code identifies the fault category.
	Code FaultCode

	// Op names the operation that faulted ("add", "normalize").
	Op string

	// Operands are the inputs as the operation received them.
	Operands []ratio.Rational
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s %v", f.Code, f.Op, f.Operands)
}

// Is makes every Fault match ErrArithmeticFault.
func (f *Fault) Is(target error) bool {
	return target == ErrArithmeticFault
}

// IsFault reports whether err is or wraps a *Fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// IsZeroDenominator reports whether err is a zero-denominator fault.
func IsZeroDenominator(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == FaultZeroDenominator
	}
	return false
}

// IsZeroGCD reports whether err is a zero-GCD fault.
func IsZeroGCD(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == FaultZeroGCD
	}
	return false
}

func newZeroDenominatorFault(x, y ratio.Rational) *Fault {
	return &Fault{Code: FaultZeroDenominator, Op: "add", Operands: []ratio.Rational{x, y}}
}

func newZeroGCDFault(r ratio.Rational) *Fault {
	return &Fault{Code: FaultZeroGCD, Op: "normalize", Operands: []ratio.Rational{r}}
}
