package ratio

import "unsafe"

// Layout constants for the boundary struct. Both sides of the boundary must
// agree on these; the cgo shim asserts the same values on the C side.
const (
	Size              = 16
	Align             = 8
	NumeratorOffset   = 0
	DenominatorOffset = 8
)

// Layout describes the struct layout a binary was compiled with.
type Layout struct {
	Size              uintptr `json:"size"`
	NumeratorOffset   uintptr `json:"numerator_offset"`
	DenominatorOffset uintptr `json:"denominator_offset"`
}

// HostLayout returns the layout of Rational as compiled into this binary.
func HostLayout() Layout {
	var r Rational
	return Layout{
		Size:              unsafe.Sizeof(r),
		NumeratorOffset:   unsafe.Offsetof(r.Numerator),
		DenominatorOffset: unsafe.Offsetof(r.Denominator),
	}
}

// ExpectedLayout returns the layout fixed by the boundary contract.
func ExpectedLayout() Layout {
	return Layout{
		Size:              Size,
		NumeratorOffset:   NumeratorOffset,
		DenominatorOffset: DenominatorOffset,
	}
}

// Matches reports whether l agrees with the boundary contract.
func (l Layout) Matches() bool {
	return l == ExpectedLayout()
}
