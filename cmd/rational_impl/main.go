//go:build cgo

// Command rational_impl is the companion artifact. It is not run as a
// program; build it as a C library:
//
//	go build -buildmode=c-shared -o librational_impl.so ./cmd/rational_impl
//	go build -buildmode=c-archive -o librational_impl.a ./cmd/rational_impl
//
// or let `rational build` do it. The toolchain writes librational_impl.h
// next to the library with the declarations below.
//
// All cgo lives in this package. Each export converts its C arguments and
// calls package boundary, which owns the semantics.
package main

/*
#include <stddef.h>
#include <stdint.h>

typedef struct rational_impl_rational {
	uint64_t numerator;
	uint64_t denominator;
} rational_impl_rational;

_Static_assert(sizeof(rational_impl_rational) == 16, "rational_impl_rational must be 16 bytes");
_Static_assert(offsetof(rational_impl_rational, numerator) == 0, "numerator must come first");
_Static_assert(offsetof(rational_impl_rational, denominator) == 8, "denominator must follow numerator");
*/
import "C"

import (
	"unsafe"

	"github.com/roach88/rational/internal/boundary"
	"github.com/roach88/rational/internal/ratio"
)

// Fails to compile if the Go and C views of the struct differ in size.
var _ [ratio.Size]byte = [unsafe.Sizeof(C.rational_impl_rational{})]byte{}

func main() {}

//export rational_impl_get_version
func rational_impl_get_version(major, minor, patch *C.int32_t) {
	boundary.GetVersion(
		(*int32)(unsafe.Pointer(major)),
		(*int32)(unsafe.Pointer(minor)),
		(*int32)(unsafe.Pointer(patch)),
	)
}

//export rational_impl_is_dynamically_linked
func rational_impl_is_dynamically_linked() C.int32_t {
	return C.int32_t(boundary.IsDynamicallyLinked())
}

//export rational_impl_add_rationals
func rational_impl_add_rationals(a, b *C.rational_impl_rational) C.rational_impl_rational {
	return toC(boundary.AddRationals(toGo(a), toGo(b)))
}

//export rational_impl_normalize_rational
func rational_impl_normalize_rational(r *C.rational_impl_rational) {
	boundary.NormalizeRational(toGo(r))
}

//export rational_impl_add_rationals_checked
func rational_impl_add_rationals_checked(a, b, out *C.rational_impl_rational) C.int32_t {
	return C.int32_t(boundary.AddRationalsChecked(toGo(a), toGo(b), toGo(out)))
}

//export rational_impl_normalize_rational_checked
func rational_impl_normalize_rational_checked(r *C.rational_impl_rational) C.int32_t {
	return C.int32_t(boundary.NormalizeRationalChecked(toGo(r)))
}

//export rational_impl_layout
func rational_impl_layout(size, numeratorOffset, denominatorOffset *C.uint64_t) {
	boundary.LayoutOf(
		(*uint64)(unsafe.Pointer(size)),
		(*uint64)(unsafe.Pointer(numeratorOffset)),
		(*uint64)(unsafe.Pointer(denominatorOffset)),
	)
}

// toGo reinterprets a C struct pointer as a Go one. The layouts are
// asserted equal on both sides; NULL stays nil.
func toGo(p *C.rational_impl_rational) *ratio.Rational {
	return (*ratio.Rational)(unsafe.Pointer(p))
}

func toC(r ratio.Rational) C.rational_impl_rational {
	return C.rational_impl_rational{
		numerator:   C.uint64_t(r.Numerator),
		denominator: C.uint64_t(r.Denominator),
	}
}
