package dylib

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/jupiterrider/ffi"

	"github.com/roach88/rational/internal/ratio"
)

// Exported symbol names of the contract.
const (
	SymGetVersion          = "rational_impl_get_version"
	SymIsDynamicallyLinked = "rational_impl_is_dynamically_linked"
	SymAddRationals        = "rational_impl_add_rationals"
	SymNormalizeRational   = "rational_impl_normalize_rational"
	SymLayout              = "rational_impl_layout"
)

// ErrLayoutMismatch is returned by Open when the library reports a Rational
// layout different from this binary's.
var ErrLayoutMismatch = errors.New("rational layout mismatch")

// TypeRational describes ratio.Rational to libffi: two uint64, numerator
// first.
var TypeRational = ffi.NewType(&ffi.TypeUint64, &ffi.TypeUint64)

// Library is a loaded artifact. It implements rational.Surface.
//
// Thread-safety: calls are stateless and safe for concurrent use. Close
// must not race with calls.
type Library struct {
	lib        ffi.Lib
	path       string
	getVersion ffi.Fun
	isDynamic  ffi.Fun
	add        ffi.Fun
	normalize  ffi.Fun
	layout     ffi.Fun
	hasLayout  bool
}

// Open loads the library at path and prepares every contract entry point.
// When the library exports rational_impl_layout, Open also checks that its
// struct layout matches and fails with ErrLayoutMismatch otherwise.
func Open(path string) (*Library, error) {
	lib, err := ffi.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l := &Library{lib: lib, path: path}
	if err := l.prepare(); err != nil {
		_ = lib.Close()
		return nil, fmt.Errorf("prepare %s: %w", path, err)
	}

	if l.hasLayout {
		if got := l.Layout(); !got.Matches() {
			_ = lib.Close()
			return nil, fmt.Errorf("%w: %s reports %+v, want %+v", ErrLayoutMismatch, path, got, ratio.ExpectedLayout())
		}
	}

	return l, nil
}

func (l *Library) prepare() error {
	var err error
	if l.getVersion, err = l.lib.Prep(SymGetVersion, &ffi.TypeVoid, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypePointer); err != nil {
		return err
	}
	if l.isDynamic, err = l.lib.Prep(SymIsDynamicallyLinked, &ffi.TypeSint32); err != nil {
		return err
	}
	if l.add, err = l.lib.Prep(SymAddRationals, &TypeRational, &ffi.TypePointer, &ffi.TypePointer); err != nil {
		return err
	}
	if l.normalize, err = l.lib.Prep(SymNormalizeRational, &ffi.TypeVoid, &ffi.TypePointer); err != nil {
		return err
	}

	// Optional: artifacts built from other toolchains may not export it.
	if _, err := l.lib.Get(SymLayout); err == nil {
		l.layout, err = l.lib.Prep(SymLayout, &ffi.TypeVoid, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypePointer)
		if err != nil {
			return err
		}
		l.hasLayout = true
	}
	return nil
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close releases the library.
func (l *Library) Close() error {
	return l.lib.Close()
}

// GetVersion calls rational_impl_get_version. Nil slots are passed as NULL.
func (l *Library) GetVersion(major, minor, patch *int32) {
	l.getVersion.Call(nil, unsafe.Pointer(&major), unsafe.Pointer(&minor), unsafe.Pointer(&patch))
}

// IsDynamicallyLinked calls rational_impl_is_dynamically_linked.
func (l *Library) IsDynamicallyLinked() int32 {
	var ret ffi.Arg
	l.isDynamic.Call(unsafe.Pointer(&ret))
	return int32(ret)
}

// AddRationals calls rational_impl_add_rationals. Nil operands are passed as
// NULL so the library's own null policy applies.
func (l *Library) AddRationals(a, b *ratio.Rational) ratio.Rational {
	var ret ratio.Rational
	l.add.Call(unsafe.Pointer(&ret), unsafe.Pointer(&a), unsafe.Pointer(&b))
	return ret
}

// NormalizeRational calls rational_impl_normalize_rational.
func (l *Library) NormalizeRational(r *ratio.Rational) {
	l.normalize.Call(nil, unsafe.Pointer(&r))
}

// Layout returns the struct layout the library reports, or the expected
// layout when it does not export rational_impl_layout.
func (l *Library) Layout() ratio.Layout {
	if !l.hasLayout {
		return ratio.ExpectedLayout()
	}
	var size, num, den uint64
	ps, pn, pd := &size, &num, &den
	l.layout.Call(nil, unsafe.Pointer(&ps), unsafe.Pointer(&pn), unsafe.Pointer(&pd))
	return ratio.Layout{
		Size:              uintptr(size),
		NumeratorOffset:   uintptr(num),
		DenominatorOffset: uintptr(den),
	}
}
