package boundary

import "github.com/roach88/rational/internal/ratio"

// Local is the in-process surface. It calls the same functions the cgo
// shim exports, without crossing an artifact boundary.
//
// Thread-safety: Local is stateless and safe for concurrent use.
type Local struct{}

// GetVersion implements the surface contract.
func (Local) GetVersion(major, minor, patch *int32) { GetVersion(major, minor, patch) }

// IsDynamicallyLinked implements the surface contract.
func (Local) IsDynamicallyLinked() int32 { return IsDynamicallyLinked() }

// AddRationals implements the surface contract.
func (Local) AddRationals(a, b *ratio.Rational) ratio.Rational { return AddRationals(a, b) }

// NormalizeRational implements the surface contract.
func (Local) NormalizeRational(r *ratio.Rational) { NormalizeRational(r) }
