// Package boundary implements the semantics of the compiled artifact's
// C-callable surface in Go.
//
// The cgo shim in cmd/rational_impl exports these functions under their
// rational_impl_* names; Local exposes the same functions in-process so a
// Go consumer and an artifact built from this package behave identically.
//
// NULL POLICY:
//
// A nil input pointer means "use ratio.Default()". A nil output or in/out
// pointer makes the call a no-op. Neither is ever a fault.
//
// FAULT POLICY:
//
// Definedness faults from package arith are collapsed to ratio.Default()
// for both AddRationals and NormalizeRational. The *Checked variants run the
// same arithmetic but report the fault as a Status instead.
//
// LINK MODE:
//
// Whether the artifact was built for dynamic linkage is fixed when the
// artifact is linked, through
//
//	-ldflags "-X github.com/roach88/rational/internal/boundary.linkMode=dynamic"
//
// The build orchestrator (package artifact) sets it from its configuration.
package boundary
