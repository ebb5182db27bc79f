// Package ratio defines the Rational value type shared by every layer.
//
// This package contains the value type and its encodings only. All other
// internal packages import ratio; ratio imports nothing internal.
//
// Key design constraints:
//   - Field order and widths are part of the boundary contract: numerator
//     then denominator, both uint64, no padding
//   - No validation on construction; {N, 0} and {0, 0} are representable
//   - The canonical default is {0, 1}, not the Go zero value
//   - String() is a diagnostic rendering, never a storage format
package ratio
