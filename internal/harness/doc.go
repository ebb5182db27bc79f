// Package harness runs conformance scenarios against a rational surface.
//
// A surface is anything with the artifact's function set: the in-process
// boundary.Local, a foreign library opened with internal/dylib, or a test
// double. The same scenario file can therefore check the Go artifact and an
// independently built one for identical behavior.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: add_basic
//	description: "41/64 + 11/64 reduces to 13/16"
//	steps:
//	  - op: add
//	    args: ["41/64", "11/64"]
//	    expect: "13/16"
//	  - op: normalize
//	    args: ["22/128"]
//	    expect: "11/64"
//	assertions:
//	  - type: trace_contains
//	    op: add
//	    args: ["41/64", "11/64"]
//	  - type: link_mode
//	    expect: static
//
// Operations are add, normalize, version, is_dynamically_linked, gcd and
// lcm. A rational argument of "null" passes a nil pointer, which exercises
// the surface's null policy.
//
// # Assertion Types
//
//   - trace_contains: an op with matching args appears in the trace
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//   - link_mode: the surface reports the given link mode
//
// # Deterministic Testing
//
// Trace events are stamped by a logical clock (testutil.DeterministicClock)
// and serialized with ratio.MarshalCanonical, so the same scenario always
// yields byte-identical golden output.
package harness
