// Package arith implements the rational arithmetic engine.
//
// Every function is pure: it reads its operands, and either returns a new
// value or mutates the single Rational it was handed. Nothing is shared,
// nothing is allocated, nothing blocks, so all functions are safe for
// concurrent use.
//
// Overflow is not detected. Products wrap modulo 2^64 exactly as uint64
// arithmetic does.
//
// DEFINEDNESS FAULTS:
//
// Add with a zero denominator and NormalizeOne on {0, 0} have no
// mathematically correct result. Both return a *Fault. Callers that need
// the forgiving boundary behaviour collapse the fault to ratio.Default()
// themselves (see package boundary).
//
// PRESERVED QUIRK:
//
// LCM(x, 0) == 0 for every x. This matches the published contract of the
// compiled artifact and is kept for compatibility.
package arith
