// Package dylib loads an independently built rational_impl shared library
// and calls it through libffi.
//
// The artifact may come from any toolchain that honours the contract: C,
// Rust, Zig. A Go c-shared build of cmd/rational_impl cannot be loaded here,
// because the Go runtime does not support two runtimes in one process; test
// Go-built artifacts from C instead (see internal/artifact).
//
// libffi itself (libffi.so.8 or .7 on Linux, the system copy on macOS) must
// be installed at run time.
package dylib
