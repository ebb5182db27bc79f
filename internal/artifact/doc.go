// Package artifact builds the companion artifact (cmd/rational_impl) as a
// C-ABI static or shared library and tells consumers how to link it.
//
// The Orchestrator follows the build-orchestration contract of the
// rational project:
//
//   - the workspace root is located with `go env GOMOD`;
//   - build parameters come from Config: crate name, profile, link kind
//     and an optional GOOS/GOARCH target;
//   - the toolchain is invoked as
//     `go build -buildmode=c-shared|c-archive`, with the link mode and
//     version stamped into package boundary through -ldflags -X;
//   - a failed build surfaces the toolchain's stderr verbatim as a
//     *BuildError and is never retried;
//   - the resulting Artifact emits link directives (cgo LDFLAGS,
//     rerun-if-changed lines, a pkg-config file).
//
// Builds are keyed by a BLAKE3 fingerprint of the companion sources and
// recorded in a buildcache.Cache, so unchanged sources skip the toolchain.
// Watcher rebuilds on source changes.
package artifact
