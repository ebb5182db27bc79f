// Package buildcache records companion-artifact builds in SQLite so the
// orchestrator can skip a rebuild when nothing under the companion source
// tree changed.
//
// Only build metadata is stored: which crate, profile, link kind and target
// were built, from which source fingerprint, to which path. Rational values
// never touch the cache.
//
// # Ordering
//
// Records are ordered by a per-database logical sequence (seq), assigned on
// insert as MAX(seq)+1. Wall-clock time is never used for ordering.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while a build is recorded
//   - synchronous=NORMAL
//   - busy_timeout=5000: a watch loop and a manual build may share a cache
//   - foreign_keys=ON
package buildcache
