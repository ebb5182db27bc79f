package testutil

import (
	"fmt"
	"sync/atomic"
)

// SequentialIDGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// It stands in for artifact.UUIDv7Generator so build records and golden
// output do not depend on wall-clock time.
//
// Thread-safety: safe for concurrent use.
type SequentialIDGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes
// "test-build".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "test-build"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.n.Add(1))
}
