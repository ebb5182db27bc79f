package artifact

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files under root. Keys are slash-separated.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// newWorkspace lays out a minimal companion tree matching DefaultConfig's
// sources.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":                             "module example.com/w\n\ngo 1.25\n",
		"go.sum":                             "",
		"cmd/rational_impl/main.go":          "package main\n\nfunc main() {}\n",
		"cmd/rational_impl/testdata/x.c":     "int x;\n",
		"internal/boundary/boundary.go":      "package boundary\n",
		"internal/boundary/boundary_test.go": "package boundary\n",
		"internal/arith/arith.go":            "package arith\n",
		"internal/ratio/rational.go":         "package ratio\n",
		"internal/ratio/doc.go":              "// Package ratio.\npackage ratio\n",
	})
	return root
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Target = "linux/amd64"
	cfg.Cache = ""
	return cfg
}

// fakeRunner records commands. On success it creates the -o file so cache
// checks see an artifact.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []Command
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.err != nil {
		return nil, []byte(f.stderr), f.err
	}
	if i := slices.Index(cmd.Args, "-o"); i >= 0 && i+1 < len(cmd.Args) {
		if err := os.WriteFile(cmd.Args[i+1], []byte("lib"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return []byte(f.stdout), []byte(f.stderr), nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
