package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rational/internal/artifact"
	"github.com/roach88/rational/internal/boundary"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, open Opener, runner artifact.Runner, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(open, runner)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// decodeResponse parses a JSON CLIResponse and decodes its data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return resp.CLIResponse
}

// fakeLibrary is an opened foreign artifact backed by the in-process
// surface, reporting dynamic linkage and version 9.8.7.
type fakeLibrary struct {
	boundary.Local
	closed bool
}

func (*fakeLibrary) IsDynamicallyLinked() int32 { return 1 }

func (*fakeLibrary) GetVersion(major, minor, patch *int32) {
	*major, *minor, *patch = 9, 8, 7
}

func (l *fakeLibrary) Close() error {
	l.closed = true
	return nil
}

// fakeRunner answers `go env GOMOD` with root/go.mod and fakes `go build`
// by writing the -o file.
type fakeRunner struct {
	root   string
	stderr string
	fail   bool

	mu    sync.Mutex
	calls [][]string
	names []string
}

func (r *fakeRunner) Run(_ context.Context, cmd artifact.Command) ([]byte, []byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd.Args)
	r.names = append(r.names, cmd.Name)
	r.mu.Unlock()

	if len(cmd.Args) > 0 && cmd.Args[0] == "env" {
		return []byte(filepath.Join(r.root, "go.mod") + "\n"), nil, nil
	}
	if r.fail {
		return nil, []byte(r.stderr), &os.PathError{Op: "exec", Path: "go", Err: os.ErrInvalid}
	}
	if i := slices.Index(cmd.Args, "-o"); i >= 0 {
		if err := os.WriteFile(cmd.Args[i+1], []byte("lib"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

// binaries returns the executable named by each call, in order.
func (r *fakeRunner) binaries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.names)
}

func (r *fakeRunner) builds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if len(c) > 0 && c[0] == "build" {
			n++
		}
	}
	return n
}

// newWorkspace lays out the sources DefaultConfig expects.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{
		"go.mod":                        "module example.com/w\n\ngo 1.25\n",
		"go.sum":                        "",
		"cmd/rational_impl/main.go":     "package main\n",
		"internal/boundary/boundary.go": "package boundary\n",
		"internal/arith/arith.go":       "package arith\n",
		"internal/ratio/rational.go":    "package ratio\n",
	} {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// syncBuffer is a bytes.Buffer safe for a command writing from another
// goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
