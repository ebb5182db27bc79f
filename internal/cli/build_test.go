package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBuildCommand(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--format", "json")
	require.NoError(t, err)

	var res BuildResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, res.Cached)
	assert.Equal(t, "dynamic", res.Kind)
	assert.Equal(t, "0.1.0", res.Version)
	assert.NotEmpty(t, res.BuildID)
	assert.NotEmpty(t, res.Fingerprint)
	assert.FileExists(t, res.Path)
	assert.Equal(t, filepath.Join(root, "target", "host", "debug"), filepath.Dir(res.Path))
	assert.Equal(t, 1, runner.builds())
}

func TestBuildCommandReusesUnchangedBuild(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--format", "json")
	require.NoError(t, err)
	var first BuildResult
	decodeResponse(t, out, &first)

	out, _, err = execute(t, nil, runner, "build", "--dir", root, "--format", "json")
	require.NoError(t, err)
	var second BuildResult
	decodeResponse(t, out, &second)

	assert.True(t, second.Cached)
	assert.Equal(t, first.BuildID, second.BuildID)
	assert.Equal(t, 1, runner.builds())
	assert.FileExists(t, filepath.Join(root, "target", "builds.db"))

	require.NoError(t, os.WriteFile(filepath.Join(root, "internal", "arith", "arith.go"), []byte("package arith\n\n// changed\n"), 0o644))
	out, _, err = execute(t, nil, runner, "build", "--dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "built ")
	assert.Equal(t, 2, runner.builds())
}

func TestBuildCommandNoCache(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	for range 2 {
		_, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, runner.builds())
	assert.NoFileExists(t, filepath.Join(root, "target", "builds.db"))
}

func TestBuildCommandFlagsOverrideConfig(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "rational.build.yaml"),
		[]byte("profile: debug\nversion: 0.2.0\n"), 0o644))
	runner := &fakeRunner{root: root}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache",
		"--profile", "release", "--static", "--target", "linux/arm64", "--set-version", "1.2.3",
		"--format", "json")
	require.NoError(t, err)

	var res BuildResult
	decodeResponse(t, out, &res)
	assert.Equal(t, "static", res.Kind)
	assert.Equal(t, "1.2.3", res.Version)
	assert.Equal(t, filepath.Join(root, "target", "linux-arm64", "release", "librational_impl.a"), res.Path)

	build := runner.calls[len(runner.calls)-1]
	assert.Contains(t, build, "-trimpath")
	assert.Contains(t, build, "-buildmode=c-archive")
}

func TestBuildCommandDirectivesAndPkgConfig(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache",
		"--directives", "--pkg-config", "--format", "json")
	require.NoError(t, err)

	var res BuildResult
	decodeResponse(t, out, &res)
	require.NotEmpty(t, res.Directives)
	assert.Contains(t, res.Directives[0], "-lrational_impl")
	require.NotEmpty(t, res.PkgConfig)

	pc, err := os.ReadFile(res.PkgConfig)
	require.NoError(t, err)
	assert.Contains(t, string(pc), "Version: 0.1.0")
}

func TestBuildCommandToolchainFailure(t *testing.T) {
	root := newWorkspace(t)
	stderr := "# github.com/roach88/rational/cmd/rational_impl\n./main.go:1:1: expected 'package'\n"
	runner := &fakeRunner{root: root, fail: true, stderr: stderr}

	out, errOut, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, out)
	assert.Equal(t, stderr, errOut)
}

func TestBuildCommandToolchainFailureJSON(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root, fail: true, stderr: "boom\n"}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache", "--format", "json")
	require.Error(t, err)

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBuild, resp.Error.Code)
	assert.Equal(t, "boom\n", resp.Error.Details)
}

func TestBuildCommandUnknownProfile(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	out, _, err := execute(t, nil, runner, "build", "--dir", root, "--profile", "bogus", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.Equal(t, 0, runner.builds())
}

func TestBuildCommandMissingExplicitConfig(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	_, _, err := execute(t, nil, runner, "build", "--dir", root, "-c", filepath.Join(root, "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBuildCommandUsesConfiguredToolchain(t *testing.T) {
	t.Setenv("RATIONAL_GO", "")
	os.Unsetenv("RATIONAL_GO")

	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "rational.build.yaml"),
		[]byte("go: /opt/go1.25/bin/go\n"), 0o644))
	runner := &fakeRunner{root: root}

	_, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache")
	require.NoError(t, err)

	// The default toolchain finds the config; the configured one confirms
	// the workspace and runs the build.
	assert.Equal(t, []string{"go", "/opt/go1.25/bin/go", "/opt/go1.25/bin/go"}, runner.binaries())
}

func TestBuildCommandExplicitConfigToolchain(t *testing.T) {
	t.Setenv("RATIONAL_GO", "")
	os.Unsetenv("RATIONAL_GO")

	root := newWorkspace(t)
	cfg := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("go: gotip\n"), 0o644))
	runner := &fakeRunner{root: root}

	_, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"gotip", "gotip"}, runner.binaries())
}

func TestBuildCommandEnvToolchainOverridesConfig(t *testing.T) {
	t.Setenv("RATIONAL_GO", "go1.24")

	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "rational.build.yaml"),
		[]byte("go: /opt/go1.25/bin/go\n"), 0o644))
	runner := &fakeRunner{root: root}

	_, _, err := execute(t, nil, runner, "build", "--dir", root, "--no-cache")
	require.NoError(t, err)
	assert.Equal(t, []string{"go1.24", "go1.24"}, runner.binaries())
}

func TestWatchCommandStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := newWorkspace(t)
	runner := &fakeRunner{root: root}

	cmd := newRootCommand(nil, runner)
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"watch", "--dir", root, "--no-cache"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool { return runner.builds() >= 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, stdout.String(), "built ")
}
