package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "rational", cmd.Use)
	assert.Contains(t, cmd.Long, "C-compatible surface")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)
	commands := []string{"demo", "add", "normalize", "gcd", "lcm", "version", "build", "watch", "conform"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(nil)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	libFlag := cmd.PersistentFlags().Lookup("lib")
	require.NotNil(t, libFlag)
	assert.Equal(t, "", libFlag.DefValue)
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand(nil)
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	for _, name := range []string{"config", "profile", "static", "target", "set-version", "out", "no-cache", "dir", "directives", "pkg-config"} {
		assert.NotNil(t, buildCmd.Flags().Lookup(name), "build --%s", name)
	}

	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)
	assert.NotNil(t, watchCmd.Flags().Lookup("profile"))
	assert.Nil(t, watchCmd.Flags().Lookup("directives"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, nil, nil, "version", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestLibFlag(t *testing.T) {
	lib := &fakeLibrary{}
	var openedPath string
	open := func(path string) (Library, error) {
		openedPath = path
		return lib, nil
	}

	out, _, err := execute(t, open, nil, "version", "--lib", "/opt/librational_impl.so")
	require.NoError(t, err)

	assert.Equal(t, "/opt/librational_impl.so", openedPath)
	assert.True(t, lib.closed, "library closed after the command")
	assert.Equal(t, "9.8.7 (dynamic, /opt/librational_impl.so)\n", out)
}

func TestLibFlagOpenFailure(t *testing.T) {
	open := func(string) (Library, error) { return nil, errors.New("no such file") }

	out, _, err := execute(t, open, nil, "add", "1/2", "1/2", "--lib", "/missing.so")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestLibFlagUnsupported(t *testing.T) {
	_, _, err := execute(t, nil, nil, "demo", "--lib", "/x.so")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not supported")
}

func TestUnknownCommandNotPrinted(t *testing.T) {
	cmd := NewRootCommand(nil)
	assert.True(t, cmd.SilenceErrors)

	out, errOut, err := execute(t, nil, nil, "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
	assert.Empty(t, out)
	assert.NotContains(t, errOut, "Error:")
}
