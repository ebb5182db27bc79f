package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"41/64", "11/64"}, "41/64 + 11/64 = 13/16\n"},
		{[]string{"1/3", "1/6"}, "1/3 + 1/6 = 1/2\n"},
		{[]string{"2", "1/2"}, "2/1 + 1/2 = 5/2\n"},
		{[]string{"1/0", "1/2"}, "1/0 + 1/2 = 0/1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0]+"+"+tt.args[1], func(t *testing.T) {
			out, _, err := execute(t, nil, nil, append([]string{"add"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestAddCommandJSON(t *testing.T) {
	out, _, err := execute(t, nil, nil, "add", "41/64", "11/64", "--format", "json")
	require.NoError(t, err)

	var res SumResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, SumResult{X: "41/64", Y: "11/64", Result: "13/16"}, res)
}

func TestAddCommandBadOperand(t *testing.T) {
	out, _, err := execute(t, nil, nil, "add", "1/x", "1/2", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeOperand, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, `"1/x"`)
}

func TestAddCommandArgCount(t *testing.T) {
	_, _, err := execute(t, nil, nil, "add", "1/2")
	assert.Error(t, err)
}

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"22/128", "22/128 = 11/64\n"},
		{"0/0", "0/0 = 0/1\n"},
		{"0/9", "0/9 = 0/1\n"},
		{"7/1", "7/1 = 7/1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			out, _, err := execute(t, nil, nil, "normalize", tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNormalizeCommandViaLib(t *testing.T) {
	lib := &fakeLibrary{}
	open := func(string) (Library, error) { return lib, nil }

	out, _, err := execute(t, open, nil, "normalize", "6/8", "--lib", "x.so")
	require.NoError(t, err)
	assert.Equal(t, "6/8 = 3/4\n", out)
	assert.True(t, lib.closed)
}

func TestGCDAndLCMCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"gcd", "12", "18"}, "gcd(12, 18) = 6\n"},
		{[]string{"gcd", "0", "0"}, "gcd(0, 0) = 0\n"},
		{[]string{"lcm", "4", "6"}, "lcm(4, 6) = 12\n"},
		{[]string{"lcm", "7", "0"}, "lcm(7, 0) = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out, _, err := execute(t, nil, nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGCDCommandJSON(t *testing.T) {
	out, _, err := execute(t, nil, nil, "gcd", "12", "18", "--format", "json")
	require.NoError(t, err)

	var res IntResult
	decodeResponse(t, out, &res)
	assert.Equal(t, IntResult{Op: "gcd", X: 12, Y: 18, Result: 6}, res)
}

func TestLCMCommandBadOperand(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"not_a_number", []string{"lcm", "4", "x6"}},
		{"negative_after_dashes", []string{"lcm", "--", "4", "-6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, nil, nil, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E002]")
		})
	}
}
