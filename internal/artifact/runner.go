package artifact

import (
	"bytes"
	"context"
	"os/exec"
)

// Command is a single toolchain invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // full environment; nil inherits the process environment
}

// Runner executes toolchain commands. Tests substitute a recording runner.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd and returns its captured output.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
