package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for orchestration failures.
const (
	ErrCodeWorkspace = "WORKSPACE"
	ErrCodeConfig    = "CONFIG"
	ErrCodeToolchain = "TOOLCHAIN"
	ErrCodeSources   = "SOURCES"
)

// BuildError is a failed toolchain invocation.
//
// Error returns the toolchain's stderr verbatim. Builds that fail are
// fatal to the consumer's build and are never retried.
type BuildError struct {
	Code   string
	Args   []string
	Stderr string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, strings.Join(e.Args, " "), e.Err)
	}
	return e.Code
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ConfigError is an invalid build configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrCodeConfig, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCodeConfig, e.Field, e.Message)
}

// IsBuildError returns true if err is a *BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// IsConfigError returns true if err is a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

var errNotInModule = errors.New("not inside a Go module (go env GOMOD is empty)")
