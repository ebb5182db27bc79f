package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocateWorkspace returns the directory holding the go.mod of the module
// that encloses dir, as reported by `go env GOMOD`.
func LocateWorkspace(ctx context.Context, r Runner, goBin, dir string) (string, error) {
	cmd := Command{Name: goBin, Args: []string{"env", "GOMOD"}, Dir: dir}
	stdout, stderr, err := r.Run(ctx, cmd)
	if err != nil {
		return "", &BuildError{
			Code:   ErrCodeWorkspace,
			Args:   append([]string{goBin}, cmd.Args...),
			Stderr: string(stderr),
			Err:    err,
		}
	}

	gomod := strings.TrimSpace(string(stdout))
	if gomod == "" || gomod == os.DevNull {
		return "", &BuildError{
			Code: ErrCodeWorkspace,
			Args: append([]string{goBin}, cmd.Args...),
			Err:  errNotInModule,
		}
	}
	return filepath.Dir(gomod), nil
}
