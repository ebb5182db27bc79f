// Command rational is the consumer CLI for the rational_impl artifact.
//
// It runs the demonstration sequence and single operations against either
// the linked-in artifact or one loaded with --lib, builds the artifact, and
// checks it against conformance scenarios.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/rational/internal/cli"
	"github.com/roach88/rational/internal/dylib"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(openLibrary)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Commands report their own failures; anything else came from flag
		// or argument parsing.
		code := cli.ExitCommandError
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(code)
	}
}

func openLibrary(path string) (cli.Library, error) {
	lib, err := dylib.Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}
