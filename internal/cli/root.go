package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/rational"
	"github.com/roach88/rational/internal/artifact"
	"github.com/roach88/rational/internal/boundary"
	"github.com/roach88/rational/internal/harness"
)

// Library is a foreign artifact opened with --lib.
type Library interface {
	harness.Surface
	Close() error
}

// Opener opens the artifact at path. cmd/rational supplies one backed by
// internal/dylib; a nil Opener makes --lib an error.
type Opener func(path string) (Library, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Lib     string // foreign artifact path; empty uses the linked-in surface

	open   Opener
	logger *zap.Logger
	runner artifact.Runner // nil uses artifact.ExecRunner
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rational CLI.
func NewRootCommand(open Opener) *cobra.Command {
	return newRootCommand(open, nil)
}

func newRootCommand(open Opener, runner artifact.Runner) *cobra.Command {
	opts := &RootOptions{open: open, runner: runner, logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "rational",
		Short: "Exact rational arithmetic over a C ABI",
		Long: `rational exercises the rational_impl artifact: exact u64/u64 fraction
arithmetic exposed through a C-compatible surface.

By default commands call the artifact semantics linked into this binary.
With --lib they call a separately built shared library instead.`,
		// Commands report their own failures; cmd/rational prints the rest.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Lib, "lib", "", "path to a rational_impl shared library to call instead of the linked-in one")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewGCDCommand(opts))
	cmd.AddCommand(NewLCMCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewConformCommand(opts))

	return cmd
}

// initLogger builds the zap logger: production config, debug level with
// --verbose. Logs go to stderr.
func (o *RootOptions) initLogger() error {
	config := zap.NewProductionConfig()
	if o.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger
	return nil
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// surface returns the surface commands run against and a release func.
func (o *RootOptions) surface() (harness.Surface, func(), error) {
	if o.Lib == "" {
		return boundary.Local{}, func() {}, nil
	}
	if o.open == nil {
		return nil, nil, fmt.Errorf("--lib is not supported by this build")
	}
	lib, err := o.open(o.Lib)
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("loaded artifact", zap.String("path", o.Lib))
	return lib, func() {
		if err := lib.Close(); err != nil {
			o.logger.Warn("failed to close artifact", zap.String("path", o.Lib), zap.Error(err))
		}
	}, nil
}

// client resolves the surface and wraps it in the consumer API, reporting
// a load failure through f.
func (o *RootOptions) client(f *OutputFormatter) (*rational.Client, harness.Surface, func(), error) {
	s, release, err := o.surface()
	if err != nil {
		return nil, nil, nil, f.Fail(ExitCommandError, ErrCodeLibrary, "failed to load artifact", err)
	}
	return rational.NewClient(s), s, release, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
