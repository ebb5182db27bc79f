package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/rational/internal/artifact"
	"github.com/roach88/rational/internal/buildcache"
)

// BuildOptions holds flags for the build and watch commands.
type BuildOptions struct {
	*RootOptions
	Config     string // config file; default <workspace>/rational.build.yaml
	Profile    string
	Static     bool
	Target     string
	Version    string
	OutDir     string
	NoCache    bool
	Directives bool // print link directives
	PkgConfig  bool // write <crate>.pc next to the artifact
	Dir        string
}

// BuildResult is the output of build.
type BuildResult struct {
	BuildID     string   `json:"build_id"`
	Path        string   `json:"path"`
	Header      string   `json:"header"`
	Kind        string   `json:"kind"`
	Version     string   `json:"version"`
	Fingerprint string   `json:"fingerprint"`
	Cached      bool     `json:"cached"`
	Directives  []string `json:"directives,omitempty"`
	PkgConfig   string   `json:"pkg_config,omitempty"`
}

func (r BuildResult) String() string {
	var b strings.Builder
	state := "built"
	if r.Cached {
		state = "up to date"
	}
	fmt.Fprintf(&b, "%s %s (%s, %s)", state, r.Path, r.Kind, r.BuildID)
	for _, d := range r.Directives {
		b.WriteString("\n")
		b.WriteString(d)
	}
	if r.PkgConfig != "" {
		fmt.Fprintf(&b, "\nwrote %s", r.PkgConfig)
	}
	return b.String()
}

func addBuildFlags(cmd *cobra.Command, opts *BuildOptions) {
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "build config file (default <workspace>/"+artifact.DefaultConfigFile+")")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "build profile (debug|release|<custom>)")
	cmd.Flags().BoolVar(&opts.Static, "static", false, "build a static archive instead of a shared library")
	cmd.Flags().StringVar(&opts.Target, "target", "", "cross-compilation target as GOOS/GOARCH")
	cmd.Flags().StringVar(&opts.Version, "set-version", "", "version stamped into the artifact")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "always invoke the toolchain")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory inside the workspace (default current directory)")
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the rational_impl artifact",
		Long: `Build cmd/rational_impl as a C library with the Go toolchain.

Parameters come from rational.build.yaml in the workspace root, then
RATIONAL_* environment variables, then flags. Unchanged sources reuse the
previous build.

Exit codes:
  0 - Artifact built or up to date
  2 - Configuration or toolchain error (toolchain stderr is printed verbatim)

Examples:
  rational build
  rational build --profile release --static
  rational build --target linux/arm64 --directives`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	addBuildFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.Directives, "directives", false, "print link directives for consumers")
	cmd.Flags().BoolVar(&opts.PkgConfig, "pkg-config", false, "write a pkg-config file next to the artifact")
	return cmd
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the artifact whenever its sources change",
		Long: `Build once, then watch the configured sources and rebuild on change
until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	addBuildFlags(cmd, opts)
	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	orch, cache, err := opts.orchestrator(ctx, cmd, f)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	art, err := orch.Build(ctx)
	if err != nil {
		return buildFailure(f, err)
	}

	res := buildResult(art)
	if opts.Directives {
		res.Directives = art.LinkDirectives()
	}
	if opts.PkgConfig {
		pc := filepath.Join(art.Dir, art.Crate+".pc")
		if err := os.WriteFile(pc, []byte(art.PkgConfig()), 0o644); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write pkg-config file", err)
		}
		res.PkgConfig = pc
	}
	return f.Success(res)
}

func runWatch(cmd *cobra.Command, opts *BuildOptions) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	orch, cache, err := opts.orchestrator(ctx, cmd, f)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	report := func(art *artifact.Artifact, err error) {
		if err != nil {
			_ = f.Error(ErrCodeBuild, "build failed", err.Error())
			return
		}
		_ = f.Success(buildResult(art))
	}

	report(orch.Build(ctx))

	dirs := artifact.WatchDirs(orch.Config(), orch.Root())
	w, err := artifact.NewWatcher(orch, dirs, report, artifact.WithWatchLogger(opts.logger))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to start watcher", err)
	}
	if err := w.Start(ctx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to start watcher", err)
	}
	defer w.Stop()

	f.VerboseLog("watching %s", strings.Join(dirs, ", "))
	<-ctx.Done()
	return nil
}

// orchestrator resolves workspace, config and cache from flags.
func (opts *BuildOptions) orchestrator(ctx context.Context, cmd *cobra.Command, f *OutputFormatter) (*artifact.Orchestrator, *buildcache.Cache, error) {
	runner := opts.runner
	if runner == nil {
		runner = artifact.ExecRunner{}
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, f.Fail(ExitCommandError, ErrCodeWorkspace, "failed to get working directory", err)
		}
		dir = wd
	}

	cfg, root, err := opts.resolveWorkspace(ctx, runner, dir, f)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = opts.Profile
	}
	if flags.Changed("static") {
		cfg.LinkStatic = opts.Static
	}
	if flags.Changed("target") {
		cfg.Target = opts.Target
	}
	if flags.Changed("set-version") {
		cfg.Version = opts.Version
	}
	if flags.Changed("out") {
		cfg.OutDir = opts.OutDir
	}
	if opts.NoCache {
		cfg.Cache = ""
	}

	cache, err := artifact.OpenCache(cfg, root)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeGeneric, "failed to open build cache", err)
	}

	orchOpts := []artifact.Option{
		artifact.WithRunner(runner),
		artifact.WithLogger(opts.logger),
	}
	if cache != nil {
		orchOpts = append(orchOpts, artifact.WithCache(cache))
	}
	orch, err := artifact.NewOrchestrator(cfg, root, orchOpts...)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid build configuration", err)
	}

	opts.logger.Debug("build configuration",
		zap.String("root", root),
		zap.String("crate", cfg.Crate),
		zap.String("profile", cfg.Profile),
		zap.String("kind", cfg.LinkKind()))
	return orch, cache, nil
}

// resolveWorkspace loads the build config and locates the workspace with
// the toolchain that config names. An explicit --config is read first. The
// default config lives in the workspace root, so the workspace is found
// with the default toolchain (or RATIONAL_GO) and checked again when the
// file names a different one.
func (opts *BuildOptions) resolveWorkspace(ctx context.Context, runner artifact.Runner, dir string, f *OutputFormatter) (artifact.Config, string, error) {
	if opts.Config != "" {
		cfg, err := artifact.LoadConfig(opts.Config, false)
		if err != nil {
			return cfg, "", f.Fail(ExitCommandError, ErrCodeConfig, "invalid build configuration", err)
		}
		root, err := artifact.LocateWorkspace(ctx, runner, cfg.Go, dir)
		if err != nil {
			return cfg, "", f.Fail(ExitCommandError, ErrCodeWorkspace, "failed to locate workspace", err)
		}
		return cfg, root, nil
	}

	boot := artifact.DefaultConfig()
	if err := artifact.ApplyEnv(&boot, nil); err != nil {
		return boot, "", f.Fail(ExitCommandError, ErrCodeConfig, "invalid build configuration", err)
	}
	root, err := artifact.LocateWorkspace(ctx, runner, boot.Go, dir)
	if err != nil {
		return boot, "", f.Fail(ExitCommandError, ErrCodeWorkspace, "failed to locate workspace", err)
	}

	cfg, err := artifact.LoadConfig(filepath.Join(root, artifact.DefaultConfigFile), true)
	if err != nil {
		return cfg, "", f.Fail(ExitCommandError, ErrCodeConfig, "invalid build configuration", err)
	}
	if cfg.Go == boot.Go {
		return cfg, root, nil
	}

	again, err := artifact.LocateWorkspace(ctx, runner, cfg.Go, dir)
	if err != nil {
		return cfg, "", f.Fail(ExitCommandError, ErrCodeWorkspace, "failed to locate workspace", err)
	}
	if again != root {
		return cfg, "", f.Fail(ExitCommandError, ErrCodeWorkspace, "failed to locate workspace",
			fmt.Errorf("%s places the workspace at %s, not %s", cfg.Go, again, root))
	}
	opts.logger.Debug("workspace located with configured toolchain", zap.String("go", cfg.Go))
	return cfg, root, nil
}

// buildFailure reports a build error. Toolchain stderr is printed as is.
func buildFailure(f *OutputFormatter, err error) error {
	var be *artifact.BuildError
	if errors.As(err, &be) && be.Stderr != "" {
		if f.Format == "json" {
			_ = f.Error(ErrCodeBuild, "toolchain failed", be.Stderr)
		} else {
			fmt.Fprint(f.GetErrWriter(), be.Stderr)
		}
		return WrapExitError(ExitCommandError, "build failed", err)
	}
	return f.Fail(ExitCommandError, ErrCodeBuild, "build failed", err)
}

func buildResult(art *artifact.Artifact) BuildResult {
	return BuildResult{
		BuildID:     art.BuildID,
		Path:        art.Path,
		Header:      art.Header,
		Kind:        art.Kind,
		Version:     art.Version,
		Fingerprint: art.Fingerprint,
		Cached:      art.Cached,
	}
}
