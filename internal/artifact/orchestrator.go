package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/rational/internal/buildcache"
)

// Orchestrator builds the companion artifact for one Config.
//
// Thread-safety: Build may be called from the Watcher goroutine and from
// callers concurrently only if the Runner and Cache allow it; the default
// ExecRunner and buildcache.Cache do.
type Orchestrator struct {
	cfg    Config
	root   string
	runner Runner
	cache  *buildcache.Cache
	ids    IDGenerator
	log    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the toolchain runner.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithCache records builds in c and skips builds whose fingerprint is
// unchanged.
func WithCache(c *buildcache.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithIDGenerator replaces the UUIDv7 build ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *Orchestrator) { o.ids = g }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// NewOrchestrator creates an Orchestrator for the workspace at root.
func NewOrchestrator(cfg Config, root string, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		cfg:    cfg,
		root:   root,
		runner: ExecRunner{},
		ids:    UUIDv7Generator{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Config returns the configuration the orchestrator builds with.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Root returns the workspace root.
func (o *Orchestrator) Root() string {
	return o.root
}

// Plan is a resolved build: what would be invoked and where it would land.
type Plan struct {
	Key     buildcache.Key
	Command Command
	Library string
	Header  string
	Dir     string
}

// Plan resolves the toolchain invocation for the current config without
// running it.
func (o *Orchestrator) Plan() (Plan, error) {
	profile, err := o.cfg.ResolveProfile()
	if err != nil {
		return Plan{}, err
	}

	goos, goarch, err := splitTarget(o.cfg.Target)
	if err != nil {
		return Plan{}, err
	}

	kind := o.cfg.LinkKind()
	dir := filepath.Join(o.outDir(), targetDir(o.cfg.Target), o.cfg.Profile)
	lib := filepath.Join(dir, libraryFile(o.cfg.Crate, kind, goos))

	buildmode := "-buildmode=c-shared"
	if kind == KindStatic {
		buildmode = "-buildmode=c-archive"
	}

	args := []string{"build", buildmode, "-o", lib}
	if profile.Trimpath {
		args = append(args, "-trimpath")
	}
	if len(profile.GCFlags) > 0 {
		args = append(args, "-gcflags="+strings.Join(profile.GCFlags, " "))
	}

	ldflags := []string{
		fmt.Sprintf("-X %s.linkMode=%s", o.cfg.BoundaryPackage, kind),
		fmt.Sprintf("-X %s.version=%s", o.cfg.BoundaryPackage, o.cfg.Version),
	}
	ldflags = append(ldflags, profile.LDFlags...)
	args = append(args, "-ldflags="+strings.Join(ldflags, " "), o.cfg.Package)

	env := append(os.Environ(), "CGO_ENABLED=1")
	if o.cfg.Target != "" {
		env = append(env, "GOOS="+goos, "GOARCH="+goarch)
	}

	return Plan{
		Key: buildcache.Key{
			Crate:   o.cfg.Crate,
			Profile: o.cfg.Profile,
			Kind:    kind,
			Target:  o.cfg.Target,
		},
		Command: Command{Name: o.cfg.Go, Args: args, Dir: o.root, Env: env},
		Library: lib,
		Header:  headerFile(lib),
		Dir:     dir,
	}, nil
}

// Build produces the artifact, reusing the cached one when the source
// fingerprint is unchanged and the library file still exists.
//
// A toolchain failure returns *BuildError carrying its stderr. Build never
// retries.
func (o *Orchestrator) Build(ctx context.Context) (*Artifact, error) {
	plan, err := o.Plan()
	if err != nil {
		return nil, err
	}

	files, err := CollectSources(o.root, o.cfg.Sources)
	if err != nil {
		return nil, &BuildError{Code: ErrCodeSources, Err: err}
	}
	fp, err := ComputeFingerprint(ctx, o.root, files, plan.Command.Args...)
	if err != nil {
		return nil, &BuildError{Code: ErrCodeSources, Err: err}
	}

	art := &Artifact{
		Crate:       o.cfg.Crate,
		Path:        plan.Library,
		Header:      plan.Header,
		Dir:         plan.Dir,
		Kind:        plan.Key.Kind,
		Version:     o.cfg.Version,
		Fingerprint: fp.Sum,
		Sources:     fp.Files,
		Root:        o.root,
	}

	if prev, ok := o.cached(ctx, plan, fp.Sum); ok {
		art.BuildID = prev.ID
		art.Cached = true
		o.log.Info("artifact up to date",
			zap.String("build_id", prev.ID),
			zap.String("path", plan.Library))
		return art, nil
	}

	if err := os.MkdirAll(plan.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	o.log.Info("building artifact",
		zap.String("crate", o.cfg.Crate),
		zap.String("profile", o.cfg.Profile),
		zap.String("kind", plan.Key.Kind),
		zap.String("target", o.cfg.Target))
	o.log.Debug("toolchain invocation",
		zap.String("go", plan.Command.Name),
		zap.Strings("args", plan.Command.Args))

	_, stderr, err := o.runner.Run(ctx, plan.Command)
	if err != nil {
		return nil, &BuildError{
			Code:   ErrCodeToolchain,
			Args:   append([]string{plan.Command.Name}, plan.Command.Args...),
			Stderr: string(stderr),
			Err:    err,
		}
	}

	art.BuildID = o.ids.Generate()
	if o.cache != nil {
		rec := &buildcache.Build{
			ID:           art.BuildID,
			Key:          plan.Key,
			Fingerprint:  fp.Sum,
			ArtifactPath: plan.Library,
			Version:      o.cfg.Version,
			Sources:      fp.Files,
		}
		if err := o.cache.Record(ctx, rec); err != nil {
			// The artifact exists; a missing record only costs a rebuild.
			o.log.Warn("failed to record build", zap.Error(err))
		}
	}

	o.log.Info("artifact built",
		zap.String("build_id", art.BuildID),
		zap.String("path", art.Path))
	return art, nil
}

func (o *Orchestrator) cached(ctx context.Context, plan Plan, sum string) (*buildcache.Build, bool) {
	if o.cache == nil {
		return nil, false
	}
	prev, ok, err := o.cache.Latest(ctx, plan.Key)
	if err != nil {
		o.log.Warn("build cache lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok || prev.Fingerprint != sum || prev.ArtifactPath != plan.Library {
		return nil, false
	}
	if _, err := os.Stat(plan.Library); err != nil {
		return nil, false
	}
	return prev, true
}

func (o *Orchestrator) outDir() string {
	if filepath.IsAbs(o.cfg.OutDir) {
		return o.cfg.OutDir
	}
	return filepath.Join(o.root, o.cfg.OutDir)
}

// splitTarget parses "GOOS/GOARCH". An empty target is the host.
func splitTarget(target string) (string, string, error) {
	if target == "" {
		return runtime.GOOS, runtime.GOARCH, nil
	}
	goos, goarch, ok := strings.Cut(target, "/")
	if !ok || goos == "" || goarch == "" {
		return "", "", &ConfigError{Field: "target", Message: fmt.Sprintf("want GOOS/GOARCH, got %q", target)}
	}
	return goos, goarch, nil
}

func targetDir(target string) string {
	if target == "" {
		return "host"
	}
	return strings.ReplaceAll(target, "/", "-")
}

// OpenCache opens the build cache named by cfg.Cache relative to root,
// creating its directory. An empty path disables caching.
func OpenCache(cfg Config, root string) (*buildcache.Cache, error) {
	if cfg.Cache == "" {
		return nil, nil
	}
	p := cfg.Cache
	if p != ":memory:" && !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	if p != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	c, err := buildcache.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open build cache %s: %w", p, err)
	}
	return c, nil
}
