package artifact

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// DefaultConfigFile is looked up in the workspace root when no explicit
// config path is given.
const DefaultConfigFile = "rational.build.yaml"

// Built-in profile names.
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Config holds the build parameters for the companion artifact.
//
// Precedence, lowest first: defaults, YAML file, RATIONAL_* environment
// variables, command-line flags (applied by the caller).
type Config struct {
	Crate           string             `yaml:"crate" json:"crate" env:"RATIONAL_CRATE"`
	Package         string             `yaml:"package" json:"package" env:"RATIONAL_PACKAGE"`
	BoundaryPackage string             `yaml:"boundary_package" json:"boundary_package" env:"RATIONAL_BOUNDARY_PACKAGE"`
	Profile         string             `yaml:"profile" json:"profile" env:"RATIONAL_PROFILE"`
	LinkStatic      bool               `yaml:"link_static" json:"link_static" env:"RATIONAL_LINK_STATIC"`
	Target          string             `yaml:"target" json:"target" env:"RATIONAL_TARGET"`
	OutDir          string             `yaml:"out_dir" json:"out_dir" env:"RATIONAL_OUT_DIR"`
	Version         string             `yaml:"version" json:"version" env:"RATIONAL_VERSION"`
	Go              string             `yaml:"go" json:"go" env:"RATIONAL_GO"`
	Cache           string             `yaml:"cache" json:"cache" env:"RATIONAL_CACHE"`
	Sources         []string           `yaml:"sources" json:"sources" env:"RATIONAL_SOURCES" envSeparator:","`
	Profiles        map[string]Profile `yaml:"profiles" json:"profiles,omitempty"`
}

// Profile is a named set of compiler and linker flags.
type Profile struct {
	GCFlags  []string `yaml:"gcflags" json:"gcflags,omitempty"`
	LDFlags  []string `yaml:"ldflags" json:"ldflags,omitempty"`
	Trimpath bool     `yaml:"trimpath" json:"trimpath,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Crate:           "rational_impl",
		Package:         "./cmd/rational_impl",
		BoundaryPackage: "github.com/roach88/rational/internal/boundary",
		Profile:         ProfileDebug,
		OutDir:          "target",
		Version:         "0.1.0",
		Go:              "go",
		Cache:           "target/builds.db",
		Sources: []string{
			"cmd/rational_impl",
			"internal/boundary",
			"internal/arith",
			"internal/ratio",
			"go.mod",
			"go.sum",
		},
	}
}

var builtinProfiles = map[string]Profile{
	ProfileDebug:   {GCFlags: []string{"all=-N -l"}},
	ProfileRelease: {LDFlags: []string{"-s", "-w"}, Trimpath: true},
}

// LoadConfig reads path over DefaultConfig, applies RATIONAL_* overrides
// from the process environment, and validates the result. A missing file
// is not an error when allowMissing is set.
func LoadConfig(path string, allowMissing bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeConfig(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && allowMissing:
	default:
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := ApplyEnv(&cfg, nil); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeConfig decodes YAML strictly; unknown keys are errors.
func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Message: err.Error()}
	}
	return nil
}

// ApplyEnv overrides cfg from RATIONAL_* variables. A nil environ reads the
// process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return &ConfigError{Message: fmt.Sprintf("parse env: %v", err)}
	}
	return nil
}

// Validate checks cfg against the embedded CUE schema and resolves the
// profile name.
func (c Config) Validate() error {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(cctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ConfigError{Message: strings.ReplaceAll(err.Error(), "#Config.", "")}
	}

	if _, err := c.ResolveProfile(); err != nil {
		return err
	}
	return nil
}

// ResolveProfile returns the flags for c.Profile. Entries under profiles
// replace the built-in debug and release definitions.
func (c Config) ResolveProfile() (Profile, error) {
	if p, ok := c.Profiles[c.Profile]; ok {
		return p, nil
	}
	if p, ok := builtinProfiles[c.Profile]; ok {
		return p, nil
	}
	known := []string{ProfileDebug, ProfileRelease}
	for name := range c.Profiles {
		known = append(known, name)
	}
	slices.Sort(known)
	return Profile{}, &ConfigError{
		Field:   "profile",
		Message: fmt.Sprintf("unknown profile %q (known: %s)", c.Profile, strings.Join(known, ", ")),
	}
}

// LinkKind returns "static" or "dynamic".
func (c Config) LinkKind() string {
	if c.LinkStatic {
		return KindStatic
	}
	return KindDynamic
}
