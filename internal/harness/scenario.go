package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order against the surface.
	Steps []Step `yaml:"steps"`

	// Assertions validate the resulting trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one surface call.
type Step struct {
	// Op is the operation name, one of the Op* constants.
	Op string `yaml:"op"`

	// Args are the operands: rationals as "N/D" (or "null") for add and
	// normalize, unsigned integers for gcd and lcm.
	Args []string `yaml:"args,omitempty"`

	// Expect is the expected rendered result. Empty means unchecked.
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the trace or the surface.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the operation (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are matched exactly when present (trace_contains).
	Args []string `yaml:"args,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Expect is the expected link mode (link_mode).
	Expect string `yaml:"expect,omitempty"`
}

// Operation names.
const (
	OpAdd                 = "add"
	OpNormalize           = "normalize"
	OpVersion             = "version"
	OpIsDynamicallyLinked = "is_dynamically_linked"
	OpGCD                 = "gcd"
	OpLCM                 = "lcm"
)

// opArity is the number of args each operation takes.
var opArity = map[string]int{
	OpAdd:                 2,
	OpNormalize:           1,
	OpVersion:             0,
	OpIsDynamicallyLinked: 0,
	OpGCD:                 2,
	OpLCM:                 2,
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertLinkMode      = "link_mode"
)

// NullArg passes a nil pointer in place of a rational.
const NullArg = "null"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		arity, ok := opArity[step.Op]
		if !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if len(step.Args) != arity {
			return fmt.Errorf("steps[%d]: %s takes %d args, got %d", i, step.Op, arity, len(step.Args))
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertLinkMode:
		if a.Expect != "static" && a.Expect != "dynamic" {
			return fmt.Errorf("assertions[%d]: link_mode expects static or dynamic, got %q", index, a.Expect)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
