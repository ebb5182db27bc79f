package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rational/internal/ratio"
)

// TraceSnapshot captures the trace of one scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	LinkMode     string
	Trace        []TraceEvent
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		trace[i] = event.toCanonical()
	}
	return ratio.MarshalCanonical(map[string]any{
		"scenario_name": s.ScenarioName,
		"link_mode":     s.LinkMode,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s Surface, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(s, scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		LinkMode:     result.LinkMode,
		Trace:        result.Trace,
	}
	traceJSON, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
