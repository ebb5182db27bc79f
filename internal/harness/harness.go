package harness

import (
	"fmt"
	"strconv"

	"github.com/roach88/rational/internal/arith"
	"github.com/roach88/rational/internal/ratio"
	"github.com/roach88/rational/internal/testutil"
)

// Surface is the artifact function set a scenario runs against.
type Surface interface {
	GetVersion(major, minor, patch *int32)
	IsDynamicallyLinked() int32
	AddRationals(a, b *ratio.Rational) ratio.Rational
	NormalizeRational(r *ratio.Rational)
}

// Clock stamps trace events.
type Clock interface {
	Next() int64
}

// Run executes scenario against s with a fresh deterministic clock.
//
// Expect mismatches and failed assertions are reported in the Result.
// An error is returned only when a step cannot be executed at all, such
// as an unparsable argument.
func Run(s Surface, scenario *Scenario) (*Result, error) {
	return RunWithClock(s, scenario, testutil.NewDeterministicClock())
}

// RunWithClock is Run with a caller-supplied clock.
func RunWithClock(s Surface, scenario *Scenario, clock Clock) (*Result, error) {
	result := NewResult()
	result.LinkMode = linkMode(s)

	for i, step := range scenario.Steps {
		got, err := execute(s, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
		result.AddTrace(step.Op, step.Args, got, clock.Next())

		if step.Expect != "" && step.Expect != got {
			result.AddError(fmt.Sprintf("steps[%d] (%s %v): expected %s, got %s",
				i, step.Op, step.Args, step.Expect, got))
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute performs one step and renders its result.
func execute(s Surface, step Step) (string, error) {
	arity, ok := opArity[step.Op]
	if !ok {
		return "", fmt.Errorf("unknown op %q", step.Op)
	}
	if len(step.Args) != arity {
		return "", fmt.Errorf("takes %d args, got %d", arity, len(step.Args))
	}

	switch step.Op {
	case OpAdd:
		a, err := parseOperand(step.Args[0])
		if err != nil {
			return "", err
		}
		b, err := parseOperand(step.Args[1])
		if err != nil {
			return "", err
		}
		return s.AddRationals(a, b).String(), nil

	case OpNormalize:
		r, err := parseOperand(step.Args[0])
		if err != nil {
			return "", err
		}
		s.NormalizeRational(r)
		if r == nil {
			return NullArg, nil
		}
		return r.String(), nil

	case OpVersion:
		var major, minor, patch int32
		s.GetVersion(&major, &minor, &patch)
		return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil

	case OpIsDynamicallyLinked:
		return strconv.FormatBool(s.IsDynamicallyLinked() != 0), nil

	case OpGCD, OpLCM:
		x, err := strconv.ParseUint(step.Args[0], 10, 64)
		if err != nil {
			return "", fmt.Errorf("parse %q: %w", step.Args[0], err)
		}
		y, err := strconv.ParseUint(step.Args[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("parse %q: %w", step.Args[1], err)
		}
		if step.Op == OpGCD {
			return strconv.FormatUint(arith.GCD(x, y), 10), nil
		}
		return strconv.FormatUint(arith.LCM(x, y), 10), nil
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

// parseOperand returns nil for NullArg or an empty arg.
func parseOperand(arg string) (*ratio.Rational, error) {
	if arg == "" || arg == NullArg {
		return nil, nil
	}
	r, err := ratio.Parse(arg)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func linkMode(s Surface) string {
	if s.IsDynamicallyLinked() != 0 {
		return "dynamic"
	}
	return "static"
}
