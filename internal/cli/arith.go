package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/rational"
	"github.com/roach88/rational/internal/arith"
	"github.com/roach88/rational/internal/ratio"
)

// SumResult is the output of add.
type SumResult struct {
	X      string `json:"x"`
	Y      string `json:"y"`
	Result string `json:"result"`
}

func (r SumResult) String() string {
	return fmt.Sprintf("%s + %s = %s", r.X, r.Y, r.Result)
}

// NormalizeResult is the output of normalize.
type NormalizeResult struct {
	Input  string `json:"input"`
	Result string `json:"result"`
}

func (r NormalizeResult) String() string {
	return fmt.Sprintf("%s = %s", r.Input, r.Result)
}

// IntResult is the output of gcd and lcm.
type IntResult struct {
	Op     string `json:"op"`
	X      uint64 `json:"x"`
	Y      uint64 `json:"y"`
	Result uint64 `json:"result"`
}

func (r IntResult) String() string {
	return fmt.Sprintf("%s(%d, %d) = %d", r.Op, r.X, r.Y, r.Result)
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <x> <y>",
		Short: "Add two rationals",
		Long: `Add two rationals and print the sum in lowest terms.

Operands are N/D or N. A zero denominator makes the sum undefined, which
the artifact reports as 0/1.

Examples:
  rational add 41/64 11/64
  rational add 1/3 1/6 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			x, y, err := parsePair(f, args)
			if err != nil {
				return err
			}

			client, _, release, err := opts.client(f)
			if err != nil {
				return err
			}
			defer release()

			sum := client.Add(&x, &y)
			return f.Success(SumResult{X: x.String(), Y: y.String(), Result: sum.String()})
		},
	}
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <r>",
		Short: "Reduce a rational to lowest terms",
		Long: `Reduce a rational to lowest terms. 0/0 has no lowest terms and becomes 0/1.

Examples:
  rational normalize 22/128`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			r, err := parseRational(f, args[0])
			if err != nil {
				return err
			}

			client, _, release, err := opts.client(f)
			if err != nil {
				return err
			}
			defer release()

			input := r.String()
			client.Normalize(&r)
			return f.Success(NormalizeResult{Input: input, Result: r.String()})
		},
	}
}

// NewGCDCommand creates the gcd command.
func NewGCDCommand(opts *RootOptions) *cobra.Command {
	return newIntCommand(opts, "gcd", "Greatest common divisor of two integers", arith.GCD)
}

// NewLCMCommand creates the lcm command.
func NewLCMCommand(opts *RootOptions) *cobra.Command {
	return newIntCommand(opts, "lcm", "Least common multiple of two integers (0 if either is 0)", arith.LCM)
}

func newIntCommand(opts *RootOptions, name, short string, fn func(x, y uint64) uint64) *cobra.Command {
	return &cobra.Command{
		Use:           name + " <x> <y>",
		Short:         short,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			var xs [2]uint64
			for i, a := range args {
				v, err := strconv.ParseUint(a, 10, 64)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeOperand, fmt.Sprintf("invalid operand %q", a), err)
				}
				xs[i] = v
			}
			return f.Success(IntResult{Op: name, X: xs[0], Y: xs[1], Result: fn(xs[0], xs[1])})
		},
	}
}

func parseRational(f *OutputFormatter, s string) (rational.Rational, error) {
	r, err := ratio.Parse(s)
	if err != nil {
		return r, f.Fail(ExitCommandError, ErrCodeOperand, fmt.Sprintf("invalid rational %q", s), err)
	}
	return r, nil
}

func parsePair(f *OutputFormatter, args []string) (rational.Rational, rational.Rational, error) {
	x, err := parseRational(f, args[0])
	if err != nil {
		return x, x, err
	}
	y, err := parseRational(f, args[1])
	return x, y, err
}
