package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rational"
)

// DemoResult is the output of demo.
type DemoResult struct {
	IsDynamicallyLinked bool      `json:"is_dynamically_linked"`
	Version             string    `json:"version"`
	Normalized          string    `json:"normalized"`
	Sum                 SumResult `json:"sum"`
}

func (r DemoResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "is dylib: %t\n", r.IsDynamicallyLinked)
	fmt.Fprintf(&b, "version: %s\n", r.Version)
	fmt.Fprintf(&b, "rat2 = %s\n", r.Normalized)
	b.WriteString(r.Sum.String())
	return b.String()
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the demonstration sequence",
		Long: `Print the link mode and version, normalize 22/128, then add 41/64 to it.

Expected output with the linked-in artifact:
  is dylib: false
  version: 0.1.0
  rat2 = 11/64
  41/64 + 11/64 = 13/16`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			client, _, release, err := opts.client(f)
			if err != nil {
				return err
			}
			defer release()

			return f.Success(runDemo(client))
		},
	}
}

func runDemo(c *rational.Client) DemoResult {
	major, minor, patch := c.Version()

	rat1 := rational.New(41, 64)
	rat2 := rational.New(22, 128)
	c.Normalize(&rat2)

	result := c.Add(&rat1, &rat2)
	c.Normalize(&result)

	return DemoResult{
		IsDynamicallyLinked: c.IsDynamicallyLinked(),
		Version:             fmt.Sprintf("%d.%d.%d", major, minor, patch),
		Normalized:          rat2.String(),
		Sum:                 SumResult{X: rat1.String(), Y: rat2.String(), Result: result.String()},
	}
}
