package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VersionResult is the output of version.
type VersionResult struct {
	Major    int32  `json:"major"`
	Minor    int32  `json:"minor"`
	Patch    int32  `json:"patch"`
	LinkMode string `json:"link_mode"`
	Source   string `json:"source"` // "linked" or the --lib path
}

func (r VersionResult) String() string {
	return fmt.Sprintf("%d.%d.%d (%s, %s)", r.Major, r.Minor, r.Patch, r.LinkMode, r.Source)
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the artifact version and link mode",
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

			major, minor, patch := client.Version()
			res := VersionResult{Major: major, Minor: minor, Patch: patch, LinkMode: "static", Source: "linked"}
			if client.IsDynamicallyLinked() {
				res.LinkMode = "dynamic"
			}
			if opts.Lib != "" {
				res.Source = opts.Lib
			}
			return f.Success(res)
		},
	}
}
