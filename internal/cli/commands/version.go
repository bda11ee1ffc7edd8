package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cfcheck/pkg/cf"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display cfcheck version and the newest conventions version supported.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cfcheck v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "CF conventions checker, supports up to %s\n", cf.Newest)
		},
	}
}
