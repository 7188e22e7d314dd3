package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqldoclint version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqldoclint v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SQL snippet validator for markdown documentation (%s %s/%s)\n",
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
