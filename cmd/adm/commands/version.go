package commands

import (
	"fmt"

	"lexiquiz/internal/version"

	"github.com/spf13/cobra"
)

// VersionCommand prints build information
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Info("lexiquiz-admin")
			return newPrinter(cmd.OutOrStdout()).emit(
				fmt.Sprintf("%s %s (commit %s, built %s)", info["service"], info["version"], info["commit"], info["buildTime"]),
				info,
			)
		},
	}
}
