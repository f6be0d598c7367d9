package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of sbu.`,
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "sbu version %s\n", version)
		fmt.Fprintf(c.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(c.OutOrStdout(), "  built:  %s\n", date)
	},
}
