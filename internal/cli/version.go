package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/branding"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, buildVersion)
			return nil
		}

		if versionJSON {
			return writeJSON(w, map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
				"source":  "https://github.com/" + branding.GitHubRepo(),
			})
		}

		fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		fmt.Fprintf(w, "source: https://github.com/%s\n", branding.GitHubRepo())
		return nil
	},
}
