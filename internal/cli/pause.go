package cli

import (
	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/lifecycle"
)

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}

var pauseCmd = &cobra.Command{
	Use:   "pause <name>",
	Short: "Stop loading a module without deleting it",
	Long: `Comment out the module's service provider in bootstrap/providers.php. The
module's files and other registry entries are kept, so resume brings it back
exactly as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], (*lifecycle.Controller).Pause)
	},
}

var resumeCmd = &cobra.Command{
	Use:     "resume <name>",
	Aliases: []string{"play"},
	Short:   "Load a paused module again",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], (*lifecycle.Controller).Resume)
	},
}

func runToggle(cmd *cobra.Command, name string, op func(*lifecycle.Controller, string) (*lifecycle.Report, error)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	ctl := s.controller(cmd)
	rep, err := op(ctl, name)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}
