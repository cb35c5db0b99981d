package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a module and unregister it everywhere",
	Long: `Delete packages/<name> and remove the module's entries from every registry
file, whether the module is active or paused. A missing directory is only a
warning, so remove also cleans up entries left behind by a deleted module.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		ctl := s.controller(cmd)
		rep, err := ctl.Remove(cmd.Context(), args[0])
		if rep != nil {
			printReport(cmd.OutOrStdout(), rep)
		}
		return err
	},
}
