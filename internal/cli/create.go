package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/branding"
)

var createVariant string

func init() {
	createCmd.Flags().StringVar(&createVariant, "variant", "", "Front-end page variant: react or vue (default: the configured frontend)")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a module from the template and register it",
	Long: `Copy the module template to packages/<name>, substitute the module name into
paths and contents, and register the module in bootstrap/providers.php,
composer.json, vite.config.ts and the database seeder.

The command fails without touching anything if packages/<name> already
exists. A registry file that is missing or unrecognizable is skipped with a
warning; the module is still created.

Examples:
  ` + branding.CLIName() + ` create ecommerce
  ` + branding.CLIName() + ` create blog --variant vue`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		ctl, err := s.creator(cmd, createVariant)
		if err != nil {
			return err
		}

		rep, err := ctl.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), rep)
		if rep.Failed() {
			fmt.Fprintf(cmd.OutOrStdout(), "\nSome steps failed. Fix them and run %s, then create again.\n",
				CmdStyle.Render(branding.CLIName()+" remove "+rep.Module.Slug))
		}
		return nil
	},
}
