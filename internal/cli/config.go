package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/config"
	"github.com/hotswap-labs/hotswap/internal/project"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage project settings",
	Long: `Read and write the project settings stored in ` + branding.SettingsFile() + ` at the project root.
Environment variables prefixed ` + branding.EnvPrefix() + `_ override the file.`,
}

func loadStore() (*config.Store, error) {
	root, err := project.Resolve(flagProjectDir)
	if err != nil {
		return nil, err
	}
	return config.Load(root.Dir())
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		if err := store.Set(key, value); err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		value, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every setting with its resolved value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		for _, key := range config.Keys {
			value, err := store.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		}
		return nil
	},
}
