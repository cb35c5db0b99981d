package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/config"
	"github.com/hotswap-labs/hotswap/internal/doctor"
	"github.com/hotswap-labs/hotswap/internal/project"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready for modules",
	Long: `Run diagnostic checks on the host project: the registry files and whether
their anchors can still be found, the laravel/framework version, php and
composer on PATH, and modules whose directory has no provider entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := project.Resolve(flagProjectDir)
		if err != nil {
			return err
		}

		// An invalid settings file is reported by the checks, not fatal here.
		settings := config.Defaults()
		if store, err := config.Load(root.Dir()); err == nil {
			if s, err := store.Settings(); err == nil {
				settings = s
			}
		} else {
			var invalid *config.InvalidError
			if !errors.As(err, &invalid) {
				return err
			}
		}

		sum := doctor.Run(cmd.OutOrStdout(), root, doctor.Options{
			Layout:      settings.Layout(),
			PHPBin:      settings.PHPBin,
			ComposerBin: settings.ComposerBin,
			Logger:      newLogger(cmd.ErrOrStderr()),
		})

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d ok, %d warnings, %d missing, %d failed\n", sum.OK, sum.Warn, sum.Miss, sum.Fail)
		if !sum.Healthy() {
			return &ExitError{Code: 1}
		}
		return nil
	},
}
