package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/branding"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Global flags.
var (
	flagProjectDir string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds self-contained modules inside a Laravel application and keeps
the shared registry files (service providers, composer autoload, vite and the
database seeder) in step with them as modules are created, paused, resumed
and removed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectDir, "project-dir", "",
		"Laravel project root (default: $"+branding.EnvVar("project_dir")+", then the nearest directory holding artisan or composer.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log each step in detail")
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT cancels the context handed to artisan and composer.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	var exit *ExitError
	if errors.As(err, &exit) && exit.Err == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
}
