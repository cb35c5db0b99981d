package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/frontend"
	"github.com/hotswap-labs/hotswap/internal/scaffold"
)

var scaffoldFrontend string

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldFrontend, "frontend", "", "Front-end to set up: "+strings.Join(scaffold.Frontends, " or ")+" (prompts when omitted)")
	rootCmd.AddCommand(scaffoldCmd)
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Set up the host application's front-end for modules",
	Long: `Write the host entry point that resolves pages from every module
(resources/js/app.tsx for React, resources/js/app.ts for Vue), point every
@vite([...]) directive in resources/views at it, and record the choice as
HOTSWAP_ENV in .env so later commands create matching pages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}

		choice := scaffoldFrontend
		if choice == "" {
			choice, err = frontend.Choose(cmd.InOrStdin(), cmd.ErrOrStderr(), "Which frontend environment do you want to use?", scaffold.Frontends)
			if err != nil {
				return err
			}
		}
		if !slices.Contains(scaffold.Frontends, choice) {
			return fmt.Errorf("unknown frontend %q: must be %s", choice, strings.Join(scaffold.Frontends, " or "))
		}

		res, err := frontend.New(s.root, s.logger).Apply(choice)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, TitleStyle.Render("scaffold "+choice))
		entry := "unchanged"
		if res.EntryChanged {
			entry = "written"
		}
		fmt.Fprintln(w, "  "+targetStyle.Render("entry")+outcomeStyle(entry).Render(entry)+"  "+SubtitleStyle.Render(res.Entry))
		for _, v := range res.Views {
			fmt.Fprintln(w, "  "+targetStyle.Render("view")+SuccessStyle.Render("updated")+"  "+SubtitleStyle.Render(v))
		}
		env := "unchanged"
		if res.EnvChanged {
			env = "updated"
		}
		fmt.Fprintln(w, "  "+targetStyle.Render(".env")+outcomeStyle(env).Render(env))
		for _, msg := range res.Warnings {
			fmt.Fprintln(w, "    "+WarningStyle.Render("! "+msg))
		}
		return nil
	},
}
