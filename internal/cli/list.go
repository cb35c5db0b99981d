package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/lifecycle"
)

var (
	listJSON   bool
	statusJSON bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}

// statusEntry is a module's state for display.
type statusEntry struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
	State      string `json:"state"`
	Tree       bool   `json:"tree"`
	Provider   string `json:"provider"`
}

func newStatusEntry(st lifecycle.Status) statusEntry {
	return statusEntry{
		Name:       st.Name.Slug,
		Identifier: st.Name.Identifier,
		Path:       st.Path,
		State:      st.State(),
		Tree:       st.Tree,
		Provider:   st.Provider.String(),
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules in the packages directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		mods, err := s.controller(cmd).List()
		if err != nil {
			return err
		}

		entries := make([]statusEntry, 0, len(mods))
		for _, m := range mods {
			entries = append(entries, newStatusEntry(m))
		}
		if listJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}

		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No modules in %s yet.\n", s.settings.PackagesDir)
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTATE\tPATH")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, stateStyle(e.State).Render(e.State), e.Path)
		}
		return tw.Flush()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show whether a module is active, paused or absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		st, err := s.controller(cmd).Status(args[0])
		if err != nil {
			return err
		}
		e := newStatusEntry(st)
		if statusJSON {
			return writeJSON(cmd.OutOrStdout(), e)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(e.Name), stateStyle(e.State).Render(e.State))
		fmt.Fprintf(w, "  path      %s (present: %t)\n", e.Path, e.Tree)
		fmt.Fprintf(w, "  provider  %s\n", e.Provider)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
