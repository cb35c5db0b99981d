package cli

import (
	"fmt"
	"io"

	"github.com/hotswap-labs/hotswap/internal/lifecycle"
)

// printReport writes one line per step and any warnings beneath it.
func printReport(w io.Writer, rep *lifecycle.Report) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(rep.Action+" "+rep.Module.Slug), SubtitleStyle.Render(rep.Path))
	for _, s := range rep.Steps {
		line := "  " + targetStyle.Render(s.Target) + outcomeStyle(s.Outcome).Render(s.Outcome)
		if s.File != "" && s.File != rep.Path {
			line += "  " + SubtitleStyle.Render(s.File)
		}
		fmt.Fprintln(w, line)
		for _, msg := range s.Warnings {
			fmt.Fprintln(w, "    "+WarningStyle.Render("! "+msg))
		}
	}
}
