package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hotswap-labs/hotswap/internal/lifecycle"
	"github.com/hotswap-labs/hotswap/internal/registry"
)

// Color palette shared by all CLI output, tuned for dark terminals.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for the heading of a report.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for paths and other secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names the user can run next.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// targetStyle pads step targets into a column.
	targetStyle = lipgloss.NewStyle().
			Width(10)
)

// outcomeStyle colors a step outcome by how much attention it needs.
func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case lifecycle.OutcomeFailed:
		return ErrorStyle
	case lifecycle.OutcomeMissing, string(registry.OutcomeSkipped):
		return WarningStyle
	case lifecycle.OutcomeDisabled, lifecycle.OutcomeWasActive, lifecycle.OutcomeWasPaused,
		string(registry.OutcomePresent), string(registry.OutcomeAbsent):
		return SubtitleStyle
	default:
		return SuccessStyle
	}
}

// stateStyle colors a module state in list and status output.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "active":
		return SuccessStyle
	case "paused":
		return WarningStyle
	case "absent":
		return SubtitleStyle
	default:
		return ErrorStyle
	}
}
