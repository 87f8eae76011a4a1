package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the live session view.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
	Alert   lipgloss.Color // Error/interruption color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Alert:   lipgloss.Color("#ff5f56"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	State   lipgloss.Style
	User    lipgloss.Style
	Model   lipgloss.Style
	Help    lipgloss.Style
	Alert   lipgloss.Style
	Partial lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		State:   lipgloss.NewStyle().Foreground(t.Dim),
		User:    lipgloss.NewStyle().Bold(true),
		Model:   lipgloss.NewStyle().Foreground(t.Primary),
		Help:    lipgloss.NewStyle().Foreground(t.Dim),
		Alert:   lipgloss.NewStyle().Bold(true).Foreground(t.Alert),
		Partial: lipgloss.NewStyle().Italic(true).Foreground(t.Dim),
	}
}

// meterWidth is the character width of the level meter.
const meterWidth = 20

// Meter renders an input level bar for an RMS value in [0, 1].
func (s Styles) Meter(rms float64) string {
	if rms < 0 {
		rms = 0
	}
	if rms > 1 {
		rms = 1
	}
	filled := int(rms * meterWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	return s.Label.Render("mic ") + s.State.Render(bar)
}

// StateBadge renders a lifecycle state tag.
func (s Styles) StateBadge(state string) string {
	return s.State.Render("[" + state + "]")
}

// CaptionLine renders one finalized transcript line for a role.
func (s Styles) CaptionLine(role, text string) string {
	switch role {
	case "user":
		return s.User.Render("you  ") + text
	default:
		return s.Model.Render("model") + " " + text
	}
}
