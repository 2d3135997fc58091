// Package theme holds the colours and styles shared by the terminal screens.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#10B981") // emerald
	Accent    = lipgloss.Color("#F97316") // orange
	Warning   = lipgloss.Color("#FACC15")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8B95A7")
	BgCard    = lipgloss.Color("#1C2333")
	Border    = lipgloss.Color("#3A4458")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Heading  = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Hint     = lipgloss.NewStyle().Italic(true).Foreground(TextDim)

	Selected = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Dimmed   = lipgloss.NewStyle().Foreground(TextDim)

	WarningText = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	ErrorText   = lipgloss.NewStyle().Bold(true).Foreground(Error)
)

// Card frames the setup form.
var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// QuestionPanel and ResultPanel frame the stored question and the reply
// to the latest action.
var (
	QuestionPanel = panel(Primary)
	ResultPanel   = panel(Secondary)
)

func panel(edge color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge).
		Padding(0, 1)
}
