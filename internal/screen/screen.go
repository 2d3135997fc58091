// Package screen declares what the router needs from a terminal screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/ui/layout"
)

// Screen is one page of the terminal UI. The app owns the header and the
// footer; a screen only draws the area between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown in the header while the screen is on top.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints, for
// instance when its focus moves between an answer box and a menu.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
