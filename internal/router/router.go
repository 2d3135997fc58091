// Package router keeps the stack of terminal screens: setup at the
// bottom, then the interview or chart screen opened from it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/ui/layout"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the previous screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen, e.g. when a chart is regenerated.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

var (
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	nestedHints = []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
)

// Router owns the screen stack. The root screen is never popped.
type Router struct {
	screens []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{screens: []screen.Screen{root}}
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.screens = append(r.screens, s)
	return s.Init()
}

func (r *Router) Pop() {
	if len(r.screens) > 1 {
		r.screens[len(r.screens)-1] = nil
		r.screens = r.screens[:len(r.screens)-1]
	}
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.screens[len(r.screens)-1] = s
	return s.Init()
}

// Back returns a command that pops the top screen, or nil on the root.
func (r *Router) Back() tea.Cmd {
	if len(r.screens) < 2 {
		return nil
	}
	return func() tea.Msg { return PopScreenMsg{} }
}

func (r *Router) Active() screen.Screen {
	return r.screens[len(r.screens)-1]
}

func (r *Router) Depth() int {
	return len(r.screens)
}

// Title is the active screen's title.
func (r *Router) Title() string {
	return r.Active().Title()
}

// KeyHints returns the active screen's footer hints, falling back to
// generic navigation hints for the current depth.
func (r *Router) KeyHints() []layout.KeyHint {
	if p, ok := r.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if len(r.screens) > 1 {
		return nestedHints
	}
	return rootHints
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		r.Pop()
		return nil
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	next, cmd := r.Active().Update(msg)
	r.screens[len(r.screens)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
