package ui

import tea "github.com/charmbracelet/bubbletea"

// View is implemented by the card grid and every modal. Update returns the
// view to keep, which lets a modal replace itself.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
