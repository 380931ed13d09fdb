package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Overlay is a modal surface drawn over the main layout. Update returns nil
// when the overlay closed itself.
type Overlay interface {
	Init() tea.Cmd
	Update(tea.Msg) (Overlay, tea.Cmd)
	View() (string, *tea.Cursor)
	SetSize(width, height int)
}

// Focusable is implemented by components that track keyboard focus.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}
