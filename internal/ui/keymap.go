package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Form navigation
	Tab      key.Binding
	ShiftTab key.Binding
	Submit   key.Binding

	// Results
	Up          key.Binding
	Down        key.Binding
	SwitchPanel key.Binding
	Export      key.Binding
	Rerun       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Tab: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "suggest trades"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		SwitchPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "save files"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rerun"),
		),
	}
}

// FormHelp returns the bindings shown on the input screen
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.Tab, k.ShiftTab, k.Submit, k.Quit}
}

// ResultsHelp returns the bindings shown on the results screen
func (k KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchPanel, k.Export, k.Rerun, k.Back, k.Quit}
}
