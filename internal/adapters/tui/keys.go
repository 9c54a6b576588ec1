package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the timer screen bindings.
type keyMap struct {
	Toggle      key.Binding
	Reset       key.Binding
	Pomodoro    key.Binding
	EndPomodoro key.Binding
	Presets     key.Binding
	Plan        key.Binding
	Quick       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Pomodoro: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pomodoro"),
		),
		EndPomodoro: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "end pomodoro"),
		),
		Presets: key.NewBinding(
			key.WithKeys("d", "/"),
			key.WithHelp("d", "duration"),
		),
		Plan: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "plan"),
		),
		Quick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "preset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Presets, k.Pomodoro, k.EndPomodoro, k.Plan, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Presets, k.Quick},
		{k.Pomodoro, k.EndPomodoro, k.Plan, k.Quit},
	}
}
