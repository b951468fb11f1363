package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	Logout     key.Binding
	Escape     key.Binding

	// View switching
	ViewClientes     key.Binding
	ViewAgendamentos key.Binding
	ViewLogs         key.Binding
	ViewSettings     key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	TestAPI   key.Binding
	ClearAPI  key.Binding

	// Tables and logs
	Search       key.Binding
	ToggleFollow key.Binding
	Up           key.Binding
	Down         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Log out"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		ViewClientes: key.NewBinding(
			key.WithKeys("1", "c"),
			key.WithHelp("1/c", "Clients"),
		),
		ViewAgendamentos: key.NewBinding(
			key.WithKeys("2", "a"),
			key.WithHelp("2/a", "Appointments"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3", "l"),
			key.WithHelp("3/l", "Log"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "Settings"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		TestAPI: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Test connection"),
		),
		ClearAPI: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Clear settings"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search clients"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewClientes, k.ViewAgendamentos, k.ViewLogs, k.ViewSettings, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewClientes, k.ViewAgendamentos, k.ViewLogs, k.ViewSettings, k.Escape},
		{k.Up, k.Down, k.Search, k.ToggleFollow, k.Refresh},
		{k.NextField, k.Submit, k.TestAPI, k.ClearAPI},
		{k.CycleTheme, k.Logout, k.Help, k.Quit},
	}
}

// formKeys is the footer help while a text field has focus.
type formKeys struct {
	keyMap
	settings bool
}

func (f formKeys) ShortHelp() []key.Binding {
	if f.settings {
		return []key.Binding{f.NextField, f.Submit, f.TestAPI, f.ClearAPI, f.Escape}
	}
	return []key.Binding{f.NextField, f.Submit, f.ViewSettings}
}

func (f formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}
