package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewInventory key.Binding
	ViewService   key.Binding
	ViewLog       key.Binding
	ViewActivity  key.Binding

	// Actions
	ToggleOnline key.Binding
	ForceSync    key.Binding
	Check        key.Binding
	AddAED       key.Binding
	EditAED      key.Binding
	Search       key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Forms
	Confirm    key.Binding
	NextOption key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / clear search"),
		),

		ViewInventory: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Inventory"),
		),
		ViewService: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Service"),
		),
		ViewLog: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Submissions"),
		),
		ViewActivity: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Activity"),
		),

		ToggleOnline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle online"),
		),
		ForceSync: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Sync now"),
		),
		Check: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Monthly check"),
		),
		AddAED: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add AED"),
		),
		EditAED: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Edit AED"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("right", "left", " "),
			key.WithHelp("←/→", "Change option"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Check, k.Search, k.ToggleOnline, k.ForceSync, k.Tab, k.Help}
}

// FullHelp returns key bindings for the help overlay, one group per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewInventory, k.ViewService, k.ViewLog, k.ViewActivity, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Check, k.AddAED, k.EditAED, k.Search, k.ToggleOnline, k.ForceSync},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
