package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings of the fragment picker.
type KeyMap struct {
	// Up moves the cursor up.
	Up key.Binding

	// Down moves the cursor down.
	Down key.Binding

	// Toggle selects or deselects the fragment under the cursor.
	Toggle key.Binding

	// Case cycles the case policy.
	Case key.Binding

	// Sanitize cycles the sanitization policy.
	Sanitize key.Binding

	// Edit opens the filename for manual editing.
	Edit key.Binding

	// Confirm renames the file to the previewed name.
	Confirm key.Binding

	// Cancel skips the file.
	Cancel key.Binding

	// Abort stops the whole run.
	Abort key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Case: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "case"),
		),
		Sanitize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sanitize"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit name"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "rename"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip"),
		),
		Abort: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Case, k.Sanitize, k.Edit, k.Confirm, k.Cancel, k.Abort}
}
