// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Toggle flips the selected node in or out of the basket.
	Toggle key.Binding

	// NextLevel cycles the selector to the next hierarchy level.
	NextLevel key.Binding

	// Reset clears the working exclusion set.
	Reset key.Binding

	// NewIndex starts another calculation after a result.
	NewIndex key.Binding

	// ClearAndNew starts another calculation with a cleared exclusion set.
	ClearAndNew key.Binding

	// Finish ends the session and moves to the save step.
	Finish key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next level"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset exclusions"),
		),
		NewIndex: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "another index"),
		),
		ClearAndNew: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "another, cleared"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// SelectorHelp returns keybindings for the exclusion toggle view.
func (k *KeyMap) SelectorHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextLevel, k.Back}
}

// ResultHelp returns keybindings for the result view.
func (k *KeyMap) ResultHelp() []key.Binding {
	return []key.Binding{k.NewIndex, k.ClearAndNew, k.Finish}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Toggle, k.NextLevel, k.Reset},
		{k.NewIndex, k.ClearAndNew, k.Finish},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
