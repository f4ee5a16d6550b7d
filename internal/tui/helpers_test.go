package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

type updater[V any] interface {
	Update(tea.Msg) (V, tea.Cmd)
}

// press feeds each rune of input to v as its own keystroke.
func press[V updater[V]](v V, input string) V {
	for _, r := range input {
		v, _ = v.Update(keyRunes(string(r)))
	}
	return v
}
