package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Edit       key.Binding
	Save       key.Binding
	Cancel     key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Search     key.Binding
	Date       key.Binding
	SwitchView key.Binding
	Theme      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "вверх")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "вниз")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "изменить")),
	Save:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "сохранить")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "отмена")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "след. поле")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "пред. поле")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "поиск")),
	Date:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "дата")),
	SwitchView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "таблица")),
	Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "тема")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "выход")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
}
