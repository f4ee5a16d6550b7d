package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type debounceMsg struct {
	seq   int
	value string
}

// debouncer delays a value until no newer trigger arrived for the whole window.
// Every trigger bumps seq; only the tick carrying the latest seq is settled.
type debouncer struct {
	window time.Duration
	seq    int
}

func newDebouncer(window time.Duration) debouncer {
	return debouncer{window: window}
}

func (d *debouncer) trigger(value string) tea.Cmd {
	d.seq++
	seq := d.seq
	return tea.Tick(d.window, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, value: value}
	})
}

func (d debouncer) settled(msg debounceMsg) bool {
	return msg.seq == d.seq
}
