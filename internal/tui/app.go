package tui

import (
	"strings"
	"time"

	"github.com/asutp/flowdesk/internal/utils"
	"github.com/asutp/flowdesk/pkg/manual_value"
	"github.com/asutp/flowdesk/pkg/widget"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type View int

const (
	ViewWidget View = iota
	ViewManual
)

type Options struct {
	WidgetClient widget.Client
	WidgetId     int
	ManualClient manual_value.Client
	Clock        utils.Clock
	MinLoading   time.Duration
	Debounce     time.Duration
	Mode         Mode
}

// Model is the root bubbletea model. It owns the theme and routes input to the active view.
type Model struct {
	theme   Theme
	active  View
	widgets WidgetView
	manual  ManualView
}

func New(opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return Model{
		theme:   NewTheme(opts.Mode),
		active:  ViewWidget,
		widgets: NewWidgetView(opts.WidgetClient, opts.WidgetId, opts.MinLoading, opts.Debounce),
		manual:  NewManualView(opts.ManualClient, clock),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.widgets.Init(), m.manual.Init())
}

func (m Model) Theme() Theme { return m.theme }

func (m Model) Active() View { return m.active }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Theme):
				m.theme = m.theme.Toggle()
				return m, nil
			case key.Matches(msg, keys.SwitchView):
				if m.active == ViewWidget {
					m.active = ViewManual
				} else {
					m.active = ViewWidget
				}
				return m, nil
			}
		}
		var cmd tea.Cmd
		if m.active == ViewWidget {
			m.widgets, cmd = m.widgets.Update(msg)
		} else {
			m.manual, cmd = m.manual.Update(msg)
		}
		return m, cmd
	}

	// Results and ticks are addressed by type, so every view sees them and ignores what is not its own.
	var widgetCmd, manualCmd tea.Cmd
	m.widgets, widgetCmd = m.widgets.Update(msg)
	m.manual, manualCmd = m.manual.Update(msg)
	return m, tea.Batch(widgetCmd, manualCmd)
}

func (m Model) capturing() bool {
	if m.active == ViewWidget {
		return m.widgets.Capturing()
	}
	return m.manual.Capturing()
}

func (m Model) View() string {
	tabs := []string{m.tab("Виджет", ViewWidget), m.tab("Ручной ввод", ViewManual)}
	header := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, "   "),
		m.theme.Muted.Render("   тема: "+m.theme.Mode.String()))

	var body string
	if m.active == ViewWidget {
		body = m.widgets.View(m.theme)
	} else {
		body = m.manual.View(m.theme)
	}
	return header + "\n\n" + body + "\n"
}

func (m Model) tab(label string, view View) string {
	if m.active == view {
		return m.theme.Tab.Render(label)
	}
	return m.theme.TabOff.Render(label)
}
