package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asutp/flowdesk/pkg/widget"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

type loadState int

const (
	stateLoading loadState = iota
	stateError
	stateLoaded
)

type widgetLoadedMsg struct {
	data widget.Data
	err  error
}

type minLoadingElapsedMsg struct{}

type widgetSavedMsg struct {
	name  string
	index int
	item  widget.PosItem
	err   error
}

const (
	fieldInFlow  = "in_flow"
	fieldOutFlow = "out_flow"
	fieldRemFlow = "rem_flow"
)

var widgetColumns = []int{28, 20, 20, 22, 26}

// WidgetView is the position table of one widget with search and inline editing.
type WidgetView struct {
	client     widget.Client
	widgetId   int
	minLoading time.Duration

	state   loadState
	fetched bool
	elapsed bool
	loadErr error
	data    widget.Data
	spinner spinner.Model

	search    textinput.Model
	searching bool
	debounce  debouncer
	term      string

	cursor int
	editor rowEditor
	saving bool
	status status
	help   help.Model
}

func NewWidgetView(client widget.Client, widgetId int, minLoading, debounceWindow time.Duration) WidgetView {
	s := spinner.New()
	s.Spinner = spinner.Dot

	search := textinput.New()
	search.Prompt = "Поиск: "
	search.Placeholder = "название"
	search.CharLimit = 64

	return WidgetView{
		client:     client,
		widgetId:   widgetId,
		minLoading: minLoading,
		state:      stateLoading,
		spinner:    s,
		search:     search,
		debounce:   newDebouncer(debounceWindow),
		help:       help.New(),
	}
}

// Init starts the fetch and the minimum loading delay together.
func (v WidgetView) Init() tea.Cmd {
	return tea.Batch(v.fetch(), v.minDelay(), v.spinner.Tick)
}

func (v WidgetView) fetch() tea.Cmd {
	client, widgetId := v.client, v.widgetId
	return func() tea.Msg {
		data, err := client.GetInit(context.Background(), widgetId)
		return widgetLoadedMsg{data: data, err: err}
	}
}

func (v WidgetView) minDelay() tea.Cmd {
	return tea.Tick(v.minLoading, func(time.Time) tea.Msg {
		return minLoadingElapsedMsg{}
	})
}

// Capturing reports whether keystrokes belong to an input rather than to global bindings.
func (v WidgetView) Capturing() bool {
	return v.searching || v.editor.active()
}

// Visible returns the positions matching the settled search term.
func (v WidgetView) Visible() []widget.PosItem {
	if v.term == "" {
		return v.data.Pos
	}
	return v.data.Filter(v.term)
}

func (v WidgetView) Update(msg tea.Msg) (WidgetView, tea.Cmd) {
	switch msg := msg.(type) {
	case widgetLoadedMsg:
		v.fetched = true
		v.loadErr = msg.err
		if msg.err != nil {
			log.Errorf("failed to load widget %d: %v", v.widgetId, msg.err)
		} else {
			v.data = msg.data
		}
		v.settleLoading()
		return v, nil

	case minLoadingElapsedMsg:
		v.elapsed = true
		v.settleLoading()
		return v, nil

	case spinner.TickMsg:
		if v.state != stateLoading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case debounceMsg:
		if v.debounce.settled(msg) {
			v.term = msg.value
			v.clampCursor()
		}
		return v, nil

	case widgetSavedMsg:
		return v.saved(msg), nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.forward(msg)
}

// forward hands any other message, cursor blinks included, to the focused input.
func (v WidgetView) forward(msg tea.Msg) (WidgetView, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case v.editor.active():
		cmd = v.editor.update(msg)
	case v.searching:
		v.search, cmd = v.search.Update(msg)
	}
	return v, cmd
}

// settleLoading leaves Loading only once both the fetch and the delay are done.
func (v *WidgetView) settleLoading() {
	if !v.fetched || !v.elapsed {
		return
	}
	if v.loadErr != nil {
		v.state = stateError
		return
	}
	v.state = stateLoaded
}

func (v WidgetView) handleKey(msg tea.KeyMsg) (WidgetView, tea.Cmd) {
	if v.editor.active() {
		return v.handleEditKey(msg)
	}
	if v.searching {
		return v.handleSearchKey(msg)
	}
	if v.state != stateLoaded {
		return v, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		v.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		v.moveCursor(1)
	case key.Matches(msg, keys.Search):
		v.searching = true
		cmd := v.search.Focus()
		return v, cmd
	case key.Matches(msg, keys.Edit):
		return v.beginEdit()
	}
	return v, nil
}

func (v WidgetView) handleSearchKey(msg tea.KeyMsg) (WidgetView, tea.Cmd) {
	if key.Matches(msg, keys.Save) || key.Matches(msg, keys.Cancel) {
		v.searching = false
		v.search.Blur()
		return v, nil
	}
	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if after := v.search.Value(); after != before {
		tick := v.debounce.trigger(after)
		return v, tea.Batch(cmd, tick)
	}
	return v, cmd
}

func (v WidgetView) handleEditKey(msg tea.KeyMsg) (WidgetView, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Save):
		return v.save()
	case key.Matches(msg, keys.Cancel):
		v.editor.cancel()
		v.status = status{}
		return v, nil
	case msg.Type == tea.KeyUp:
		v.moveCursor(-1)
		return v, nil
	case msg.Type == tea.KeyDown:
		v.moveCursor(1)
		return v, nil
	case key.Matches(msg, keys.Edit):
		return v.beginEdit()
	}
	cmd := v.editor.update(msg)
	return v, cmd
}

// beginEdit opens the editor on the selected position, dropping any other open edit.
func (v WidgetView) beginEdit() (WidgetView, tea.Cmd) {
	visible := v.Visible()
	if len(visible) == 0 || v.saving {
		return v, nil
	}
	item := visible[v.cursor]
	if v.editor.editing(item.Name) {
		return v, nil
	}
	if v.editor.begin(item.Name, []editorField{
		{Key: fieldInFlow, Value: item.InFlow.EditValue()},
		{Key: fieldOutFlow, Value: item.OutFlow.EditValue()},
		{Key: fieldRemFlow, Value: item.RemFlow.EditValue()},
	}) {
		log.Debugf("discarded unsaved edit to switch to %q", item.Name)
	}
	v.status = status{}
	return v, textinput.Blink
}

// save resolves the edited position by name against the unfiltered list and sends it.
func (v WidgetView) save() (WidgetView, tea.Cmd) {
	if v.saving {
		return v, nil
	}
	name := v.editor.rowKey
	index := v.data.IndexOf(name)
	if index < 0 {
		v.status = errorStatus(fmt.Sprintf("Позиция %q не найдена", name))
		return v, nil
	}

	item := v.data.Pos[index]
	draft := v.editor.draft()
	targets := []struct {
		field string
		flow  *widget.Flow
	}{
		{fieldInFlow, &item.InFlow},
		{fieldOutFlow, &item.OutFlow},
		{fieldRemFlow, &item.RemFlow},
	}
	for _, target := range targets {
		flow, err := widget.FlowFromInput(draft[target.field])
		if err != nil {
			v.status = errorStatus("Некорректное число: " + draft[target.field])
			return v, nil
		}
		*target.flow = flow
	}

	v.saving = true
	client, widgetId := v.client, v.widgetId
	return v, func() tea.Msg {
		err := client.UpdatePosition(context.Background(), widgetId, index, item)
		return widgetSavedMsg{name: name, index: index, item: item, err: err}
	}
}

func (v WidgetView) saved(msg widgetSavedMsg) WidgetView {
	v.saving = false
	if msg.err != nil {
		log.Errorf("failed to update position %q of widget %d: %v", msg.name, v.widgetId, msg.err)
		v.status = errorStatus("Ошибка обновления данных")
		return v
	}
	if msg.index < len(v.data.Pos) && v.data.Pos[msg.index].Name == msg.name {
		v.data.Pos[msg.index] = msg.item
	}
	if v.editor.editing(msg.name) {
		v.editor.cancel()
	}
	v.status = okStatus("Сохранено")
	return v
}

func (v *WidgetView) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

func (v *WidgetView) clampCursor() {
	n := len(v.Visible())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v WidgetView) View(theme Theme) string {
	switch v.state {
	case stateLoading:
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.Banner.Render("АСУ ТП"),
			v.spinner.View()+" "+theme.Muted.Render("Загрузка..."),
		)
	case stateError:
		return theme.Error.Render("404")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Виджет %d", v.data.Widget)))
	if v.data.Date != "" {
		b.WriteString(theme.Muted.Render("  " + v.data.Date))
	}
	b.WriteString("\n")
	b.WriteString(v.search.View())
	b.WriteString("\n\n")

	if len(v.data.Pos) == 0 {
		b.WriteString(theme.Muted.Render("Нет данных"))
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Header.Render(tableLine([]string{
			"Название", "Остаток на складу", "Направлено на склад", "Отгрузка потребителям", "Действия",
		}, widgetColumns)))
		b.WriteString("\n")
		for i, item := range v.Visible() {
			b.WriteString(v.renderItem(theme, i, item))
			b.WriteString("\n")
		}
	}

	if line := v.status.render(theme); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	b.WriteString("\n" + v.help.ShortHelpView(v.helpKeys()))
	return b.String()
}

func (v WidgetView) renderItem(theme Theme, i int, item widget.PosItem) string {
	if v.editor.editing(item.Name) {
		return theme.Editing.Render(tableLine([]string{
			item.Name,
			v.editor.inputView(fieldInFlow),
			v.editor.inputView(fieldOutFlow),
			v.editor.inputView(fieldRemFlow),
			"enter сохранить · esc отмена",
		}, widgetColumns))
	}
	line := tableLine([]string{
		item.Name, item.InFlow.Display(), item.OutFlow.Display(), item.RemFlow.Display(), "",
	}, widgetColumns)
	if i == v.cursor {
		return theme.Selected.Render(line)
	}
	return theme.Cell.Render(line)
}

func (v WidgetView) helpKeys() []key.Binding {
	switch {
	case v.editor.active():
		return []key.Binding{keys.Save, keys.Cancel, keys.NextField}
	case v.searching:
		return []key.Binding{keys.Save, keys.Cancel}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Edit, keys.Search, keys.SwitchView, keys.Theme, keys.Quit}
}
