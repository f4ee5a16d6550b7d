package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asutp/flowdesk/internal/utils"
	"github.com/asutp/flowdesk/pkg/manual_value"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type manualLoadedMsg struct {
	date string
	rows []manual_value.Row
	err  error
}

type manualSavedMsg struct {
	id     int64
	values manual_value.Values
	err    error
}

const (
	fieldInitialValue = "initial_value"
	fieldExpense      = "expense"
	fieldRemainder    = "remainder"
)

var manualColumns = []int{8, 20, 14, 14, 21, 26}

// ManualView lists the manual values of one date and edits them in place.
type ManualView struct {
	client manual_value.Client

	dateInput   textinput.Model
	dateFocused bool
	date        string
	loading     bool
	loadErr     error
	rows        []manual_value.Row

	cursor int
	editor rowEditor
	saving bool
	status status
	help   help.Model
}

func NewManualView(client manual_value.Client, clock utils.Clock) ManualView {
	today := utils.Today(clock)

	dateInput := textinput.New()
	dateInput.Prompt = "Дата: "
	dateInput.Placeholder = utils.DateLayout
	dateInput.CharLimit = len(utils.DateLayout)
	dateInput.SetValue(today)

	return ManualView{
		client:    client,
		dateInput: dateInput,
		date:      today,
		loading:   true,
		help:      help.New(),
	}
}

func (v ManualView) Init() tea.Cmd {
	return v.load(v.date)
}

func (v ManualView) load(date string) tea.Cmd {
	client := v.client
	return func() tea.Msg {
		rows, err := client.GetByDate(context.Background(), date)
		return manualLoadedMsg{date: date, rows: rows, err: err}
	}
}

func (v ManualView) Capturing() bool {
	return v.dateFocused || v.editor.active()
}

func (v ManualView) Rows() []manual_value.Row {
	return v.rows
}

func (v ManualView) Update(msg tea.Msg) (ManualView, tea.Cmd) {
	switch msg := msg.(type) {
	case manualLoadedMsg:
		if msg.date != v.date {
			return v, nil
		}
		v.loading = false
		v.loadErr = msg.err
		if msg.err != nil {
			log.Errorf("failed to load manual values for %s: %v", msg.date, msg.err)
			v.rows = nil
		} else {
			v.rows = msg.rows
		}
		v.clampCursor()
		return v, nil

	case manualSavedMsg:
		return v.saved(msg), nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.forward(msg)
}

func (v ManualView) forward(msg tea.Msg) (ManualView, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case v.editor.active():
		cmd = v.editor.update(msg)
	case v.dateFocused:
		v.dateInput, cmd = v.dateInput.Update(msg)
	}
	return v, cmd
}

func (v ManualView) handleKey(msg tea.KeyMsg) (ManualView, tea.Cmd) {
	if v.editor.active() {
		return v.handleEditKey(msg)
	}
	if v.dateFocused {
		return v.handleDateKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Up):
		v.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		v.moveCursor(1)
	case key.Matches(msg, keys.Date):
		v.dateFocused = true
		cmd := v.dateInput.Focus()
		return v, cmd
	case key.Matches(msg, keys.Edit):
		return v.beginEdit()
	}
	return v, nil
}

func (v ManualView) handleDateKey(msg tea.KeyMsg) (ManualView, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		v.dateFocused = false
		v.dateInput.Blur()
		v.dateInput.SetValue(v.date)
		return v, nil
	case key.Matches(msg, keys.Save):
		date := strings.TrimSpace(v.dateInput.Value())
		if _, err := time.Parse(utils.DateLayout, date); err != nil {
			v.status = errorStatus("Дата должна быть в формате ГГГГ-ММ-ДД")
			return v, nil
		}
		v.dateFocused = false
		v.dateInput.Blur()
		v.date = date
		v.loading = true
		v.cursor = 0
		v.status = status{}
		return v, v.load(date)
	}
	var cmd tea.Cmd
	v.dateInput, cmd = v.dateInput.Update(msg)
	return v, cmd
}

func (v ManualView) handleEditKey(msg tea.KeyMsg) (ManualView, tea.Cmd) {
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

func rowKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (v ManualView) beginEdit() (ManualView, tea.Cmd) {
	if len(v.rows) == 0 || v.saving {
		return v, nil
	}
	row := v.rows[v.cursor]
	if v.editor.editing(rowKey(row.RowId)) {
		return v, nil
	}
	if v.editor.begin(rowKey(row.RowId), []editorField{
		{Key: fieldInitialValue, Value: editSeed(row.InitialValue)},
		{Key: fieldExpense, Value: editSeed(row.Expense)},
		{Key: fieldRemainder, Value: editSeed(row.Remainder)},
	}) {
		log.Debugf("discarded unsaved edit to switch to row %d", row.RowId)
	}
	v.status = status{}
	return v, textinput.Blink
}

// save sends the draft as a full replacement; empty inputs become null and change_time is kept.
func (v ManualView) save() (ManualView, tea.Cmd) {
	if v.saving {
		return v, nil
	}
	id, err := strconv.ParseInt(v.editor.rowKey, 10, 64)
	if err != nil {
		return v, nil
	}
	current, ok := v.rowById(id)
	if !ok {
		v.status = errorStatus(fmt.Sprintf("Строка %d не найдена", id))
		return v, nil
	}

	draft := v.editor.draft()
	values := manual_value.Values{ChangeTime: current.ChangeTime}
	targets := []struct {
		field string
		value *decimal.NullDecimal
	}{
		{fieldInitialValue, &values.InitialValue},
		{fieldExpense, &values.Expense},
		{fieldRemainder, &values.Remainder},
	}
	for _, target := range targets {
		input := draft[target.field]
		if input == "" {
			continue
		}
		d, err := decimal.NewFromString(input)
		if err != nil {
			v.status = errorStatus("Некорректное число: " + input)
			return v, nil
		}
		*target.value = decimal.NewNullDecimal(d)
	}

	v.saving = true
	client := v.client
	return v, func() tea.Msg {
		err := client.UpdateRow(context.Background(), id, values)
		return manualSavedMsg{id: id, values: values, err: err}
	}
}

func (v ManualView) saved(msg manualSavedMsg) ManualView {
	v.saving = false
	if msg.err != nil {
		log.Errorf("failed to update manual value %d: %v", msg.id, msg.err)
		v.status = errorStatus("Ошибка обновления данных")
		return v
	}
	rows := make([]manual_value.Row, len(v.rows))
	copy(rows, v.rows)
	for i := range rows {
		if rows[i].RowId == msg.id {
			rows[i].Values = msg.values
		}
	}
	v.rows = rows
	if v.editor.editing(rowKey(msg.id)) {
		v.editor.cancel()
	}
	v.status = okStatus("Сохранено")
	return v
}

func (v ManualView) rowById(id int64) (manual_value.Row, bool) {
	for _, row := range v.rows {
		if row.RowId == id {
			return row, true
		}
	}
	return manual_value.Row{}, false
}

func (v *ManualView) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

func (v *ManualView) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v ManualView) View(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Ручной ввод"))
	b.WriteString("\n")
	b.WriteString(v.dateInput.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(theme.Muted.Render("Загрузка..."))
		b.WriteString("\n")
	case v.loadErr != nil:
		b.WriteString(theme.Error.Render("Не удалось загрузить данные"))
		b.WriteString("\n")
	case len(v.rows) == 0:
		b.WriteString(theme.Muted.Render("Нет данных"))
		b.WriteString("\n")
	default:
		b.WriteString(theme.Header.Render(tableLine([]string{
			"ID", "Начальное значение", "Расход", "Остаток", "Время изменения", "Действия",
		}, manualColumns)))
		b.WriteString("\n")
		for i, row := range v.rows {
			b.WriteString(v.renderRow(theme, i, row))
			b.WriteString("\n")
		}
	}

	if line := v.status.render(theme); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	b.WriteString("\n" + v.help.ShortHelpView(v.helpKeys()))
	return b.String()
}

func (v ManualView) renderRow(theme Theme, i int, row manual_value.Row) string {
	id := rowKey(row.RowId)
	if v.editor.editing(id) {
		return theme.Editing.Render(tableLine([]string{
			id,
			v.editor.inputView(fieldInitialValue),
			v.editor.inputView(fieldExpense),
			v.editor.inputView(fieldRemainder),
			formatChangeTime(row),
			"enter сохранить · esc отмена",
		}, manualColumns))
	}
	line := tableLine([]string{
		id,
		formatRounded(row.InitialValue),
		formatRounded(row.Expense),
		formatRounded(row.Remainder),
		formatChangeTime(row),
		"",
	}, manualColumns)
	if i == v.cursor {
		return theme.Selected.Render(line)
	}
	return theme.Cell.Render(line)
}

func (v ManualView) helpKeys() []key.Binding {
	switch {
	case v.editor.active():
		return []key.Binding{keys.Save, keys.Cancel, keys.NextField}
	case v.dateFocused:
		return []key.Binding{keys.Save, keys.Cancel}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Edit, keys.Date, keys.SwitchView, keys.Theme, keys.Quit}
}
