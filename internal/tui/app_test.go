package tui

import (
	"testing"
	"time"

	"github.com/asutp/flowdesk/internal/utils"
	"github.com/asutp/flowdesk/pkg/manual_value"
	"github.com/asutp/flowdesk/pkg/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupModel(t *testing.T) Model {
	t.Helper()
	widgets := widget.NewClientStub()
	widgets.SetData(widgetScenario())
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))

	m := New(Options{
		WidgetClient: widgets,
		WidgetId:     testWidgetId,
		ManualClient: manual_value.NewClientStub(),
		Clock:        clock,
		MinLoading:   time.Millisecond,
		Debounce:     time.Millisecond,
		Mode:         ModeLight,
	})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got, cmd
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := setupModel(t)
	m, _ = update(t, m, m.widgets.fetch()())
	m, _ = update(t, m, minLoadingElapsedMsg{})
	m, _ = update(t, m, m.manual.Init()())
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel(t *testing.T) {
	t.Run("should start on the widget view in the loading state", func(t *testing.T) {
		m := setupModel(t)

		assert.Equal(t, ViewWidget, m.Active())
		assert.Contains(t, m.View(), "АСУ ТП")
	})

	t.Run("should route load results to their views", func(t *testing.T) {
		m := loadedModel(t)

		assert.Equal(t, stateLoaded, m.widgets.state)
		assert.False(t, m.manual.loading)
		assert.Contains(t, m.View(), "Steel Beam")
	})

	t.Run("should switch views with tab", func(t *testing.T) {
		m := loadedModel(t)

		m, _ = update(t, m, keyOf(tea.KeyTab))
		assert.Equal(t, ViewManual, m.Active())
		assert.Contains(t, m.View(), "Ручной ввод")

		m, _ = update(t, m, keyOf(tea.KeyTab))
		assert.Equal(t, ViewWidget, m.Active())
	})

	t.Run("should toggle the theme", func(t *testing.T) {
		m := loadedModel(t)

		m, _ = update(t, m, keyRunes("t"))
		assert.Equal(t, ModeDark, m.Theme().Mode)

		m, _ = update(t, m, keyRunes("t"))
		assert.Equal(t, ModeLight, m.Theme().Mode)
	})

	t.Run("should keep the theme across view switches", func(t *testing.T) {
		m := loadedModel(t)

		m, _ = update(t, m, keyRunes("t"))
		m, _ = update(t, m, keyOf(tea.KeyTab))

		assert.Equal(t, ModeDark, m.Theme().Mode)
		assert.Contains(t, m.View(), "тема: dark")
	})

	t.Run("should quit with q", func(t *testing.T) {
		m := loadedModel(t)

		_, cmd := update(t, m, keyRunes("q"))

		assert.True(t, isQuit(cmd))
	})

	t.Run("should send global keys to the search input while it is focused", func(t *testing.T) {
		m := loadedModel(t)
		m, _ = update(t, m, keyRunes("/"))

		m, cmd := update(t, m, keyRunes("t"))
		assert.False(t, isQuit(cmd))
		m, _ = update(t, m, keyRunes("q"))
		m, _ = update(t, m, keyOf(tea.KeyTab))

		assert.Equal(t, ModeLight, m.Theme().Mode)
		assert.Equal(t, ViewWidget, m.Active())
		assert.Equal(t, "tq", m.widgets.search.Value())
	})

	t.Run("should keep editing when tab is pressed in an editor", func(t *testing.T) {
		m := loadedModel(t)
		m, _ = update(t, m, keyRunes("e"))

		m, _ = update(t, m, keyOf(tea.KeyTab))

		assert.Equal(t, ViewWidget, m.Active())
		assert.Equal(t, fieldOutFlow, m.widgets.editor.focusedKey())
	})

	t.Run("should always quit with ctrl+c", func(t *testing.T) {
		m := loadedModel(t)
		m, _ = update(t, m, keyRunes("e"))

		_, cmd := update(t, m, keyOf(tea.KeyCtrlC))

		assert.True(t, isQuit(cmd))
	})
}

func TestTheme(t *testing.T) {
	light := NewTheme(ModeLight)

	dark := light.Toggle()

	assert.Equal(t, ModeDark, dark.Mode)
	assert.Equal(t, ModeLight, dark.Toggle().Mode)
	assert.Equal(t, "dark", dark.Mode.String())
	assert.Equal(t, "light", light.Mode.String())
}
