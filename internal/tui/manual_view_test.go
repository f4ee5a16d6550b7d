package tui

import (
	"testing"
	"time"

	"github.com/asutp/flowdesk/internal/utils"
	"github.com/asutp/flowdesk/pkg/manual_value"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualRow(id int64, initialValue, expense, remainder string, changeTime time.Time) manual_value.Row {
	return manual_value.Row{
		RowId: id,
		Values: manual_value.Values{
			InitialValue: decimal.NewNullDecimal(decimal.RequireFromString(initialValue)),
			Expense:      decimal.NewNullDecimal(decimal.RequireFromString(expense)),
			Remainder:    decimal.NewNullDecimal(decimal.RequireFromString(remainder)),
			ChangeTime:   &changeTime,
		},
	}
}

func setupManualView(t *testing.T) (ManualView, *manual_value.ClientStub) {
	t.Helper()
	stub := manual_value.NewClientStub()
	stub.SetRows("2025-02-01", []manual_value.Row{
		manualRow(1, "100.6", "20", "80", time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)),
		manualRow(3, "5", "1", "4", time.Date(2025, 2, 1, 18, 30, 0, 0, time.UTC)),
	})
	stub.SetRows("2025-02-02", []manual_value.Row{
		manualRow(2, "50", "5", "45", time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC)),
	})
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))
	return NewManualView(stub, clock), stub
}

func loadManualView(t *testing.T, v ManualView) ManualView {
	t.Helper()
	v, _ = v.Update(v.Init()())
	require.False(t, v.loading)
	return v
}

func runManualSave(t *testing.T, v ManualView) ManualView {
	t.Helper()
	v, cmd := v.Update(keyOf(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(manualSavedMsg)
	require.True(t, ok)
	v, _ = v.Update(msg)
	return v
}

func rowIds(rows []manual_value.Row) []int64 {
	ids := []int64{}
	for _, r := range rows {
		ids = append(ids, r.RowId)
	}
	return ids
}

func TestManualView_Load(t *testing.T) {
	t.Run("should load today's rows on start", func(t *testing.T) {
		v, _ := setupManualView(t)

		assert.Equal(t, "2025-02-01", v.dateInput.Value())
		v = loadManualView(t, v)

		assert.Equal(t, []int64{1, 3}, rowIds(v.Rows()))
	})

	t.Run("should render values rounded to whole numbers", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		view := v.View(NewTheme(ModeLight))

		assert.Contains(t, view, "101")
		assert.NotContains(t, view, "100.6")
		assert.Contains(t, view, "2025-02-01 10:00:00")
	})

	t.Run("should load another date entered in the date input", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("d"))
		require.True(t, v.Capturing())
		v.dateInput.SetValue("2025-02-02")
		v, cmd := v.Update(keyOf(tea.KeyEnter))
		require.NotNil(t, cmd)
		assert.True(t, v.loading)
		v, _ = v.Update(cmd())

		assert.False(t, v.Capturing())
		assert.Equal(t, []int64{2}, rowIds(v.Rows()))
	})

	t.Run("should reject a malformed date without loading", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("d"))
		v.dateInput.SetValue("2025-13-01")
		v, cmd := v.Update(keyOf(tea.KeyEnter))

		assert.Nil(t, cmd)
		assert.True(t, v.Capturing())
		assert.Equal(t, "2025-02-01", v.date)
		assert.Contains(t, v.View(NewTheme(ModeLight)), "ГГГГ-ММ-ДД")
	})

	t.Run("should ignore results for a date no longer selected", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(manualLoadedMsg{date: "2025-02-02", rows: []manual_value.Row{{RowId: 2}}})

		assert.Equal(t, []int64{1, 3}, rowIds(v.Rows()))
	})

	t.Run("should show no data for an empty date", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("d"))
		v.dateInput.SetValue("2024-01-01")
		v, cmd := v.Update(keyOf(tea.KeyEnter))
		v, _ = v.Update(cmd())

		assert.Empty(t, v.Rows())
		assert.Contains(t, v.View(NewTheme(ModeLight)), "Нет данных")
	})

	t.Run("should report a failed load", func(t *testing.T) {
		v, stub := setupManualView(t)
		stub.SetGetByDateError(manual_value.ErrClientTestError)

		v = loadManualView(t, v)

		assert.Contains(t, v.View(NewTheme(ModeLight)), "Не удалось загрузить данные")
	})
}

func TestManualView_CursorBlink(t *testing.T) {
	t.Run("should blink the date cursor while the date input is focused", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)
		v, focusCmd := v.Update(keyRunes("d"))
		require.NotNil(t, focusCmd)
		require.False(t, v.dateInput.Cursor.Blink)

		v, next := v.Update(focusCmd())

		assert.True(t, v.dateInput.Cursor.Blink)
		assert.NotNil(t, next)
	})

	t.Run("should start blinking in the opened editor", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)
		v, blinkCmd := v.Update(keyRunes("e"))
		require.NotNil(t, blinkCmd)

		_, next := v.Update(blinkCmd())

		assert.NotNil(t, next)
	})
}

func TestManualView_Edit(t *testing.T) {
	t.Run("should seed raw values", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("e"))

		require.True(t, v.editor.editing("1"))
		assert.Equal(t, map[string]string{
			fieldInitialValue: "100.6",
			fieldExpense:      "20",
			fieldRemainder:    "80",
		}, v.editor.draft())
	})

	t.Run("should send all values and keep change_time", func(t *testing.T) {
		v, stub := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("e"))
		v, _ = v.Update(keyOf(tea.KeyTab))
		v = press(v, "5")
		v = runManualSave(t, v)

		updated, ok := stub.Updated(1)
		require.True(t, ok)
		assert.Equal(t, "100.6", updated.InitialValue.Decimal.String())
		assert.Equal(t, "205", updated.Expense.Decimal.String())
		assert.Equal(t, "80", updated.Remainder.Decimal.String())
		require.NotNil(t, updated.ChangeTime)
		assert.Equal(t, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), *updated.ChangeTime)

		assert.False(t, v.editor.active())
		assert.Equal(t, "205", v.Rows()[0].Expense.Decimal.String())
		assert.Contains(t, v.View(NewTheme(ModeLight)), "Сохранено")
	})

	t.Run("should send an emptied field as null", func(t *testing.T) {
		v, stub := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("e"))
		v, _ = v.Update(keyOf(tea.KeyTab))
		v, _ = v.Update(keyOf(tea.KeyBackspace))
		v, _ = v.Update(keyOf(tea.KeyBackspace))
		v = runManualSave(t, v)

		updated, ok := stub.Updated(1)
		require.True(t, ok)
		assert.False(t, updated.Expense.Valid)
		assert.True(t, updated.InitialValue.Valid)
	})

	t.Run("should leave rows untouched on cancel", func(t *testing.T) {
		v, stub := setupManualView(t)
		v = loadManualView(t, v)
		before := v.Rows()

		v, _ = v.Update(keyRunes("e"))
		v = press(v, "999")
		v, cmd := v.Update(keyOf(tea.KeyEsc))

		assert.Nil(t, cmd)
		assert.False(t, v.editor.active())
		assert.Equal(t, before, v.Rows())
		assert.Zero(t, stub.UpdatesCount())
	})

	t.Run("should keep the draft when the update fails", func(t *testing.T) {
		v, stub := setupManualView(t)
		v = loadManualView(t, v)
		stub.SetUpdateRowError(manual_value.ErrClientTestError)

		v, _ = v.Update(keyRunes("e"))
		v = press(v, "1")
		v = runManualSave(t, v)

		assert.True(t, v.editor.editing("1"))
		assert.Equal(t, "100.61", v.editor.value(fieldInitialValue))
		assert.Equal(t, "100.6", v.Rows()[0].InitialValue.Decimal.String())
		assert.Contains(t, v.View(NewTheme(ModeLight)), "Ошибка обновления данных")
	})

	t.Run("should switch the edit to the newly selected row", func(t *testing.T) {
		v, _ := setupManualView(t)
		v = loadManualView(t, v)

		v, _ = v.Update(keyRunes("e"))
		v = press(v, "7")
		v, _ = v.Update(keyOf(tea.KeyDown))
		v, _ = v.Update(keyRunes("e"))

		assert.False(t, v.editor.editing("1"))
		assert.True(t, v.editor.editing("3"))
		assert.Equal(t, "5", v.editor.value(fieldInitialValue))
	})
}
