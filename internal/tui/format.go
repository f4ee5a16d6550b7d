package tui

import (
	"strings"

	"github.com/asutp/flowdesk/pkg/manual_value"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func formatRounded(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(0)
}

// editSeed is the raw value an input starts with; null starts empty.
func editSeed(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func formatChangeTime(row manual_value.Row) string {
	if row.ChangeTime == nil {
		return ""
	}
	return row.ChangeTime.Format(manual_value.ChangeTimeLayout)
}

// cell pads or truncates s to width.
func cell(s string, width int) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

func tableLine(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = cell(c, widths[i])
	}
	return strings.Join(parts, " │ ")
}
