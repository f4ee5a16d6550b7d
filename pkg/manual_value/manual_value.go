package manual_value

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ChangeTimeLayout is the wire format of change_time.
const ChangeTimeLayout = "2006-01-02 15:04:05"

var ErrInvalidChangeTime = errors.New("invalid change_time")

var changeTimeLayouts = []string{
	ChangeTimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// Row is a single per-day manual value record. Numeric fields and ChangeTime
// are nullable in the store because a PUT writes whatever the caller sent.
type Row struct {
	RowId int64
	Values
}

// Values are the four columns replaced by an update.
type Values struct {
	InitialValue decimal.NullDecimal
	Expense      decimal.NullDecimal
	Remainder    decimal.NullDecimal
	ChangeTime   *time.Time
}

// ParseChangeTime accepts ChangeTimeLayout, ISO local time, RFC3339 and a bare date.
func ParseChangeTime(s string) (time.Time, error) {
	for _, layout := range changeTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidChangeTime, s)
}

// SameDay reports whether the row's change_time falls on the calendar date of day.
func (r Row) SameDay(day time.Time) bool {
	if r.ChangeTime == nil {
		return false
	}
	y1, m1, d1 := r.ChangeTime.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
