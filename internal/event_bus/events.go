package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const ManualValueUpdatedEvent EventType = "manual_value.updated"

// ManualValueUpdated is published after a row was overwritten.
type ManualValueUpdated struct {
	RowId        int64
	InitialValue decimal.NullDecimal
	Expense      decimal.NullDecimal
	Remainder    decimal.NullDecimal
	ChangeTime   *time.Time
}
