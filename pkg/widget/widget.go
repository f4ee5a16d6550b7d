package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type FlowKind int

const (
	FlowNull FlowKind = iota
	// FlowFalse marks a disabled flow. It is distinct from a missing one.
	FlowFalse
	FlowTrue
	FlowNumber
	FlowText
)

// Flow is one of the in/out/rem values of a position: a number, false, a string or null.
type Flow struct {
	Kind   FlowKind
	Number decimal.Decimal
	Text   string
}

func NullFlow() Flow { return Flow{Kind: FlowNull} }

func FalseFlow() Flow { return Flow{Kind: FlowFalse} }

func NumberFlow(d decimal.Decimal) Flow { return Flow{Kind: FlowNumber, Number: d} }

func TextFlow(s string) Flow { return Flow{Kind: FlowText, Text: s} }

// Display is the text shown in a table cell.
func (f Flow) Display() string {
	switch f.Kind {
	case FlowFalse:
		return "false"
	case FlowTrue:
		return "true"
	case FlowNumber:
		return f.Number.String()
	case FlowText:
		return f.Text
	default:
		return ""
	}
}

// EditValue seeds an edit input; null and false both start empty.
func (f Flow) EditValue() string {
	switch f.Kind {
	case FlowNull, FlowFalse:
		return ""
	default:
		return f.Display()
	}
}

// FlowFromInput converts an edited value back: empty stays an empty string, anything else is a number.
func FlowFromInput(s string) (Flow, error) {
	if s == "" {
		return TextFlow(""), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Flow{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return NumberFlow(d), nil
}

func (f Flow) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FlowFalse:
		return []byte("false"), nil
	case FlowTrue:
		return []byte("true"), nil
	case FlowNumber:
		return []byte(f.Number.String()), nil
	case FlowText:
		return json.Marshal(f.Text)
	default:
		return []byte("null"), nil
	}
}

func (f *Flow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = NullFlow()
	case bytes.Equal(data, []byte("false")):
		*f = FalseFlow()
	case bytes.Equal(data, []byte("true")):
		*f = Flow{Kind: FlowTrue}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = TextFlow(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("invalid flow value %s: %w", data, err)
		}
		*f = NumberFlow(d)
	}
	return nil
}

// PosItem is one named position of a widget.
// Ids and names are nullable upstream and are sent back as received, together with
// any members this struct does not model.
type PosItem struct {
	Name    string  `json:"name"`
	InId    *int    `json:"in_id"`
	InName  *string `json:"in_name"`
	InFlow  Flow    `json:"in_flow"`
	OutId   *int    `json:"out_id"`
	OutName *string `json:"out_name"`
	OutFlow Flow    `json:"out_flow"`
	RemId   *int    `json:"rem_id"`
	RemName *string `json:"rem_name"`
	RemFlow Flow    `json:"rem_flow"`

	extra map[string]json.RawMessage
}

var posItemKeys = []string{
	"name",
	"in_id", "in_name", "in_flow",
	"out_id", "out_name", "out_flow",
	"rem_id", "rem_name", "rem_flow",
}

type plainPosItem PosItem

func (p *PosItem) UnmarshalJSON(data []byte) error {
	var known plainPosItem
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for _, key := range posItemKeys {
		delete(members, key)
	}
	if len(members) > 0 {
		known.extra = members
	}
	*p = PosItem(known)
	return nil
}

func (p PosItem) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(plainPosItem(p))
	if err != nil || len(p.extra) == 0 {
		return known, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(known, &members); err != nil {
		return nil, err
	}
	for key, value := range p.extra {
		if _, ok := members[key]; !ok {
			members[key] = value
		}
	}
	return json.Marshal(members)
}

type Data struct {
	Widget int       `json:"widget"`
	Pos    []PosItem `json:"pos"`
	Date   string    `json:"date"`
}

// IndexOf returns the position of the item named name, or -1.
// Updates address items by this index, so it must be resolved against the unfiltered list.
func (d Data) IndexOf(name string) int {
	for i, item := range d.Pos {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Filter returns the items whose name contains term, ignoring case.
func (d Data) Filter(term string) []PosItem {
	term = strings.ToLower(term)
	result := make([]PosItem, 0, len(d.Pos))
	for _, item := range d.Pos {
		if strings.Contains(strings.ToLower(item.Name), term) {
			result = append(result, item)
		}
	}
	return result
}
