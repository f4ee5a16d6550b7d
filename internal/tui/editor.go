package tui

import (
	"regexp"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var numericInput = regexp.MustCompile(`^\d*\.?\d*$`)

// minCharLimit bounds typing in a fresh field. Longer seeded values raise the limit to their own length.
const minCharLimit = 32

// ValidNumericInput reports whether s is an acceptable partial number: digits with at most one dot.
func ValidNumericInput(s string) bool {
	return numericInput.MatchString(s)
}

type editorField struct {
	Key   string
	Value string
}

// rowEditor is the single inline editor of a table. At most one row is in edit at a time.
type rowEditor struct {
	rowKey string
	keys   []string
	inputs []textinput.Model
	focus  int
}

// begin opens the editor on rowKey seeded with fields. An edit already open on
// another row is discarded; the return value reports whether that happened.
func (e *rowEditor) begin(rowKey string, fields []editorField) bool {
	discarded := e.active() && e.rowKey != rowKey
	e.rowKey = rowKey
	e.keys = make([]string, 0, len(fields))
	e.inputs = make([]textinput.Model, 0, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = max(minCharLimit, utf8.RuneCountInString(f.Value))
		in.SetValue(f.Value)
		if i == 0 {
			in.Focus()
		}
		e.keys = append(e.keys, f.Key)
		e.inputs = append(e.inputs, in)
	}
	e.focus = 0
	return discarded
}

func (e *rowEditor) cancel() {
	e.rowKey = ""
	e.keys = nil
	e.inputs = nil
	e.focus = 0
}

func (e rowEditor) active() bool {
	return e.inputs != nil
}

func (e rowEditor) editing(rowKey string) bool {
	return e.active() && e.rowKey == rowKey
}

// draft returns the current value of every field keyed by field name.
func (e rowEditor) draft() map[string]string {
	values := make(map[string]string, len(e.keys))
	for i, k := range e.keys {
		values[k] = e.inputs[i].Value()
	}
	return values
}

func (e rowEditor) value(fieldKey string) string {
	for i, k := range e.keys {
		if k == fieldKey {
			return e.inputs[i].Value()
		}
	}
	return ""
}

func (e rowEditor) focusedKey() string {
	if !e.active() {
		return ""
	}
	return e.keys[e.focus]
}

// update moves focus on tab/shift+tab and otherwise feeds the message to the
// focused input, undoing it when the result is not a valid partial number.
// Non-key messages such as cursor blinks go to the focused input as well.
func (e *rowEditor) update(msg tea.Msg) tea.Cmd {
	if !e.active() {
		return nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.NextField), key.Matches(keyMsg, keys.PrevField):
			dir := 1
			if key.Matches(keyMsg, keys.PrevField) {
				dir = -1
			}
			e.inputs[e.focus].Blur()
			e.focus = (e.focus + dir + len(e.inputs)) % len(e.inputs)
			return e.inputs[e.focus].Focus()
		}
	}

	in := e.inputs[e.focus]
	prevValue, prevPos := in.Value(), in.Position()
	next, cmd := in.Update(msg)
	if !ValidNumericInput(next.Value()) {
		next.SetValue(prevValue)
		next.SetCursor(prevPos)
		cmd = nil
	}
	e.inputs[e.focus] = next
	return cmd
}

func (e rowEditor) inputView(fieldKey string) string {
	for i, k := range e.keys {
		if k == fieldKey {
			return e.inputs[i].View()
		}
	}
	return ""
}
