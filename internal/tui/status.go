package tui

// status is the one-line message under a table.
type status struct {
	text string
	err  bool
}

func okStatus(text string) status { return status{text: text} }

func errorStatus(text string) status { return status{text: text, err: true} }

func (s status) render(theme Theme) string {
	if s.text == "" {
		return ""
	}
	if s.err {
		return theme.Error.Render(s.text)
	}
	return theme.Success.Render(s.text)
}
