package tui

import "github.com/charmbracelet/lipgloss"

type Mode int

const (
	ModeLight Mode = iota
	ModeDark
)

func (m Mode) String() string {
	if m == ModeDark {
		return "dark"
	}
	return "light"
}

// palette holds the Catppuccin colors a mode draws with (Latte for light, Mocha for dark).
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	surface lipgloss.Color
	accent  lipgloss.Color
	brand   lipgloss.Color
	success lipgloss.Color
	err     lipgloss.Color
}

var (
	lattePalette = palette{
		text:    "#4c4f69",
		muted:   "#6c6f85",
		border:  "#acb0be",
		surface: "#ccd0da",
		accent:  "#1e66f5",
		brand:   "#ea76cb",
		success: "#40a02b",
		err:     "#d20f39",
	}
	mochaPalette = palette{
		text:    "#cdd6f4",
		muted:   "#a6adc8",
		border:  "#585b70",
		surface: "#313244",
		accent:  "#89b4fa",
		brand:   "#f5c2e7",
		success: "#a6e3a1",
		err:     "#f38ba8",
	}
)

// Theme is the set of styles for the current mode. It only affects presentation.
type Theme struct {
	Mode     Mode
	Title    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Editing  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Banner   lipgloss.Style
	Tab      lipgloss.Style
	TabOff   lipgloss.Style
}

func NewTheme(mode Mode) Theme {
	p := lattePalette
	if mode == ModeDark {
		p = mochaPalette
	}
	return Theme{
		Mode:     mode,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.brand),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Cell:     lipgloss.NewStyle().Foreground(p.text),
		Selected: lipgloss.NewStyle().Foreground(p.text).Background(p.surface),
		Editing:  lipgloss.NewStyle().Foreground(p.accent).Background(p.surface),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Error:    lipgloss.NewStyle().Foreground(p.err),
		Success:  lipgloss.NewStyle().Foreground(p.success),
		Banner: lipgloss.NewStyle().Bold(true).Foreground(p.brand).
			Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 2),
		Tab:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true),
		TabOff: lipgloss.NewStyle().Foreground(p.muted),
	}
}

// Toggle switches between light and dark.
func (t Theme) Toggle() Theme {
	if t.Mode == ModeDark {
		return NewTheme(ModeLight)
	}
	return NewTheme(ModeDark)
}
