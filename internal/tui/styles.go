package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// theme is the palette for one appearance. Only colors change between dark
// and light; layout is shared.
type theme struct {
	header    lipgloss.Style
	footer    lipgloss.Style
	colHeader lipgloss.Style
	ticker    lipgloss.Style
	tickerHl  lipgloss.Style
	text      lipgloss.Style
	dim       lipgloss.Style
	gain      lipgloss.Style
	loss      lipgloss.Style
	skeleton  lipgloss.Style
	errText   lipgloss.Style
	card      lipgloss.Style
	cardLabel lipgloss.Style
	overlay   lipgloss.Style
	title     lipgloss.Style
	chip      lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	search    lipgloss.Style
	highlight lipgloss.Color
}

func darkTheme() theme {
	return theme{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")),
		footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
		colHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ticker:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		tickerHl:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		text:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		gain:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		loss:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		skeleton:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		errText:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2),
		cardLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		overlay:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("13")).Padding(1, 3),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		chip:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1),
		success:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")),
		search:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		highlight: lipgloss.Color("236"), // dark grey background
	}
}

func lightTheme() theme {
	t := darkTheme()
	t.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	t.footer = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252"))
	t.colHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	t.ticker = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	t.tickerHl = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	t.text = lipgloss.NewStyle().Foreground(lipgloss.Color("0"))
	t.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	t.gain = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
	t.loss = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	t.skeleton = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	t.search = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	t.highlight = lipgloss.Color("254") // light grey background
	return t
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}

// hl returns a copy of s with the highlight background applied when on is true.
func (t theme) hl(s lipgloss.Style, on bool) lipgloss.Style {
	if on {
		return s.Background(t.highlight)
	}
	return s
}

// direction picks the gain or loss style by sign; zero renders plain.
func (t theme) direction(sign int) lipgloss.Style {
	switch {
	case sign > 0:
		return t.gain
	case sign < 0:
		return t.loss
	default:
		return t.text
	}
}

// padOrTrunc pads s with spaces to width, or truncates if longer. Width is
// measured in terminal cells so styled text is handled.
func padOrTrunc(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := lipgloss.Width(s)
	if n > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-n)
}

// padLeft right-aligns s in a field of width cells.
func padLeft(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
