package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"realticker/internal/detail"
	"realticker/internal/domain"
)

const (
	chartCaption = "Price History (6 Months)"
	chartHeight  = 12
)

func renderDetail(c *detail.Controller, t theme, width int) string {
	var b strings.Builder

	switch c.Phase() {
	case detail.PhaseIdle:
		return ""

	case detail.PhaseLoading:
		// Nothing from a previous ticker survives the switch, so the
		// skeleton is all there is to draw.
		cards := make([]string, 3)
		for i := range cards {
			cards[i] = t.card.Render(t.skeleton.Render(strings.Repeat("░", 12) + "\n" + strings.Repeat("░", 8)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n\n")
		for i := 0; i < chartHeight/2; i++ {
			b.WriteString(t.skeleton.Render(skeletonLine(lineWidth(width))))
			b.WriteString("\n")
		}
		return b.String()

	case detail.PhaseFailed:
		b.WriteString("\n  ")
		b.WriteString(t.errText.Render(c.Err().Message()))
		b.WriteString("\n  ")
		b.WriteString(t.dim.Render("Press r to retry or b to go back."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(renderMetrics(c.Metrics(), t))
	b.WriteString("\n\n")
	b.WriteString(renderChart(c.History(), t, width))
	b.WriteString("\n\n")
	b.WriteString(renderAnalysisStatus(c, t))
	b.WriteString("\n")
	return b.String()
}

func renderMetrics(mt detail.Metrics, t theme) string {
	price := mt.CurrentPrice
	if price != detail.NotAvailable {
		price = "$" + price
	}
	card := func(label, value string, style lipgloss.Style) string {
		return t.card.Render(t.cardLabel.Render(label) + "\n" + style.Bold(true).Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Current Price", price, t.text),
		card("Change", mt.Change, t.direction(mt.Direction)),
		card("Volume", mt.VolumeCategory, t.text),
	)
}

func renderChart(history []domain.HistoryPoint, t theme, width int) string {
	if len(history) == 0 {
		return t.dim.Render("  " + chartCaption + ": no data")
	}
	series := make([]float64, len(history))
	for i, p := range history {
		series[i] = p.Price
	}
	if len(series) == 1 {
		series = append(series, series[0])
	}
	plotWidth := width - 14
	if plotWidth < 10 {
		plotWidth = 10
	}
	chart := asciigraph.Plot(series,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(2),
		asciigraph.Caption(chartCaption),
	)
	span := t.dim.Render("  " + history[0].Date + " → " + history[len(history)-1].Date)
	return chart + "\n" + span
}

func renderAnalysisStatus(c *detail.Controller, t theme) string {
	switch c.AnalysisState() {
	case detail.AnalysisRunning:
		return t.search.Render("  Analyzing...")
	case detail.AnalysisDone:
		a := c.Analysis()
		return t.dim.Render("  Last analysis: ") + t.text.Render(a.Trend+" / "+a.RiskLevel+" risk")
	case detail.AnalysisFailed:
		return t.dim.Render("  Press a to retry the analysis.")
	default:
		if len(c.History()) == 0 {
			return t.dim.Render("  Analysis needs price history.")
		}
		return t.dim.Render("  Press a for AI insights.")
	}
}

func renderOverlay(c *detail.Controller, t theme, width int) string {
	a := c.Analysis()
	if a == nil {
		return ""
	}
	inner := 56
	if width > 0 && width-10 < inner {
		inner = max(width-10, 20)
	}

	var b strings.Builder
	b.WriteString(t.title.Render("AI Insights for " + c.Ticker()))
	b.WriteString("\n\n")
	b.WriteString(t.cardLabel.Render("Trend "))
	b.WriteString(t.chip.Render(a.Trend))
	b.WriteString("   ")
	b.WriteString(t.cardLabel.Render("Risk "))
	b.WriteString(t.chip.Render(a.RiskLevel))
	b.WriteString("\n\n")
	b.WriteString(t.cardLabel.Render("Suggested action"))
	b.WriteString("\n")
	b.WriteString(t.text.Width(inner).Render(a.SuggestedAction))
	if a.Disclaimer != "" {
		b.WriteString("\n\n")
		b.WriteString(t.dim.Italic(true).Width(inner).Render(a.Disclaimer))
	}
	b.WriteString("\n\n")
	b.WriteString(t.dim.Render("esc to close"))
	return t.overlay.Render(b.String())
}
