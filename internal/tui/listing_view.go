package tui

import (
	"fmt"
	"strings"

	"realticker/internal/dashboard"
	"realticker/internal/listing"
)

// listingHeaderLines is the number of lines above the first row: column
// header and rule.
const listingHeaderLines = 2

const (
	colNum     = 4
	colTicker  = 8
	colCompany = 24
	colPrice   = 11
	colChange  = 11
	colVolume  = 15
)

const skeletonRows = 6

func sortArrow(c *listing.Controller, field listing.SortField) string {
	f, d := c.Sort()
	if f != field {
		return " "
	}
	if d == listing.Asc {
		return "▲"
	}
	return "▼"
}

func renderListing(c *listing.Controller, t theme, width, cursor int) string {
	var b strings.Builder

	colLine := fmt.Sprintf("%*s  %-*s %-*s %*s %*s %*s",
		colNum, "#",
		colTicker, "TICKER",
		colCompany, "COMPANY",
		colPrice, "PRICE",
		colChange, "[c]CHG%"+sortArrow(c, listing.SortChangePercent),
		colVolume, "[v]VOLUME"+sortArrow(c, listing.SortVolume),
	)
	b.WriteString(t.colHeader.Render(colLine))
	b.WriteString("\n")
	lineLen := lineWidth(width)
	b.WriteString(t.dim.Render(strings.Repeat("─", lineLen)))
	b.WriteString("\n")

	rows := c.Rows()
	switch {
	case c.Phase() == listing.PhaseFailed:
		b.WriteString("\n  ")
		b.WriteString(t.errText.Render(c.Err().Message()))
		b.WriteString("\n  ")
		b.WriteString(t.dim.Render("Press r to retry."))
		b.WriteString("\n")
		return b.String()

	case c.Phase() == listing.PhaseLoading && c.Total() == 0:
		for i := 0; i < skeletonRows; i++ {
			b.WriteString(t.skeleton.Render(skeletonLine(lineLen)))
			b.WriteString("\n")
		}
		return b.String()

	case len(rows) == 0:
		b.WriteString(t.dim.Render("  (no matching stocks)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, r := range rows {
		hl := i == cursor
		num := fmt.Sprintf("%*d  ", colNum, i+1)
		b.WriteString(t.hl(t.dim, hl).Render(num))

		tickerStyle := t.ticker
		if hl {
			tickerStyle = t.tickerHl
		}
		b.WriteString(t.hl(tickerStyle, hl).Render(fmt.Sprintf("%-*s ", colTicker, r.Ticker)))
		b.WriteString(t.hl(t.text, hl).Render(fmt.Sprintf("%-*s ", colCompany, truncate(r.Company, colCompany))))
		b.WriteString(t.hl(t.text, hl).Render(padLeft(dashboard.FormatPrice(r.Price), colPrice) + " "))

		sign := 0
		marker := " "
		switch {
		case r.ChangePercent > 0:
			sign, marker = 1, "▲"
		case r.ChangePercent < 0:
			sign, marker = -1, "▼"
		}
		change := marker + " " + dashboard.FormatChangePercent(r.ChangePercent)
		b.WriteString(t.hl(t.direction(sign), hl).Render(padLeft(change, colChange) + " "))
		b.WriteString(t.hl(t.text, hl).Render(padLeft(dashboard.FormatVolume(r.Volume), colVolume)))
		b.WriteString("\n")
	}
	return b.String()
}

func lineWidth(width int) int {
	full := colNum + 2 + colTicker + 1 + colCompany + 1 + colPrice + 1 + colChange + 1 + colVolume
	if width > 0 && width < full {
		return width
	}
	return full
}

func skeletonLine(n int) string {
	return "  " + strings.Repeat("░", max(n-2, 0))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
