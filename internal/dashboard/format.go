// Package dashboard provides the display formatting shared by the listing
// and detail views: prices, signed changes, percentages and volumes.
package dashboard

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatPlain formats a price the way the API reports it, without padding
// zeros: 15 → "15", 185.4 → "185.4".
func FormatPlain(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "-"
	}
	return decimal.NewFromFloat(p).String()
}

// FormatPrice formats a price as "$X" using FormatPlain.
func FormatPrice(p float64) string {
	return "$" + FormatPlain(p)
}

// FormatSignedChange returns last-first with an explicit sign and two
// decimals, plus the sign as +1, 0 or -1. The subtraction is done in
// decimal so 15.3-10.1 prints "+5.20" and not "+5.199999".
func FormatSignedChange(first, last float64) (string, int) {
	d := decimal.NewFromFloat(last).Sub(decimal.NewFromFloat(first)).Round(2)
	s := d.StringFixed(2)
	switch d.Sign() {
	case 1:
		return "+" + s, 1
	case -1:
		return s, -1
	default:
		return s, 0
	}
}

// FormatChangePercent formats a daily change percentage: "1.2%", "-0.5%".
func FormatChangePercent(pct float64) string {
	return FormatPlain(pct) + "%"
}

// FormatVolume formats a share volume with comma separators.
func FormatVolume(v int64) string {
	return humanize.Comma(v)
}
