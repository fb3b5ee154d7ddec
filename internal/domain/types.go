// Package domain defines the core types shared by the RealTicker client:
// listing rows, history points, analysis results and the error taxonomy.
package domain

// Instrument is one row of the ranked listing.
type Instrument struct {
	Ticker        string  `json:"ticker"`
	Company       string  `json:"company"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// HistoryPoint is a single daily price. Date is YYYY-MM-DD so string order
// is chronological order.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Analysis is the narrative assessment returned for a history series.
type Analysis struct {
	Trend           string
	RiskLevel       string
	SuggestedAction string
	Disclaimer      string
}
