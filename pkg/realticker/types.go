package realticker

import "realticker/internal/domain"

// analyzeRequest is the POST body for the analyze endpoint.
type analyzeRequest struct {
	History []domain.HistoryPoint `json:"history"`
}

// analysisJSON is the nested analysis object of an analyze response.
type analysisJSON struct {
	Trend           string `json:"trend"`
	RiskLevel       string `json:"risk_level"`
	SuggestedAction string `json:"suggested_action"`
}

// analyzeResponse is the top-level JSON response of the analyze endpoint.
type analyzeResponse struct {
	Analysis   analysisJSON `json:"analysis"`
	Disclaimer string       `json:"disclaimer"`
}

// convertAnalysis flattens an analyze response into a domain.Analysis.
func convertAnalysis(r analyzeResponse) *domain.Analysis {
	return &domain.Analysis{
		Trend:           r.Analysis.Trend,
		RiskLevel:       r.Analysis.RiskLevel,
		SuggestedAction: r.Analysis.SuggestedAction,
		Disclaimer:      r.Disclaimer,
	}
}
