package detail

import (
	"realticker/internal/dashboard"
	"realticker/internal/domain"
)

// NotAvailable is shown for any metric that cannot be derived.
const NotAvailable = "N/A"

// volumeCategory is a fixed stand-in label: history carries no volume data,
// so the detail view shows a coarse placeholder whenever history exists.
const volumeCategory = "High"

// Metrics are the headline figures derived from a history series.
type Metrics struct {
	CurrentPrice   string
	Change         string
	VolumeCategory string
	// Direction is +1, 0 or -1 for the sign of Change; 0 when unavailable.
	Direction int
}

// ComputeMetrics derives the headline figures from history. It is a pure
// function of its input and keeps no state.
func ComputeMetrics(history []domain.HistoryPoint) Metrics {
	if len(history) == 0 {
		return Metrics{
			CurrentPrice:   NotAvailable,
			Change:         NotAvailable,
			VolumeCategory: NotAvailable,
		}
	}
	first := history[0].Price
	last := history[len(history)-1].Price
	change, dir := dashboard.FormatSignedChange(first, last)
	return Metrics{
		CurrentPrice:   dashboard.FormatPlain(last),
		Change:         change,
		VolumeCategory: volumeCategory,
		Direction:      dir,
	}
}
