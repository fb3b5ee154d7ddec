package listing

import (
	"sort"
	"strings"

	"realticker/internal/domain"
)

// SortField selects the column the listing is ordered by.
type SortField int

const (
	SortNone SortField = iota
	SortChangePercent
	SortVolume
)

// String returns the column label.
func (f SortField) String() string {
	switch f {
	case SortChangePercent:
		return "change%"
	case SortVolume:
		return "volume"
	default:
		return "none"
	}
}

// SortDirection is the order applied to the active sort field.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Matches reports whether row contains query in its ticker or company name,
// ignoring case. The empty query matches every row.
func Matches(row domain.Instrument, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(row.Ticker), q) ||
		strings.Contains(strings.ToLower(row.Company), q)
}

// sortKey returns the raw numeric value a row is sorted by.
func sortKey(row domain.Instrument, field SortField) float64 {
	switch field {
	case SortChangePercent:
		return row.ChangePercent
	case SortVolume:
		return float64(row.Volume)
	default:
		return 0
	}
}

// Project derives the visible rows: filter by query, then stable-sort by
// field when one is active. rows is never modified; the result is a new
// slice even when nothing is filtered out.
func Project(rows []domain.Instrument, query string, field SortField, dir SortDirection) []domain.Instrument {
	out := make([]domain.Instrument, 0, len(rows))
	for _, r := range rows {
		if Matches(r, query) {
			out = append(out, r)
		}
	}
	if field == SortNone {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortKey(out[i], field), sortKey(out[j], field)
		if dir == Desc {
			return a > b
		}
		return a < b
	})
	return out
}
