package domain

import "fmt"

// ErrorKind classifies a failed network operation.
type ErrorKind int

const (
	ListingLoadError ErrorKind = iota
	HistoryLoadError
	AnalysisError
)

// String returns the kind name used in log lines.
func (k ErrorKind) String() string {
	switch k {
	case ListingLoadError:
		return "listing_load"
	case HistoryLoadError:
		return "history_load"
	case AnalysisError:
		return "analysis"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a failure caught at a controller boundary. Err carries the
// underlying cause for logging; Message is all the user ever sees.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewError wraps err with the given kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the static user-facing text for the error kind.
func (e *Error) Message() string {
	switch e.Kind {
	case ListingLoadError:
		return "Failed to load stocks"
	case HistoryLoadError:
		return "Failed to load history"
	case AnalysisError:
		return "Failed to analyze"
	default:
		return "Something went wrong"
	}
}
