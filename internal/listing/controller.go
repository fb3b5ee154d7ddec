// Package listing implements the instrument listing controller: it loads the
// ranked snapshot once, then serves a filtered and sorted projection of it
// that is recomputed on every query or sort change without re-fetching.
package listing

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"realticker/internal/domain"
	"realticker/internal/notify"
)

const (
	msgLoaded     = "Stocks loaded successfully!"
	msgLoadFailed = "Failed to load stocks. Please try again."
)

// Source fetches the listing snapshot.
type Source interface {
	TopStocks(ctx context.Context) ([]domain.Instrument, error)
}

// Phase is the load state of the listing.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "loading"
	}
}

// LoadedMsg carries the result of a listing request back to Update.
type LoadedMsg struct {
	generation uint64
	Rows       []domain.Instrument
	Err        error
}

// Controller owns the raw listing snapshot and its derived projection.
// It is driven from a single event loop and is not safe for concurrent use.
type Controller struct {
	ctx    context.Context
	source Source
	notify notify.Notifier
	log    *slog.Logger

	rows      []domain.Instrument
	query     string
	sortField SortField
	sortDir   SortDirection
	phase     Phase
	err       *domain.Error
	view      []domain.Instrument

	// generation identifies the newest Load; older responses are dropped.
	generation uint64
	// announced is set after the first successful load so reloads in the
	// same session stay quiet.
	announced bool
}

// New creates a listing controller. ctx bounds every request it issues.
func New(ctx context.Context, source Source, n notify.Notifier, log *slog.Logger) *Controller {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		ctx:    ctx,
		source: source,
		notify: n,
		log:    log,
		phase:  PhaseLoading,
		view:   []domain.Instrument{},
	}
}

// Load starts a listing request and returns the command that performs it.
// Rows already shown stay in place until the response arrives.
func (c *Controller) Load() tea.Cmd {
	c.generation++
	c.phase = PhaseLoading
	c.err = nil

	gen := c.generation
	ctx := c.ctx
	src := c.source
	c.log.Info("loading listing", "generation", gen)

	return func() tea.Msg {
		rows, err := src.TopStocks(ctx)
		return LoadedMsg{generation: gen, Rows: rows, Err: err}
	}
}

// Update applies messages addressed to the listing. Other messages are
// ignored and Update returns nil.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(LoadedMsg)
	if !ok {
		return nil
	}
	if m.generation != c.generation {
		c.log.Debug("dropping stale listing response", "generation", m.generation, "current", c.generation)
		return nil
	}

	if m.Err != nil {
		c.phase = PhaseFailed
		c.err = domain.NewError(domain.ListingLoadError, m.Err)
		c.log.Error("loading listing", "error", m.Err)
		c.notify.Failure(msgLoadFailed)
		return nil
	}

	c.rows = m.Rows
	c.phase = PhaseReady
	c.recompute()
	c.log.Info("listing loaded", "rows", len(m.Rows))
	if !c.announced {
		c.announced = true
		c.notify.Success(msgLoaded)
	}
	return nil
}

// SetQuery replaces the search text and recomputes the projection.
func (c *Controller) SetQuery(text string) {
	if text == c.query {
		return
	}
	c.query = text
	c.recompute()
}

// SetSort toggles the direction when field is already active; otherwise it
// makes field active in ascending order.
func (c *Controller) SetSort(field SortField) {
	if field == c.sortField {
		if c.sortDir == Asc {
			c.sortDir = Desc
		} else {
			c.sortDir = Asc
		}
	} else {
		c.sortField = field
		c.sortDir = Asc
	}
	c.recompute()
}

func (c *Controller) recompute() {
	c.view = Project(c.rows, c.query, c.sortField, c.sortDir)
}

// Rows returns the current projection. Callers must not modify it.
func (c *Controller) Rows() []domain.Instrument { return c.view }

// Total returns the size of the unfiltered snapshot.
func (c *Controller) Total() int { return len(c.rows) }

func (c *Controller) Query() string { return c.query }

func (c *Controller) Sort() (SortField, SortDirection) { return c.sortField, c.sortDir }

func (c *Controller) Phase() Phase { return c.phase }

// Err returns the failure recorded by the last load, or nil.
func (c *Controller) Err() *domain.Error { return c.err }
