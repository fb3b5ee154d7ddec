// Package detail implements the per-instrument controller: it loads the
// price history for the selected ticker, runs an analysis of that history on
// request and reveals the result through an overlay.
package detail

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"realticker/internal/domain"
	"realticker/internal/notify"
)

var errEmptyAnalysis = errors.New("empty analysis response")

const (
	msgHistoryFailed  = "Failed to load stock history."
	msgAnalysisDone   = "AI analysis completed!"
	msgAnalysisFailed = "AI analysis failed. Please try again."
)

// Source fetches history and analysis for a ticker.
type Source interface {
	History(ctx context.Context, ticker string) ([]domain.HistoryPoint, error)
	Analyze(ctx context.Context, ticker string, history []domain.HistoryPoint) (*domain.Analysis, error)
}

// Phase is the history load state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// AnalysisState is the analysis sub-state within PhaseReady.
type AnalysisState int

const (
	AnalysisNotRequested AnalysisState = iota
	AnalysisRunning
	AnalysisDone
	AnalysisFailed
)

func (s AnalysisState) String() string {
	switch s {
	case AnalysisRunning:
		return "analyzing"
	case AnalysisDone:
		return "analyzed"
	case AnalysisFailed:
		return "analysis_failed"
	default:
		return "not_requested"
	}
}

// HistoryLoadedMsg carries a history response back to Update.
type HistoryLoadedMsg struct {
	generation uint64
	Ticker     string
	History    []domain.HistoryPoint
	Err        error
}

// AnalyzedMsg carries an analysis response back to Update.
type AnalyzedMsg struct {
	generation uint64
	Ticker     string
	Analysis   *domain.Analysis
	Err        error
}

// Controller owns one ticker's history, its analysis and the overlay flag.
// It is driven from a single event loop and is not safe for concurrent use.
type Controller struct {
	ctx    context.Context
	source Source
	notify notify.Notifier
	log    *slog.Logger

	ticker   string
	phase    Phase
	history  []domain.HistoryPoint
	err      *domain.Error
	analysis AnalysisState
	result   *domain.Analysis
	// analysisErr is kept for logs and tests; the view never shows it.
	analysisErr *domain.Error
	overlayOpen bool

	// generation changes on every ticker switch; responses tagged with an
	// older generation belong to a ticker that is no longer shown.
	generation uint64
	cancel     context.CancelFunc
}

// New creates an idle detail controller. ctx bounds every request it issues.
func New(ctx context.Context, source Source, n notify.Notifier, log *slog.Logger) *Controller {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{ctx: ctx, source: source, notify: n, log: log}
}

// reset discards everything scoped to the current ticker and cancels the
// request in flight, if any.
func (c *Controller) reset() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.history = nil
	c.err = nil
	c.analysis = AnalysisNotRequested
	c.result = nil
	c.analysisErr = nil
	c.overlayOpen = false
}

// LoadHistory switches to ticker and returns the command that fetches its
// history. Prior state is destroyed first, so nothing from the previous
// ticker can be displayed while the new one loads.
func (c *Controller) LoadHistory(ticker string) tea.Cmd {
	c.reset()
	c.ticker = ticker
	c.phase = PhaseLoading

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	gen := c.generation
	src := c.source
	c.log.Info("loading history", "ticker", ticker, "generation", gen)

	return func() tea.Msg {
		pts, err := src.History(ctx, ticker)
		return HistoryLoadedMsg{generation: gen, Ticker: ticker, History: pts, Err: err}
	}
}

// Close tears down the current ticker's state, as when the view is left.
func (c *Controller) Close() {
	c.reset()
	c.ticker = ""
	c.phase = PhaseIdle
}

// CanAnalyze reports whether Analyze would issue a request.
func (c *Controller) CanAnalyze() bool {
	return c.phase == PhaseReady && len(c.history) > 0 && c.analysis != AnalysisRunning
}

// Analyze submits the loaded history for analysis. It returns nil, issuing
// nothing, unless history is loaded and non-empty and no analysis is
// already running. A failed analysis may be retried by calling it again.
func (c *Controller) Analyze() tea.Cmd {
	if !c.CanAnalyze() {
		return nil
	}
	c.analysis = AnalysisRunning
	c.analysisErr = nil

	ctx := c.ctx
	gen := c.generation
	ticker := c.ticker
	src := c.source
	history := make([]domain.HistoryPoint, len(c.history))
	copy(history, c.history)
	c.log.Info("requesting analysis", "ticker", ticker, "points", len(history))

	return func() tea.Msg {
		a, err := src.Analyze(ctx, ticker, history)
		return AnalyzedMsg{generation: gen, Ticker: ticker, Analysis: a, Err: err}
	}
}

// Dismiss closes the overlay. The analysis result is kept.
func (c *Controller) Dismiss() {
	c.overlayOpen = false
}

// Update applies messages addressed to the detail controller. Other
// messages are ignored and Update returns nil.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HistoryLoadedMsg:
		if msg.generation != c.generation {
			c.log.Debug("dropping stale history", "ticker", msg.Ticker, "current", c.ticker)
			return nil
		}
		c.cancel = nil
		if msg.Err != nil {
			c.phase = PhaseFailed
			c.err = domain.NewError(domain.HistoryLoadError, msg.Err)
			c.log.Error("loading history", "ticker", msg.Ticker, "error", msg.Err)
			c.notify.Failure(msgHistoryFailed)
			return nil
		}
		c.history = msg.History
		c.phase = PhaseReady
		c.log.Info("history loaded", "ticker", msg.Ticker, "points", len(msg.History))

	case AnalyzedMsg:
		if msg.generation != c.generation || c.analysis != AnalysisRunning {
			c.log.Debug("dropping stale analysis", "ticker", msg.Ticker, "current", c.ticker)
			return nil
		}
		if msg.Err != nil || msg.Analysis == nil {
			err := msg.Err
			if err == nil {
				err = errEmptyAnalysis
			}
			c.analysis = AnalysisFailed
			c.analysisErr = domain.NewError(domain.AnalysisError, err)
			c.log.Error("analysis failed", "ticker", msg.Ticker, "error", err)
			c.notify.Failure(msgAnalysisFailed)
			return nil
		}
		c.result = msg.Analysis
		c.analysis = AnalysisDone
		c.overlayOpen = true
		c.log.Info("analysis done", "ticker", msg.Ticker, "trend", msg.Analysis.Trend, "risk", msg.Analysis.RiskLevel)
		c.notify.Success(msgAnalysisDone)
	}
	return nil
}

func (c *Controller) Ticker() string { return c.ticker }

func (c *Controller) Phase() Phase { return c.phase }

// History returns the loaded series, oldest first. Callers must not modify it.
func (c *Controller) History() []domain.HistoryPoint { return c.history }

// Err returns the history load failure, or nil.
func (c *Controller) Err() *domain.Error { return c.err }

func (c *Controller) AnalysisState() AnalysisState { return c.analysis }

// Analysis returns the latest successful result, or nil.
func (c *Controller) Analysis() *domain.Analysis { return c.result }

// AnalysisErr returns the last analysis failure, or nil.
func (c *Controller) AnalysisErr() *domain.Error { return c.analysisErr }

func (c *Controller) OverlayOpen() bool { return c.overlayOpen }

// Metrics derives the headline figures from the current history.
func (c *Controller) Metrics() Metrics { return ComputeMetrics(c.history) }
