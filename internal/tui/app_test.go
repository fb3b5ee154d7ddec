package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"realticker/internal/detail"
	"realticker/internal/domain"
	"realticker/internal/listing"
	"realticker/internal/notify"
)

type fakeAPI struct {
	rows        []domain.Instrument
	listErr     error
	history     map[string][]domain.HistoryPoint
	analysisErr error
}

func (f *fakeAPI) TopStocks(context.Context) ([]domain.Instrument, error) {
	return f.rows, f.listErr
}

func (f *fakeAPI) History(_ context.Context, ticker string) ([]domain.HistoryPoint, error) {
	return f.history[ticker], nil
}

func (f *fakeAPI) Analyze(_ context.Context, ticker string, _ []domain.HistoryPoint) (*domain.Analysis, error) {
	if f.analysisErr != nil {
		return nil, f.analysisErr
	}
	return &domain.Analysis{
		Trend:           "Bullish",
		RiskLevel:       "Low",
		SuggestedAction: "Consider holding " + ticker,
		Disclaimer:      "Not financial advice.",
	}, nil
}

func newAPI() *fakeAPI {
	return &fakeAPI{
		rows: []domain.Instrument{
			{Ticker: "AAPL", Company: "Apple Inc", Price: 185.4, ChangePercent: 1.2, Volume: 78000000},
			{Ticker: "MSFT", Company: "Microsoft", Price: 412.3, ChangePercent: 0.8, Volume: 45000000},
			{Ticker: "TSLA", Company: "Tesla Inc", Price: 248.9, ChangePercent: -1.3, Volume: 28000000},
		},
		history: map[string][]domain.HistoryPoint{
			"AAPL": {{Date: "2024-01-01", Price: 10}, {Date: "2024-06-01", Price: 15}},
			"MSFT": {{Date: "2024-01-01", Price: 400}, {Date: "2024-06-01", Price: 390}},
		},
	}
}

func newTestApp(t *testing.T, api *fakeAPI) (App, *bool) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := notify.NewQueue(time.Minute)
	ctx := context.Background()
	cancelled := false
	app := New(
		listing.New(ctx, api, q, log),
		detail.New(ctx, api, q, log),
		q, true, log, func() { cancelled = true },
	)
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, &cancelled
}

func update(t *testing.T, m App, msg tea.Msg) App {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(App)
}

// press sends a key and runs the returned command once, feeding a
// controller message back into the model.
func press(t *testing.T, m App, k string) App {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	m = next.(App)
	// Search box commands only drive the cursor blink.
	if cmd == nil || m.searching || k == "/" {
		return m
	}
	switch msg := cmd().(type) {
	case listing.LoadedMsg, detail.HistoryLoadedMsg, detail.AnalyzedMsg:
		m = update(t, m, msg)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func loadListing(t *testing.T, m App) App {
	t.Helper()
	return update(t, m, m.listing.Load()())
}

func TestListingRendersRowsAndToast(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)

	view := app.View()
	for _, want := range []string{appTitle, "AAPL", "Apple Inc", "$185.4", "78,000,000", "Stocks loaded successfully!"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestListingLoadingSkeleton(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	if !strings.Contains(app.renderContent(), "░") {
		t.Error("expected skeleton while loading")
	}
}

func TestListingFailureShowsInlineError(t *testing.T) {
	api := newAPI()
	api.listErr = errors.New("down")
	app, _ := newTestApp(t, api)
	app = loadListing(t, app)

	view := app.View()
	if !strings.Contains(view, "Failed to load stocks") {
		t.Error("missing inline error")
	}
	if !strings.Contains(view, "Failed to load stocks. Please try again.") {
		t.Error("missing failure toast")
	}

	api.listErr = nil
	app = press(t, app, "r")
	if app.listing.Phase() != listing.PhaseReady || !strings.Contains(app.View(), "AAPL") {
		t.Error("reload did not recover")
	}
}

func TestSortKeys(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)

	app = press(t, app, "v")
	if got := app.listing.Rows()[0].Ticker; got != "TSLA" {
		t.Errorf("asc volume first = %s", got)
	}
	app = press(t, app, "v")
	if got := app.listing.Rows()[0].Ticker; got != "AAPL" {
		t.Errorf("desc volume first = %s", got)
	}
	if !strings.Contains(app.renderContent(), "▼") {
		t.Error("missing descending arrow")
	}
	app = press(t, app, "c")
	if f, d := app.listing.Sort(); f != listing.SortChangePercent || d != listing.Asc {
		t.Errorf("Sort() = %v %v", f, d)
	}
}

func TestSearchFiltersAndClears(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)

	app = press(t, app, "/")
	if !app.searching {
		t.Fatal("search not focused")
	}
	for _, r := range "tes" {
		app = press(t, app, string(r))
	}
	if rows := app.listing.Rows(); len(rows) != 1 || rows[0].Ticker != "TSLA" {
		t.Fatalf("rows = %v", rows)
	}
	// Keys typed into the search box must not trigger shortcuts.
	app = press(t, app, "v")
	if f, _ := app.listing.Sort(); f != listing.SortNone {
		t.Error("shortcut fired while searching")
	}

	app = press(t, app, "esc")
	if app.searching || app.listing.Query() != "" || len(app.listing.Rows()) != 3 {
		t.Errorf("esc did not clear: searching=%v query=%q", app.searching, app.listing.Query())
	}
}

func TestDetailAnalyzeAndDismiss(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)

	app = press(t, app, "enter")
	if app.screen != screenDetail || app.detail.Ticker() != "AAPL" {
		t.Fatalf("screen = %v ticker = %q", app.screen, app.detail.Ticker())
	}
	view := app.View()
	for _, want := range []string{"Price History (6 Months)", "$15", "+5.00", "High", "Press a for AI insights."} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	app = press(t, app, "a")
	if !app.detail.OverlayOpen() {
		t.Fatal("overlay not open after analysis")
	}
	view = app.View()
	for _, want := range []string{"AI Insights for AAPL", "Bullish", "Consider holding AAPL", "Not financial advice.", "AI analysis completed!"} {
		if !strings.Contains(view, want) {
			t.Errorf("overlay missing %q", want)
		}
	}

	// Keys other than dismissal are swallowed while the overlay is open.
	app = press(t, app, "b")
	if app.screen != screenDetail || !app.detail.OverlayOpen() {
		t.Error("overlay did not capture input")
	}

	app = press(t, app, "esc")
	if app.detail.OverlayOpen() || app.detail.Analysis() == nil {
		t.Error("dismiss should close the overlay and keep the result")
	}

	app = press(t, app, "b")
	if app.screen != screenListing || app.detail.Phase() != detail.PhaseIdle {
		t.Errorf("back: screen = %v phase = %v", app.screen, app.detail.Phase())
	}
}

func TestAnalysisRunningIndicator(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)
	app = press(t, app, "enter")

	next, cmd := app.Update(keyMsg("a"))
	app = next.(App)
	if cmd == nil {
		t.Fatal("expected analysis command")
	}
	if !strings.Contains(app.View(), "Analyzing...") {
		t.Error("missing running indicator")
	}
	// A second press while running issues nothing.
	if _, again := app.Update(keyMsg("a")); again != nil {
		t.Error("duplicate analysis request")
	}
}

func TestAnalysisFailureKeepsDetail(t *testing.T) {
	api := newAPI()
	api.analysisErr = errors.New("model down")
	app, _ := newTestApp(t, api)
	app = loadListing(t, app)
	app = press(t, app, "enter")
	app = press(t, app, "a")

	view := app.View()
	if app.detail.OverlayOpen() || strings.Contains(view, "AI Insights for") {
		t.Error("overlay opened on failure")
	}
	if !strings.Contains(view, "Price History (6 Months)") || !strings.Contains(view, "AI analysis failed. Please try again.") {
		t.Error("detail view should stay intact with a failure toast")
	}
}

func TestSwitchingTickerShowsSkeleton(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = loadListing(t, app)
	app = press(t, app, "enter") // AAPL loaded
	app = press(t, app, "b")
	app = press(t, app, "down")

	next, cmd := app.Update(keyMsg("enter"))
	app = next.(App)
	if app.detail.Ticker() != "MSFT" || app.detail.Phase() != detail.PhaseLoading {
		t.Fatalf("ticker = %q phase = %v", app.detail.Ticker(), app.detail.Phase())
	}
	content := app.renderContent()
	if strings.Contains(content, "$15") || strings.Contains(content, "Price History") {
		t.Error("previous ticker's data visible while loading")
	}
	if !strings.Contains(content, "░") {
		t.Error("expected skeleton")
	}
	app = update(t, app, cmd())
	if !strings.Contains(app.View(), "$390") {
		t.Error("MSFT metrics not shown")
	}
}

func TestThemeToggle(t *testing.T) {
	app, _ := newTestApp(t, newAPI())
	app = press(t, app, "t")
	if app.dark || !strings.Contains(app.View(), "theme: light") {
		t.Error("theme did not switch to light")
	}
	app = press(t, app, "t")
	if !app.dark {
		t.Error("theme did not switch back")
	}
}

func TestQuitCancels(t *testing.T) {
	app, cancelled := newTestApp(t, newAPI())
	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !*cancelled {
		t.Error("cancel not called")
	}
}
