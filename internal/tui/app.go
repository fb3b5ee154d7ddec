// Package tui is the terminal shell around the listing and detail
// controllers. It routes between the two views, maps keys to controller
// operations and renders state, toasts and the analysis overlay.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"realticker/internal/detail"
	"realticker/internal/listing"
	"realticker/internal/notify"
)

const appTitle = "RealTicker - AI Stock Insights"

type screen int

const (
	screenListing screen = iota
	screenDetail
)

// Messages.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// App is the root Bubble Tea model.
type App struct {
	listing *listing.Controller
	detail  *detail.Controller
	toasts  *notify.Queue
	logger  *slog.Logger
	cancel  context.CancelFunc

	screen screen
	cursor int
	search textinput.Model
	// searching is true while keystrokes go to the search box.
	searching bool

	dark  bool
	theme theme

	viewport      viewport.Model
	ready         bool
	width, height int
}

// New builds the shell. toasts is the queue the controllers' notifier feeds;
// cancel is called on quit to abort requests in flight.
func New(l *listing.Controller, d *detail.Controller, toasts *notify.Queue, dark bool, logger *slog.Logger, cancel context.CancelFunc) App {
	if logger == nil {
		logger = slog.Default()
	}
	if cancel == nil {
		cancel = func() {}
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search by ticker or company"
	ti.CharLimit = 64
	return App{
		listing: l,
		detail:  d,
		toasts:  toasts,
		logger:  logger,
		cancel:  cancel,
		search:  ti,
		dark:    dark,
		theme:   themeFor(dark),
	}
}

func (m App) Init() tea.Cmd {
	return tea.Batch(m.listing.Load(), tickCmd())
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		if m.screen == screenDetail {
			return m.updateDetailKeys(msg)
		}
		return m.updateListingKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(m.width-4, 10)
		vpHeight := m.height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case listing.LoadedMsg:
		cmd = m.listing.Update(msg)
		m.clampCursor()
		m.refresh()
		return m, cmd

	case detail.HistoryLoadedMsg, detail.AnalyzedMsg:
		cmd = m.detail.Update(msg)
		m.refresh()
		return m, cmd
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m App) updateListingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.searching = false
		case "enter":
			m.search.Blur()
			m.searching = false
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.listing.SetQuery(m.search.Value())
			m.clampCursor()
			m.refresh()
			return m, cmd
		}
		m.listing.SetQuery(m.search.Value())
		m.clampCursor()
		m.refresh()
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.listing.SetQuery("")
			m.clampCursor()
			m.refresh()
		}
		return m, nil
	case "c":
		m.listing.SetSort(listing.SortChangePercent)
		m.refresh()
		return m, nil
	case "v":
		m.listing.SetSort(listing.SortVolume)
		m.refresh()
		return m, nil
	case "r":
		cmd := m.listing.Load()
		m.refresh()
		return m, cmd
	case "t":
		m.toggleTheme()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()
		m.ensureVisible()
		return m, nil
	case "down", "j":
		if m.cursor < len(m.listing.Rows())-1 {
			m.cursor++
		}
		m.refresh()
		m.ensureVisible()
		return m, nil
	case "enter":
		rows := m.listing.Rows()
		if m.cursor < 0 || m.cursor >= len(rows) {
			return m, nil
		}
		ticker := rows[m.cursor].Ticker
		m.logger.Info("open detail", "ticker", ticker)
		m.screen = screenDetail
		cmd := m.detail.LoadHistory(ticker)
		m.refresh()
		m.viewport.GotoTop()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m App) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.OverlayOpen() {
		switch msg.String() {
		case "esc", "enter", "x", "q":
			m.detail.Dismiss()
			m.refresh()
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "b", "esc", "backspace":
		m.detail.Close()
		m.screen = screenListing
		m.refresh()
		m.ensureVisible()
		return m, nil
	case "a":
		cmd := m.detail.Analyze()
		m.refresh()
		return m, cmd
	case "r":
		if m.detail.Phase() != detail.PhaseFailed {
			return m, nil
		}
		cmd := m.detail.LoadHistory(m.detail.Ticker())
		m.refresh()
		return m, cmd
	case "t":
		m.toggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *App) toggleTheme() {
	m.dark = !m.dark
	m.theme = themeFor(m.dark)
	m.logger.Debug("theme toggled", "dark", m.dark)
	m.refresh()
}

func (m *App) clampCursor() {
	n := len(m.listing.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *App) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

// ensureVisible scrolls the viewport so the selected row is visible.
func (m *App) ensureVisible() {
	if !m.ready || m.screen != screenListing {
		return
	}
	line := listingHeaderLines + m.cursor
	yOff := m.viewport.YOffset
	vpH := m.viewport.Height
	if line < yOff {
		m.viewport.SetYOffset(line)
	} else if line >= yOff+vpH {
		m.viewport.SetYOffset(line - vpH + 1)
	}
}

func (m App) renderContent() string {
	if m.screen == screenDetail {
		return renderDetail(m.detail, m.theme, m.width)
	}
	return renderListing(m.listing, m.theme, m.width, m.cursor)
}

// chromeHeight is the number of fixed lines around the viewport: header,
// sub-header, toast line and footer.
const chromeHeight = 4

func (m App) View() string {
	if !m.ready {
		return "Loading..."
	}

	mode := "dark"
	if !m.dark {
		mode = "light"
	}
	headerText := fmt.Sprintf(" %s    theme: %s ", appTitle, mode)
	headerBar := m.theme.header.Render(padOrTrunc(headerText, m.width))

	var sub string
	if m.screen == screenDetail {
		sub = m.theme.title.Render(" " + m.detail.Ticker())
	} else if m.searching || m.search.Value() != "" {
		sub = m.theme.search.Render(" " + m.search.View())
	} else {
		sub = m.theme.dim.Render(fmt.Sprintf(" %d of %d stocks    / to search", len(m.listing.Rows()), m.listing.Total()))
	}
	sub = padOrTrunc(sub, m.width)

	body := m.viewport.View()
	if m.screen == screenDetail && m.detail.OverlayOpen() {
		body = lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			renderOverlay(m.detail, m.theme, m.width))
	}

	toastLine := padOrTrunc(m.renderToasts(), m.width)

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := m.footerKeys()
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerText := footerLeft + strings.Repeat(" ", gap) + footerRight
	footerBar := m.theme.footer.Render(padOrTrunc(footerText, m.width))

	return headerBar + "\n" + sub + "\n" + body + "\n" + toastLine + "\n" + footerBar
}

func (m App) footerKeys() string {
	switch {
	case m.screen == screenDetail && m.detail.OverlayOpen():
		return " esc close"
	case m.screen == screenDetail:
		return " q quit  b back  a analyze  r retry  t theme  pgup/dn scroll"
	case m.searching:
		return " enter done  esc clear"
	default:
		return " q quit  / search  c sort change%  v sort volume  up/dn select  enter open  r reload  t theme"
	}
}

// renderToasts shows the newest active toast; older ones are still counted.
func (m App) renderToasts() string {
	if m.toasts == nil {
		return ""
	}
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	last := active[len(active)-1]
	style := m.theme.success
	if last.Level == notify.LevelFailure {
		style = m.theme.failure
	}
	s := style.Render(" " + last.Text + " ")
	if len(active) > 1 {
		s += m.theme.dim.Render(fmt.Sprintf("  +%d", len(active)-1))
	}
	return s
}
