// Package realticker provides a Go SDK for the RealTicker stock API: the
// top-instruments listing, per-ticker price history and AI analysis.
package realticker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"realticker/internal/domain"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the RealTicker HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a new RealTicker API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// TopStocks retrieves the ranked instrument listing.
func (c *Client) TopStocks(ctx context.Context) ([]domain.Instrument, error) {
	var rows []domain.Instrument
	if err := c.do(ctx, http.MethodGet, "/api/stocks/top10", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// History retrieves the daily price history for a ticker, oldest first.
func (c *Client) History(ctx context.Context, ticker string) ([]domain.HistoryPoint, error) {
	var points []domain.HistoryPoint
	path := "/api/stocks/" + url.PathEscape(ticker) + "/history"
	if err := c.do(ctx, http.MethodGet, path, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Analyze submits a history series for analysis.
func (c *Client) Analyze(ctx context.Context, ticker string, history []domain.HistoryPoint) (*domain.Analysis, error) {
	if history == nil {
		history = []domain.HistoryPoint{}
	}
	var resp analyzeResponse
	path := "/api/stocks/" + url.PathEscape(ticker) + "/analyze"
	if err := c.do(ctx, http.MethodPost, path, analyzeRequest{History: history}, &resp); err != nil {
		return nil, err
	}
	return convertAnalysis(resp), nil
}

// do performs one JSON round trip. A nil body sends no payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
