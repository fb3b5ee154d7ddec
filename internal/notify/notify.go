// Package notify is the fire-and-forget feedback side-channel of the client.
// Controllers emit Success and Failure messages; sinks decide how to show
// them (a toast queue for the TUI, the log, an ntfy push).
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Notifier receives user feedback. Implementations must not block.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Level distinguishes success from failure notifications.
type Level int

const (
	LevelSuccess Level = iota
	LevelFailure
)

// Toast is a single queued notification.
type Toast struct {
	Level Level
	Text  string
	At    time.Time
}

// Queue keeps recent notifications for rendering. Entries older than the
// configured duration are dropped on read.
type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	max    int
	toasts []Toast
	now    func() time.Time
}

// NewQueue creates a toast queue that keeps each toast visible for ttl.
func NewQueue(ttl time.Duration) *Queue {
	return &Queue{ttl: ttl, max: 5, now: time.Now}
}

func (q *Queue) Success(msg string) { q.push(LevelSuccess, msg) }
func (q *Queue) Failure(msg string) { q.push(LevelFailure, msg) }

func (q *Queue) push(level Level, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Level: level, Text: msg, At: q.now()})
	if len(q.toasts) > q.max {
		q.toasts = q.toasts[len(q.toasts)-q.max:]
	}
}

// Active returns the toasts that have not yet expired, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	cutoff := q.now().Add(-q.ttl)
	i := 0
	for i < len(q.toasts) && !q.toasts[i].At.After(cutoff) {
		i++
	}
	q.toasts = q.toasts[i:]
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// Log writes notifications to a structured logger.
type Log struct {
	log *slog.Logger
}

// NewLog creates a notifier that logs every message.
func NewLog(log *slog.Logger) *Log { return &Log{log: log} }

func (l *Log) Success(msg string) { l.log.Info("notify", "level", "success", "message", msg) }
func (l *Log) Failure(msg string) { l.log.Warn("notify", "level", "failure", "message", msg) }

// NTFY pushes notifications to an ntfy topic URL. Sends run in their own
// goroutine; failures are logged and otherwise ignored.
type NTFY struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
	timeout  time.Duration
}

// NewNTFY creates a push notifier for the given endpoint.
func NewNTFY(endpoint string, client *http.Client, log *slog.Logger) *NTFY {
	if client == nil {
		client = http.DefaultClient
	}
	return &NTFY{endpoint: endpoint, client: client, log: log, timeout: 10 * time.Second}
}

func (n *NTFY) Success(msg string) { n.async("RealTicker", msg) }
func (n *NTFY) Failure(msg string) { n.async("RealTicker error", msg) }

func (n *NTFY) async(title, msg string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := Send(ctx, n.client, n.endpoint, title, msg); err != nil {
			n.log.Debug("ntfy push failed", "endpoint", n.endpoint, "error", err)
		}
	}()
}

// Send posts a plain-text message to endpoint. A non-empty title is sent as
// the ntfy Title header.
func Send(ctx context.Context, client *http.Client, endpoint, title, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	if title != "" {
		req.Header.Set("Title", title)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}

// Multi fans every notification out to all sinks.
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Failure(msg string) {
	for _, n := range m {
		n.Failure(msg)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Failure(string) {}
