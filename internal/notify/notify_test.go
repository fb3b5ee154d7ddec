package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestSendPostsMessage(t *testing.T) {
	ctx := context.Background()

	var receivedMethod, receivedPath, receivedBody, receivedTitle string

	client := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			receivedMethod = r.Method
			receivedPath = r.URL.Path
			receivedTitle = r.Header.Get("Title")
			rawBody, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			receivedBody = string(rawBody)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("ok")),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if err := Send(ctx, client, "http://example.com/realticker", "RealTicker", "Stocks loaded successfully!"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got, want := receivedMethod, http.MethodPost; got != want {
		t.Fatalf("method = %q; want %q", got, want)
	}
	if got, want := receivedPath, "/realticker"; got != want {
		t.Fatalf("path = %q; want %q", got, want)
	}
	if got, want := receivedTitle, "RealTicker"; got != want {
		t.Fatalf("title = %q; want %q", got, want)
	}
	if got, want := receivedBody, "Stocks loaded successfully!"; got != want {
		t.Fatalf("body = %q; want %q", got, want)
	}
}

func TestSendReturnsErrorOnNon2xx(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(strings.NewReader("bad gateway")),
				Header:     make(http.Header),
			}, nil
		}),
	}

	err := Send(context.Background(), client, "http://example.com/realticker", "", "x")
	if err == nil {
		t.Fatal("Send() error = nil; want non-nil")
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("Send() error = %q; want status in message", err.Error())
	}
}

func TestNTFYIsAsync(t *testing.T) {
	done := make(chan string, 1)
	client := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			b, _ := io.ReadAll(r.Body)
			done <- string(b)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}, nil
		}),
	}
	n := NewNTFY("http://example.com/t", client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n.Failure("AI analysis failed. Please try again.")

	select {
	case got := <-done:
		if got != "AI analysis failed. Please try again." {
			t.Errorf("pushed body = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push was never sent")
	}
}

func TestQueueExpires(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	q := NewQueue(3 * time.Second)
	q.now = func() time.Time { return now }

	q.Success("Stocks loaded successfully!")
	now = now.Add(2 * time.Second)
	q.Failure("Failed to load stock history.")

	active := q.Active()
	if len(active) != 2 {
		t.Fatalf("Active() len = %d, want 2", len(active))
	}
	if active[0].Level != LevelSuccess || active[1].Level != LevelFailure {
		t.Errorf("unexpected levels: %+v", active)
	}

	now = now.Add(2 * time.Second) // first toast is now 4s old
	active = q.Active()
	if len(active) != 1 || active[0].Text != "Failed to load stock history." {
		t.Fatalf("Active() after expiry = %+v", active)
	}

	now = now.Add(5 * time.Second)
	if active := q.Active(); len(active) != 0 {
		t.Fatalf("Active() after full expiry = %+v", active)
	}
}

func TestQueueCapsLength(t *testing.T) {
	q := NewQueue(time.Minute)
	for i := 0; i < 8; i++ {
		q.Success("x")
	}
	if got := len(q.Active()); got != 5 {
		t.Errorf("Active() len = %d, want 5", got)
	}
}

type counter struct{ ok, fail int }

func (c *counter) Success(string) { c.ok++ }
func (c *counter) Failure(string) { c.fail++ }

func TestMultiFansOut(t *testing.T) {
	a, b := &counter{}, &counter{}
	m := Multi{a, b, Discard{}}
	m.Success("s")
	m.Failure("f")
	m.Failure("f")
	for _, c := range []*counter{a, b} {
		if c.ok != 1 || c.fail != 2 {
			t.Errorf("counter = %+v, want ok=1 fail=2", *c)
		}
	}
}
