package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/pkg/config"
	xhttp "SentinelFeed/pkg/http"
)

type fakeFeed struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeFeed) record(e string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeFeed) Start(context.Context) error { f.record("feed.start"); return nil }
func (f *fakeFeed) Stop(context.Context) error  { f.record("feed.stop"); return nil }
func (f *fakeFeed) Mode() models.ConnectionMode { return models.ModeSimulated }

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }

func TestRunContextStopsInReverseOrder(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	feed := &fakeFeed{}
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetricsPath(""),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	app := New(cfg, nil, feed, srv)
	app.OnClose("first", closerFunc(func() error { feed.record("close.first"); return nil }))
	app.OnClose("second", closerFunc(func() error { feed.record("close.second"); return nil }))
	app.OnClose("nil", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("app did not stop")
	}

	want := []string{"feed.start", "feed.stop", "close.second", "close.first"}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if len(feed.events) != len(want) {
		t.Fatalf("events = %v, want %v", feed.events, want)
	}
	for i := range want {
		if feed.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", feed.events, want)
		}
	}
}
