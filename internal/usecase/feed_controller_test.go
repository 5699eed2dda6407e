package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	"SentinelFeed/internal/feed"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	events  []models.FeedEvent
	started bool
	stopped bool
}

func (d *recordingDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = true
}

func (d *recordingDispatcher) Dispatch(ev models.FeedEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return true
}

func (d *recordingDispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
}

func newController(backend drepo.Backend, opts ...ControllerOption) *FeedController {
	state := feed.NewState(feed.DefaultCapacity, models.InitialStatistics(), fixedClock())
	sim := NewAlertSimulator(&scriptedRand{ints: []int{0, 3, 1, 4, 2, 5}}, WithIDGenerator(seqIDs("t")))
	return NewFeedController(
		state,
		NewProber(backend, 50*time.Millisecond, nil, nil),
		NewLiveFetcher(backend, nil, nil, WithRequestTimeout(time.Second)),
		sim,
		NewStatsDrifter(&scriptedRand{ints: []int{2}, floats: []float64{0}}),
		opts...,
	)
}

func TestSimulatedTicksFillBufferNewestFirst(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		c := newController(nil)
		if m := c.Init(context.Background()); m != models.ModeSimulated {
			t.Fatalf("mode = %s", m)
		}
		for i := 0; i < n; i++ {
			c.AlertTick(context.Background())
		}
		snap := c.Snapshot()
		if len(snap.Alerts) != n {
			t.Fatalf("n=%d: len = %d", n, len(snap.Alerts))
		}
		if want := fmt.Sprintf("t%d", n); snap.Alerts[0].AlertID != want {
			t.Fatalf("n=%d: head = %s want %s", n, snap.Alerts[0].AlertID, want)
		}
	}
}

func TestNineTicksKeepTicksTwoThroughNine(t *testing.T) {
	c := newController(nil)
	c.Init(context.Background())
	for i := 0; i < 9; i++ {
		c.AlertTick(context.Background())
	}
	snap := c.Snapshot()
	if len(snap.Alerts) != 8 {
		t.Fatalf("len = %d", len(snap.Alerts))
	}
	for i, a := range snap.Alerts {
		if want := fmt.Sprintf("t%d", 9-i); a.AlertID != want {
			t.Fatalf("position %d = %s want %s", i, a.AlertID, want)
		}
	}
}

func TestSimulatedStatsDrift(t *testing.T) {
	c := newController(nil)
	c.Init(context.Background())
	c.StatsTick(context.Background())

	got := c.Snapshot().Stats
	want := models.InitialStatistics()
	want.SwapGuard.TotalChecks += 2
	want.BetShield.TotalBets += 2
	if got != want {
		t.Fatalf("stats = %+v want %+v", got, want)
	}
}

func TestLiveInitLoadsBackendAlertsInOrder(t *testing.T) {
	st := models.InitialStatistics()
	st.SwapGuard.TotalChecks = 1400
	b := &fakeBackend{
		alerts: []models.Alert{liveAlert("a", 90), liveAlert("b", 80), liveAlert("c", 70)},
		stats:  st,
	}
	c := newController(b)
	if m := c.Init(context.Background()); m != models.ModeLive {
		t.Fatalf("mode = %s", m)
	}

	snap := c.Snapshot()
	if len(snap.Alerts) != 3 {
		t.Fatalf("len = %d", len(snap.Alerts))
	}
	for i, id := range []string{"a", "b", "c"} {
		if snap.Alerts[i].AlertID != id {
			t.Fatalf("position %d = %s", i, snap.Alerts[i].AlertID)
		}
	}
	if snap.Stats.SwapGuard.TotalChecks != 1400 {
		t.Fatalf("stats not replaced: %+v", snap.Stats)
	}
	if b.count("health") != 1 || b.count("alerts") != 1 || b.count("stats") != 1 {
		t.Fatalf("calls = %v", b.calls)
	}
}

func TestLiveEmptyAlertsEmptiesBuffer(t *testing.T) {
	b := &fakeBackend{alerts: []models.Alert{liveAlert("a", 90)}, stats: models.InitialStatistics()}
	c := newController(b)
	c.Init(context.Background())
	if n := len(c.Snapshot().Alerts); n != 1 {
		t.Fatalf("len = %d", n)
	}

	b.setAlerts([]models.Alert{})
	c.AlertTick(context.Background())
	if n := len(c.Snapshot().Alerts); n != 0 {
		t.Fatalf("len after empty fetch = %d", n)
	}
}

func TestLiveReplaceTruncatesToCapacity(t *testing.T) {
	var alerts []models.Alert
	for i := 0; i < 10; i++ {
		alerts = append(alerts, liveAlert(fmt.Sprintf("l%d", i), 70))
	}
	b := &fakeBackend{alerts: alerts, stats: models.InitialStatistics()}
	c := newController(b)
	c.Init(context.Background())

	snap := c.Snapshot()
	if len(snap.Alerts) != 8 || snap.Alerts[0].AlertID != "l0" || snap.Alerts[7].AlertID != "l7" {
		t.Fatalf("alerts = %v", snap.Alerts)
	}
}

func TestLiveFetchFailureKeepsPreviousState(t *testing.T) {
	b := &fakeBackend{alerts: []models.Alert{liveAlert("a", 90)}, stats: models.InitialStatistics()}
	c := newController(b)
	c.Init(context.Background())
	before := c.Snapshot()

	b.mu.Lock()
	b.alertsErr = errors.New("connection reset")
	b.statsErr = fmt.Errorf("stats: %w", drepo.ErrMalformedPayload)
	b.mu.Unlock()

	c.AlertTick(context.Background())
	c.StatsTick(context.Background())

	after := c.Snapshot()
	if after.Version != before.Version {
		t.Fatalf("state changed on failed fetch: %d -> %d", before.Version, after.Version)
	}
	if len(after.Alerts) != 1 || after.Alerts[0].AlertID != "a" {
		t.Fatalf("alerts = %v", after.Alerts)
	}
}

func TestLiveModeNeverSimulates(t *testing.T) {
	b := &fakeBackend{alerts: []models.Alert{}, stats: models.InitialStatistics()}
	c := newController(b)
	c.Init(context.Background())
	for i := 0; i < 5; i++ {
		c.AlertTick(context.Background())
		c.StatsTick(context.Background())
	}
	snap := c.Snapshot()
	if len(snap.Alerts) != 0 {
		t.Fatalf("simulated alerts leaked into live feed: %v", snap.Alerts)
	}
	if snap.Stats != models.InitialStatistics() {
		t.Fatalf("stats drifted in live mode: %+v", snap.Stats)
	}
}

func TestDispatcherSeesNewAlerts(t *testing.T) {
	d := &recordingDispatcher{}
	c := newController(nil, WithDispatcher(d))
	c.Init(context.Background())
	c.AlertTick(context.Background())
	c.StatsTick(context.Background())

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) != 3 {
		t.Fatalf("events = %d", len(d.events))
	}
	if len(d.events[0].NewAlerts) != 0 || d.events[0].Snapshot.Mode != models.ModeSimulated {
		t.Fatalf("mode event = %+v", d.events[0])
	}
	if len(d.events[1].NewAlerts) != 1 || d.events[1].NewAlerts[0].AlertID != "t1" {
		t.Fatalf("alert event = %+v", d.events[1])
	}
	if len(d.events[2].NewAlerts) != 0 {
		t.Fatalf("stats event carried alerts")
	}
}

func TestStartStopRunsSimulatedLoop(t *testing.T) {
	d := &recordingDispatcher{}
	c := newController(nil, WithIntervals(5*time.Millisecond, 5*time.Millisecond), WithDispatcher(d))
	sub, cancel := c.Subscribe()
	defer cancel()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for len(c.Snapshot().Alerts) < 2 {
		select {
		case <-deadline:
			t.Fatalf("no simulated alerts within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if c.Mode() != models.ModeSimulated {
		t.Fatalf("mode = %s", c.Mode())
	}

	ctx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	for range sub {
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started || !d.stopped {
		t.Fatalf("dispatcher lifecycle started=%v stopped=%v", d.started, d.stopped)
	}
}

func TestStartAfterStopFails(t *testing.T) {
	c := newController(nil, WithIntervals(time.Hour, time.Hour))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("restart: %v", err)
	}

	sub, cancel := c.Subscribe()
	defer cancel()
	select {
	case _, ok := <-sub:
		if ok {
			t.Fatalf("subscription after stop delivered a snapshot")
		}
	case <-time.After(time.Second):
		t.Fatalf("subscription after stop left open")
	}
}
