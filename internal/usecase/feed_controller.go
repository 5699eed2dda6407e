package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	"SentinelFeed/internal/feed"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/metrics"
)

const (
	DefaultAlertInterval = 4 * time.Second
	DefaultStatsInterval = 3 * time.Second
)

var (
	ErrAlreadyStarted = errors.New("feed controller already started")
	ErrStopped        = errors.New("feed controller stopped")
)

// EventDispatcher forwards feed events to the sinks off the controller goroutine.
type EventDispatcher interface {
	Start(ctx context.Context)
	Dispatch(ev models.FeedEvent) bool
	Stop()
}

// FeedController owns the feed state. It probes the backend once, then runs the
// alert and statistics tasks on a single goroutine so that every mutation is
// serialized. Readers get snapshots through Snapshot and Subscribe.
type FeedController struct {
	state   *feed.State
	bcast   *feed.Broadcaster
	prober  *Prober
	fetcher *LiveFetcher
	sim     *AlertSimulator
	drifter *StatsDrifter
	sinks   EventDispatcher
	metrics drepo.Metrics
	logger  *applogger.Logger

	alertEvery time.Duration
	statsEvery time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

type ControllerOption func(*FeedController)

// WithIntervals sets the alert and statistics cadences.
func WithIntervals(alerts, stats time.Duration) ControllerOption {
	return func(c *FeedController) {
		if alerts > 0 {
			c.alertEvery = alerts
		}
		if stats > 0 {
			c.statsEvery = stats
		}
	}
}

// WithDispatcher routes every feed event to d.
func WithDispatcher(d EventDispatcher) ControllerOption {
	return func(c *FeedController) { c.sinks = d }
}

func WithMetrics(m drepo.Metrics) ControllerOption {
	return func(c *FeedController) {
		if m != nil {
			c.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) ControllerOption {
	return func(c *FeedController) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewFeedController(
	state *feed.State,
	prober *Prober,
	fetcher *LiveFetcher,
	sim *AlertSimulator,
	drifter *StatsDrifter,
	opts ...ControllerOption,
) *FeedController {
	c := &FeedController{
		state:      state,
		bcast:      feed.NewBroadcaster(),
		prober:     prober,
		fetcher:    fetcher,
		sim:        sim,
		drifter:    drifter,
		metrics:    metrics.Nop{},
		logger:     applogger.Nop(),
		alertEvery: DefaultAlertInterval,
		statsEvery: DefaultStatsInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the controller goroutine. The probe runs on that goroutine, so
// readers see ModeConnecting until it completes. A stopped controller cannot
// be restarted: its subscribers and sinks are already closed.
func (c *FeedController) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	if c.sinks != nil {
		// the pipeline outlives the run loop so Stop can flush it
		c.sinks.Start(context.WithoutCancel(ctx))
	}
	go c.run(runCtx)
	return nil
}

// Stop cancels the run loop and waits for it to exit, then stops the sinks and
// closes every subscriber channel.
func (c *FeedController) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if c.sinks != nil {
		c.sinks.Stop()
	}
	c.bcast.Close()
	return err
}

func (c *FeedController) run(ctx context.Context) {
	defer close(c.done)

	c.Init(ctx)

	alertT := time.NewTicker(c.alertEvery)
	defer alertT.Stop()
	statsT := time.NewTicker(c.statsEvery)
	defer statsT.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-alertT.C:
			c.AlertTick(ctx)
		case <-statsT.C:
			c.StatsTick(ctx)
		}
	}
}

// Init probes the backend, records the resulting mode and, when live, performs
// the first fetch of alerts and statistics.
func (c *FeedController) Init(ctx context.Context) models.ConnectionMode {
	mode := c.prober.Probe(ctx)
	c.emit(c.state.SetMode(mode))
	c.metrics.RecordMode(mode)
	c.logger.Info("feed mode selected", applogger.String("mode", string(mode)))

	if mode == models.ModeLive {
		c.AlertTick(ctx)
		c.StatsTick(ctx)
	}
	return mode
}

// AlertTick runs one alert step: a simulated push, or a live replace.
func (c *FeedController) AlertTick(ctx context.Context) {
	switch c.state.Mode() {
	case models.ModeSimulated:
		a := c.sim.Next()
		ev := c.state.PushAlert(a)
		c.metrics.RecordAlert("simulated", a.Product)
		c.emit(ev)
	case models.ModeLive:
		alerts, ok := c.fetcher.FetchAlerts(ctx)
		if !ok {
			return
		}
		ev := c.state.ReplaceAlerts(alerts)
		for _, a := range ev.NewAlerts {
			c.metrics.RecordAlert("live", a.Product)
		}
		c.emit(ev)
	}
}

// StatsTick runs one statistics step: a simulated drift, or a live replace.
func (c *FeedController) StatsTick(ctx context.Context) {
	switch c.state.Mode() {
	case models.ModeSimulated:
		c.emit(c.state.UpdateStats(c.drifter.Drift))
	case models.ModeLive:
		st, ok := c.fetcher.FetchStats(ctx)
		if !ok {
			return
		}
		c.emit(c.state.SetStats(st))
	}
}

func (c *FeedController) emit(ev models.FeedEvent) {
	c.metrics.RecordBufferSize(len(ev.Snapshot.Alerts))
	if c.sinks != nil && !c.sinks.Dispatch(ev) {
		c.logger.Debug("sink buffer full, event dropped", applogger.Int64("version", int64(ev.Snapshot.Version)))
	}
	c.bcast.Publish(ev.Snapshot)
}

// Snapshot returns a consistent copy of the current feed state.
func (c *FeedController) Snapshot() models.FeedSnapshot {
	return c.state.Snapshot()
}

// Mode returns the current connection mode.
func (c *FeedController) Mode() models.ConnectionMode {
	return c.state.Mode()
}

// Subscribe registers for snapshots pushed after every change. The returned
// cancel func must be called when the subscriber goes away.
func (c *FeedController) Subscribe() (<-chan models.FeedSnapshot, func()) {
	return c.bcast.Subscribe()
}
