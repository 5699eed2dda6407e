package usecase

import (
	"context"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/metrics"
)

const (
	DefaultFetchLimit     = 10
	DefaultRequestTimeout = 10 * time.Second
)

// LiveFetcher pulls alerts and statistics from the backend. A failed fetch is
// logged and reported as not ok; callers keep their previous state.
type LiveFetcher struct {
	backend drepo.Backend
	limit   int
	timeout time.Duration
	metrics drepo.Metrics
	logger  *applogger.Logger
}

type LiveFetcherOption func(*LiveFetcher)

// WithFetchLimit sets the limit query parameter of the alerts request.
func WithFetchLimit(n int) LiveFetcherOption {
	return func(f *LiveFetcher) {
		if n > 0 {
			f.limit = n
		}
	}
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) LiveFetcherOption {
	return func(f *LiveFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func NewLiveFetcher(backend drepo.Backend, m drepo.Metrics, logger *applogger.Logger, opts ...LiveFetcherOption) *LiveFetcher {
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	f := &LiveFetcher{
		backend: backend,
		limit:   DefaultFetchLimit,
		timeout: DefaultRequestTimeout,
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAlerts returns the backend's most recent alerts, newest first.
func (f *LiveFetcher) FetchAlerts(ctx context.Context) ([]models.Alert, bool) {
	if f.backend == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	alerts, err := f.backend.RecentAlerts(ctx, f.limit)
	f.metrics.RecordFetch("alerts", err, time.Since(start).Seconds())
	if err != nil {
		f.metrics.RecordError("fetch_alerts")
		f.logger.Warn("fetch alerts failed, keeping previous alerts", applogger.Error(err))
		return nil, false
	}
	return alerts, true
}

// FetchStats returns the backend's aggregate statistics.
func (f *LiveFetcher) FetchStats(ctx context.Context) (models.Statistics, bool) {
	if f.backend == nil {
		return models.Statistics{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	st, err := f.backend.Stats(ctx)
	f.metrics.RecordFetch("stats", err, time.Since(start).Seconds())
	if err != nil {
		f.metrics.RecordError("fetch_stats")
		f.logger.Warn("fetch stats failed, keeping previous statistics", applogger.Error(err))
		return models.Statistics{}, false
	}
	return st, true
}
