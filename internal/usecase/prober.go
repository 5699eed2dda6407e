package usecase

import (
	"context"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/metrics"
)

const DefaultProbeTimeout = 5 * time.Second

// Prober decides once whether the feed runs against the backend or the simulator.
type Prober struct {
	backend drepo.Backend
	timeout time.Duration
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewProber creates a prober. A nil backend means no endpoint is configured.
func NewProber(backend drepo.Backend, timeout time.Duration, m drepo.Metrics, logger *applogger.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &Prober{backend: backend, timeout: timeout, metrics: m, logger: logger}
}

// Probe returns ModeLive when the backend's health check answers 2xx within the
// timeout and ModeSimulated in every other case. It never returns an error.
func (p *Prober) Probe(ctx context.Context) models.ConnectionMode {
	if p.backend == nil {
		p.metrics.RecordProbe("no_endpoint")
		p.logger.Info("no backend endpoint configured, running simulated feed")
		return models.ModeSimulated
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.backend.Health(ctx)
	p.metrics.RecordFetch("health", err, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordProbe("unreachable")
		p.logger.Warn("backend health probe failed, falling back to simulated feed",
			applogger.Error(err), applogger.Duration("timeout", p.timeout))
		return models.ModeSimulated
	}
	p.metrics.RecordProbe("healthy")
	return models.ModeLive
}
