package sentinelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	xhttp "SentinelFeed/pkg/http"
	applogger "SentinelFeed/pkg/logger"
)

const (
	pathHealth = "/health"
	pathAlerts = "/api/v1/alerts/recent"
	pathStats  = "/api/v1/stats"
)

// Client implements repository.Backend over the fraud-detection REST API.
type Client struct {
	http   *xhttp.Client
	logger *applogger.Logger
}

// New creates a backend client on top of an HTTP client bound to the API base URL.
func New(hc *xhttp.Client, logger *applogger.Logger) *Client {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &Client{http: hc, logger: logger}
}

// Health succeeds on any 2xx response from /health.
func (c *Client) Health(ctx context.Context) error {
	if err := c.http.Get(ctx, pathHealth, nil, nil); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}

type alertsEnvelope struct {
	Alerts *[]json.RawMessage `json:"alerts"`
}

// RecentAlerts returns the newest alerts in the order the backend sent them.
// Entries that fail to decode or validate are skipped.
func (c *Client) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	var env alertsEnvelope
	q := map[string][]string{"limit": {strconv.Itoa(limit)}}
	if err := c.http.Get(ctx, pathAlerts, q, &env); err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	if env.Alerts == nil {
		return nil, fmt.Errorf("recent alerts: %w: missing alerts", drepo.ErrMalformedPayload)
	}

	out := make([]models.Alert, 0, len(*env.Alerts))
	for _, raw := range *env.Alerts {
		var a models.Alert
		if err := json.Unmarshal(raw, &a); err != nil {
			c.logger.Warn("dropping undecodable alert", applogger.Error(err))
			continue
		}
		if err := a.Validate(); err != nil {
			c.logger.Warn("dropping invalid alert", applogger.Error(err))
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type statsEnvelope struct {
	SwapGuard *models.SwapGuardStats `json:"swapguard"`
	BetShield *models.BetShieldStats `json:"betshield"`
}

// Stats returns the backend's aggregate counters. Both product objects must be
// present.
func (c *Client) Stats(ctx context.Context) (models.Statistics, error) {
	var env statsEnvelope
	if err := c.http.Get(ctx, pathStats, nil, &env); err != nil {
		return models.Statistics{}, fmt.Errorf("stats: %w", err)
	}
	if env.SwapGuard == nil || env.BetShield == nil {
		return models.Statistics{}, fmt.Errorf("stats: %w: missing product section", drepo.ErrMalformedPayload)
	}
	st := models.Statistics{SwapGuard: *env.SwapGuard, BetShield: *env.BetShield}
	if st.SwapGuard.RiskScore < 0 || st.SwapGuard.RiskScore > 100 {
		return models.Statistics{}, fmt.Errorf("stats: %w: riskScore %d out of range", drepo.ErrMalformedPayload, st.SwapGuard.RiskScore)
	}
	return st, nil
}

var _ drepo.Backend = (*Client)(nil)
