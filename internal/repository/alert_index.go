package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	"SentinelFeed/pkg/cache"
)

// AlertIndex keeps each alert the feed has shown, keyed by ID, for ttl after it
// arrives, so lookups still resolve once the alert rotates out of the buffer.
// The cache belongs to the caller: with Redis it is shared with SnapshotMirror.
type AlertIndex struct {
	cache cache.Service
	ttl   time.Duration
}

func NewAlertIndex(c cache.Service, ttl time.Duration) *AlertIndex {
	return &AlertIndex{cache: c, ttl: ttl}
}

func alertKey(id string) string {
	return cache.GenerateKey("feed", "alert", id)
}

func (x *AlertIndex) Name() string { return "alert_index" }

func (x *AlertIndex) Consume(ctx context.Context, ev models.FeedEvent) error {
	for _, a := range ev.NewAlerts {
		if err := x.cache.Set(ctx, alertKey(a.AlertID), a, x.ttl); err != nil {
			return fmt.Errorf("index alert %s: %w", a.AlertID, err)
		}
	}
	return nil
}

// Lookup returns the indexed alert; ok is false when it expired or was never seen.
func (x *AlertIndex) Lookup(ctx context.Context, id string) (models.Alert, bool, error) {
	var a models.Alert
	err := x.cache.Get(ctx, alertKey(id), &a)
	if errors.Is(err, cache.ErrCacheMiss) {
		return models.Alert{}, false, nil
	}
	if err != nil {
		return models.Alert{}, false, fmt.Errorf("lookup alert %s: %w", id, err)
	}
	return a, true, nil
}

func (x *AlertIndex) Close() error { return nil }

var _ drepo.FeedSink = (*AlertIndex)(nil)
