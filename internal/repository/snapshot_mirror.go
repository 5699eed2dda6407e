package repository

import (
	"context"
	"fmt"
	"time"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	"SentinelFeed/pkg/cache"
)

var snapshotKey = cache.GenerateKey("feed", "snapshot")

// SnapshotMirror keeps the latest feed snapshot in a cache so other processes
// can read the dashboard state without talking to this service.
type SnapshotMirror struct {
	cache cache.Service
	ttl   time.Duration
}

func NewSnapshotMirror(c cache.Service, ttl time.Duration) *SnapshotMirror {
	return &SnapshotMirror{cache: c, ttl: ttl}
}

func (m *SnapshotMirror) Name() string { return "redis" }

func (m *SnapshotMirror) Consume(ctx context.Context, ev models.FeedEvent) error {
	if err := m.cache.Set(ctx, snapshotKey, ev.Snapshot, m.ttl); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}
	return nil
}

// Latest reads the mirrored snapshot back.
func (m *SnapshotMirror) Latest(ctx context.Context) (models.FeedSnapshot, error) {
	var snap models.FeedSnapshot
	if err := m.cache.Get(ctx, snapshotKey, &snap); err != nil {
		return models.FeedSnapshot{}, fmt.Errorf("read mirrored snapshot: %w", err)
	}
	return snap, nil
}

// Close removes the mirrored snapshot so readers do not mistake a stopped feed
// for a running one, then closes the cache.
func (m *SnapshotMirror) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.cache.Delete(ctx, snapshotKey); err != nil {
		_ = m.cache.Close()
		return fmt.Errorf("drop mirrored snapshot: %w", err)
	}
	return m.cache.Close()
}

var _ drepo.FeedSink = (*SnapshotMirror)(nil)
