package feed

import (
	"sync"
	"time"

	"SentinelFeed/internal/domain/models"
)

// State is the feed controller's state container: the alert buffer, the
// statistics snapshot and the connection mode. Mutators are meant to be called
// from a single owner goroutine; readers on any goroutine get copies.
type State struct {
	mu      sync.RWMutex
	mode    models.ConnectionMode
	buffer  *Buffer
	stats   models.Statistics
	version uint64
	updated time.Time
	now     func() time.Time
}

func NewState(capacity int, initial models.Statistics, now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	return &State{
		mode:    models.ModeConnecting,
		buffer:  NewBuffer(capacity),
		stats:   initial,
		updated: now(),
		now:     now,
	}
}

// SetMode records the connection mode.
func (s *State) SetMode(m models.ConnectionMode) models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	return s.commitLocked(nil)
}

// PushAlert inserts one alert at the head of the buffer.
func (s *State) PushAlert(a models.Alert) models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := !s.buffer.Contains(a.AlertID)
	s.buffer.Push(a)
	if fresh {
		return s.commitLocked([]models.Alert{a})
	}
	return s.commitLocked(nil)
}

// ReplaceAlerts swaps the buffer contents wholesale.
func (s *State) ReplaceAlerts(alerts []models.Alert) models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := alerts
	if len(kept) > s.buffer.Cap() {
		kept = kept[:s.buffer.Cap()]
	}
	var fresh []models.Alert
	for _, a := range kept {
		if !s.buffer.Contains(a.AlertID) {
			fresh = append(fresh, a)
		}
	}
	s.buffer.Replace(alerts)
	return s.commitLocked(fresh)
}

// SetStats replaces the statistics snapshot wholesale.
func (s *State) SetStats(st models.Statistics) models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
	return s.commitLocked(nil)
}

// UpdateStats applies fn to the current statistics.
func (s *State) UpdateStats(fn func(models.Statistics) models.Statistics) models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = fn(s.stats)
	return s.commitLocked(nil)
}

func (s *State) Mode() models.ConnectionMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer.Len()
}

// Snapshot returns a consistent copy of the whole state.
func (s *State) Snapshot() models.FeedSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) commitLocked(fresh []models.Alert) models.FeedEvent {
	s.version++
	s.updated = s.now()
	return models.FeedEvent{NewAlerts: fresh, Snapshot: s.snapshotLocked()}
}

func (s *State) snapshotLocked() models.FeedSnapshot {
	return models.FeedSnapshot{
		Mode:      s.mode,
		Alerts:    s.buffer.Snapshot(),
		Stats:     s.stats,
		Version:   s.version,
		UpdatedAt: s.updated,
	}
}
