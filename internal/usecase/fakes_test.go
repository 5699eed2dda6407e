package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SentinelFeed/internal/domain/models"
)

// scriptedRand replays fixed draws and repeats the last one when exhausted.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

type fakeBackend struct {
	mu         sync.Mutex
	healthErr  error
	healthWait bool
	alerts     []models.Alert
	alertsErr  error
	stats      models.Statistics
	statsErr   error
	calls      map[string]int
}

func (b *fakeBackend) record(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = map[string]int{}
	}
	b.calls[name]++
}

func (b *fakeBackend) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *fakeBackend) Health(ctx context.Context) error {
	b.record("health")
	if b.healthWait {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.healthErr
}

func (b *fakeBackend) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	b.record("alerts")
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.alertsErr != nil {
		return nil, b.alertsErr
	}
	return append([]models.Alert{}, b.alerts...), nil
}

func (b *fakeBackend) Stats(ctx context.Context) (models.Statistics, error) {
	b.record("stats")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats, b.statsErr
}

func (b *fakeBackend) setAlerts(alerts []models.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = alerts
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func fixedClock() func() time.Time {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func liveAlert(id string, score int) models.Alert {
	return models.Alert{
		AlertID:   id,
		Product:   models.ProductBetShield,
		AlertType: models.AlertBonusAbuse,
		Message:   "Potential fraud detected",
		RiskScore: score,
		Timestamp: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Details:   models.Details{UserID: "user_1234", Amount: "KSh 5,000"},
	}
}
