package usecase

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"SentinelFeed/internal/domain/models"
)

// Rand is the subset of *math/rand.Rand the simulators draw from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// AlertSimulator fabricates alerts from the fixed catalog.
type AlertSimulator struct {
	rnd   Rand
	newID func() string
	now   func() time.Time
}

type AlertSimulatorOption func(*AlertSimulator)

// WithIDGenerator overrides the alert ID source.
func WithIDGenerator(fn func() string) AlertSimulatorOption {
	return func(s *AlertSimulator) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(fn func() time.Time) AlertSimulatorOption {
	return func(s *AlertSimulator) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewAlertSimulator creates a simulator. A nil rnd falls back to a time-seeded source.
func NewAlertSimulator(rnd Rand, opts ...AlertSimulatorOption) *AlertSimulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &AlertSimulator{rnd: rnd, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next draws one template uniformly and stamps it with a fresh ID and the current time.
func (s *AlertSimulator) Next() models.Alert {
	t := alertCatalog[s.rnd.Intn(len(alertCatalog))]
	return models.Alert{
		AlertID:   s.newID(),
		Product:   t.product,
		AlertType: t.alertType,
		Message:   t.message,
		RiskScore: t.riskScore,
		Timestamp: s.now().UTC(),
		Details:   t.details,
	}
}
