package usecase

import (
	"math/rand"
	"time"

	"SentinelFeed/internal/domain/models"
)

const fraudIncrementChance = 0.95

// StatsDrifter nudges the simulated counters upward. Only totalChecks, totalBets
// and the two fraudsPrevented counters move.
type StatsDrifter struct {
	rnd Rand
}

func NewStatsDrifter(rnd Rand) *StatsDrifter {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StatsDrifter{rnd: rnd}
}

// Drift returns s with one tick of drift applied. The draw order is fixed:
// swapguard checks, swapguard frauds, betshield bets, betshield frauds.
func (d *StatsDrifter) Drift(s models.Statistics) models.Statistics {
	s.SwapGuard.TotalChecks += int64(d.rnd.Intn(5))
	if d.rnd.Float64() > fraudIncrementChance {
		s.SwapGuard.FraudsPrevented++
	}
	s.BetShield.TotalBets += int64(d.rnd.Intn(20))
	if d.rnd.Float64() > fraudIncrementChance {
		s.BetShield.FraudsPrevented++
	}
	return s
}
