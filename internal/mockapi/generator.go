package mockapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/pkg/util"
)

const (
	alertSpacing   = 5 * time.Minute
	naiveTimestamp = "2006-01-02T15:04:05.000000"
)

var (
	swapLocations = []string{"Nairobi", "Mombasa", "Kisumu", "Eldoret"}
	products      = []string{string(models.ProductSwapGuard), string(models.ProductBetShield)}
)

// WireAlert is an alert the way the fraud backend serializes it: timestamps are
// zone-less UTC.
type WireAlert struct {
	AlertID   string            `json:"alert_id"`
	Product   string            `json:"product"`
	AlertType string            `json:"alert_type"`
	Message   string            `json:"message"`
	RiskScore int               `json:"risk_score"`
	Timestamp string            `json:"timestamp"`
	Details   map[string]string `json:"details"`
}

type AlertsResponse struct {
	Alerts []WireAlert `json:"alerts"`
	Count  int         `json:"count"`
}

type SwapGuardWire struct {
	TotalChecksToday int `json:"total_checks_today"`
	FraudsPrevented  int `json:"frauds_prevented"`
	AverageRiskScore int `json:"average_risk_score"`
	ActiveMonitoring int `json:"active_monitoring"`
}

type BetShieldWire struct {
	TotalBetsAnalyzed    int `json:"total_bets_analyzed"`
	FraudsPrevented      int `json:"frauds_prevented"`
	MultiAccountsBlocked int `json:"multi_accounts_blocked"`
	BonusAbuseCases      int `json:"bonus_abuse_cases"`
}

type StatsResponse struct {
	SwapGuard SwapGuardWire `json:"swapguard"`
	BetShield BetShieldWire `json:"betshield"`
	Timestamp string        `json:"timestamp"`
}

// Generator produces random backend payloads. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewGenerator(faker *gofakeit.Faker, now func() time.Time) *Generator {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{faker: faker, now: now}
}

// RecentAlerts returns limit alerts, newest first, spaced five minutes apart.
// An empty product mixes both products.
func (g *Generator) RecentAlerts(limit int, product string) AlertsResponse {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	alerts := make([]WireAlert, 0, limit)
	for i := 0; i < limit; i++ {
		p := product
		if p == "" {
			p = g.faker.RandomString(products)
		}
		ts := now.Add(-time.Duration(i) * alertSpacing).Format(naiveTimestamp)
		if p == string(models.ProductSwapGuard) {
			alerts = append(alerts, g.swapAlert(ts))
		} else {
			alerts = append(alerts, g.betAlert(ts))
		}
	}
	return AlertsResponse{Alerts: alerts, Count: len(alerts)}
}

func (g *Generator) swapAlert(ts string) WireAlert {
	return WireAlert{
		AlertID:   g.alertID(),
		Product:   string(models.ProductSwapGuard),
		AlertType: g.alertType(models.ProductSwapGuard),
		Message:   "Suspicious SIM swap detected",
		RiskScore: g.faker.Number(60, 95),
		Timestamp: ts,
		Details: map[string]string{
			"phone":    fmt.Sprintf("+25471%d", g.faker.Number(1000000, 9999999)),
			"location": g.faker.RandomString(swapLocations),
		},
	}
}

func (g *Generator) betAlert(ts string) WireAlert {
	return WireAlert{
		AlertID:   g.alertID(),
		Product:   string(models.ProductBetShield),
		AlertType: g.alertType(models.ProductBetShield),
		Message:   "Potential fraud detected",
		RiskScore: g.faker.Number(65, 98),
		Timestamp: ts,
		Details: map[string]string{
			"user_id": fmt.Sprintf("user_%d", g.faker.Number(1000, 9999)),
			"amount":  "KSh " + util.FormatThousands(g.faker.Number(5000, 50000)),
		},
	}
}

func (g *Generator) alertID() string {
	return fmt.Sprintf("alert_%d", g.faker.Number(10000, 99999))
}

func (g *Generator) alertType(p models.Product) string {
	types := models.AlertTypes(p)
	return string(types[g.faker.Number(0, len(types)-1)])
}

// Stats returns aggregate counters in the backend's snake_case shape.
func (g *Generator) Stats() StatsResponse {
	g.mu.Lock()
	defer g.mu.Unlock()

	return StatsResponse{
		SwapGuard: SwapGuardWire{
			TotalChecksToday: g.faker.Number(1200, 1500),
			FraudsPrevented:  g.faker.Number(40, 60),
			AverageRiskScore: g.faker.Number(20, 30),
			ActiveMonitoring: g.faker.Number(8000, 9500),
		},
		BetShield: BetShieldWire{
			TotalBetsAnalyzed:    g.faker.Number(40000, 50000),
			FraudsPrevented:      g.faker.Number(120, 150),
			MultiAccountsBlocked: g.faker.Number(15, 25),
			BonusAbuseCases:      g.faker.Number(8, 15),
		},
		Timestamp: g.now().UTC().Format(naiveTimestamp),
	}
}
