package repository

import (
	"time"

	"SentinelFeed/internal/domain/models"
)

// AlertRecord is the shape alerts leave the service in.
type AlertRecord struct {
	models.Alert
	Mode     models.ConnectionMode `json:"mode"`
	RiskBand models.RiskBand       `json:"risk_band"`
	Severity models.Severity       `json:"severity"`
	SeenAt   time.Time             `json:"seen_at"`
}

func newAlertRecord(a models.Alert, snap models.FeedSnapshot) AlertRecord {
	return AlertRecord{
		Alert:    a,
		Mode:     snap.Mode,
		RiskBand: models.BandFor(a.RiskScore),
		Severity: models.SeverityOf(a.AlertType),
		SeenAt:   snap.UpdatedAt,
	}
}
