package api

import (
	"time"

	"SentinelFeed/internal/domain/models"
)

// AlertView is an alert with the dashboard's presentation lookups attached.
type AlertView struct {
	models.Alert
	RiskBand models.RiskBand `json:"risk_band"`
	Severity models.Severity `json:"severity"`
}

type ModeView struct {
	Mode      models.ConnectionMode `json:"mode"`
	ModeLabel string                `json:"mode_label"`
}

type SnapshotView struct {
	ModeView
	Alerts    []AlertView       `json:"alerts"`
	Stats     models.Statistics `json:"stats"`
	Version   uint64            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newAlertView(a models.Alert) AlertView {
	return AlertView{
		Alert:    a,
		RiskBand: models.BandFor(a.RiskScore),
		Severity: models.SeverityOf(a.AlertType),
	}
}

func newAlertViews(alerts []models.Alert) []AlertView {
	out := make([]AlertView, len(alerts))
	for i, a := range alerts {
		out[i] = newAlertView(a)
	}
	return out
}

func newModeView(m models.ConnectionMode) ModeView {
	return ModeView{Mode: m, ModeLabel: m.Label()}
}

// NewSnapshotView renders a feed snapshot for the read API and the stream.
func NewSnapshotView(s models.FeedSnapshot) SnapshotView {
	return SnapshotView{
		ModeView:  newModeView(s.Mode),
		Alerts:    newAlertViews(s.Alerts),
		Stats:     s.Stats,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt,
	}
}
