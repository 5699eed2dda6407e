package models

// AlertsRequest is the query of GET /api/feed/alerts.
type AlertsRequest struct {
	Limit   int    `query:"limit" default:"8" validate:"gte=1,lte=8"`
	Product string `query:"product" validate:"omitempty,oneof=swapguard betshield"`
}

// RecentAlertsRequest is the query of the backend's GET /api/v1/alerts/recent.
type RecentAlertsRequest struct {
	Limit   int    `query:"limit" default:"10" validate:"gte=1,lte=100"`
	Product string `query:"product" validate:"omitempty,oneof=swapguard betshield"`
}
