package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"SentinelFeed/pkg/util"
)

type Product string

const (
	ProductSwapGuard Product = "swapguard"
	ProductBetShield Product = "betshield"
)

type AlertType string

const (
	// swapguard
	AlertHighRisk   AlertType = "high_risk"
	AlertMediumRisk AlertType = "medium_risk"
	AlertBlocked    AlertType = "blocked"

	// betshield
	AlertMultiAccount      AlertType = "multi_account"
	AlertBonusAbuse        AlertType = "bonus_abuse"
	AlertSuspiciousPattern AlertType = "suspicious_pattern"
)

var alertTypesByProduct = map[Product][]AlertType{
	ProductSwapGuard: {AlertHighRisk, AlertMediumRisk, AlertBlocked},
	ProductBetShield: {AlertMultiAccount, AlertBonusAbuse, AlertSuspiciousPattern},
}

// AlertTypes lists the alert types a product may raise.
func AlertTypes(p Product) []AlertType {
	return append([]AlertType(nil), alertTypesByProduct[p]...)
}

// Details holds the product-specific auxiliary fields. swapguard alerts carry
// Phone and Location, betshield alerts carry UserID and optionally Amount.
type Details struct {
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

// Alert is one detected (or simulated) fraud event.
type Alert struct {
	AlertID   string    `json:"alert_id" validate:"required"`
	Product   Product   `json:"product" validate:"required,oneof=swapguard betshield"`
	AlertType AlertType `json:"alert_type" validate:"required"`
	Message   string    `json:"message"`
	RiskScore int       `json:"risk_score" validate:"gte=0,lte=100"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Details   Details   `json:"details"`
}

var validate = validator.New()

// Validate checks scalar ranges and the product-dependent shape of the alert.
func (a Alert) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("alert %q: %w", a.AlertID, err)
	}

	legal := false
	for _, t := range alertTypesByProduct[a.Product] {
		if t == a.AlertType {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("alert %q: type %s not valid for %s", a.AlertID, a.AlertType, a.Product)
	}

	d := a.Details
	switch a.Product {
	case ProductSwapGuard:
		if d.Phone == "" || d.Location == "" {
			return fmt.Errorf("alert %q: swapguard details need phone and location", a.AlertID)
		}
		if d.UserID != "" || d.Amount != "" {
			return fmt.Errorf("alert %q: swapguard details carry betshield fields", a.AlertID)
		}
	case ProductBetShield:
		if d.UserID == "" {
			return fmt.Errorf("alert %q: betshield details need user_id", a.AlertID)
		}
		if d.Phone != "" || d.Location != "" {
			return fmt.Errorf("alert %q: betshield details carry swapguard fields", a.AlertID)
		}
	}
	return nil
}

// UnmarshalJSON accepts any ISO-8601 timestamp, including the zone-less form the
// backend emits.
func (a *Alert) UnmarshalJSON(b []byte) error {
	type alias Alert
	var raw struct {
		alias
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = Alert(raw.alias)
	if raw.Timestamp != "" {
		ts, ok := util.ParseTime(raw.Timestamp)
		if !ok {
			return fmt.Errorf("alert %q: bad timestamp %q", a.AlertID, raw.Timestamp)
		}
		a.Timestamp = ts
	}
	return nil
}

type RiskBand string

const (
	RiskHigh   RiskBand = "high"
	RiskMedium RiskBand = "medium"
	RiskLow    RiskBand = "low"
)

// BandFor maps a risk score onto the dashboard's colour bands.
func BandFor(score int) RiskBand {
	switch {
	case score >= 80:
		return RiskHigh
	case score >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeverityOf classifies an alert type for the stream's left-border colour.
func SeverityOf(t AlertType) Severity {
	switch t {
	case AlertHighRisk, AlertMultiAccount, AlertBonusAbuse, AlertBlocked:
		return SeverityCritical
	case AlertMediumRisk, AlertSuspiciousPattern:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
