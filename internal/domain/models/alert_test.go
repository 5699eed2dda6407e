package models

import (
	"encoding/json"
	"testing"
	"time"
)

func swapAlert() Alert {
	return Alert{
		AlertID:   "a1",
		Product:   ProductSwapGuard,
		AlertType: AlertHighRisk,
		Message:   "High-risk SIM swap detected",
		RiskScore: 94,
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Details:   Details{Phone: "+254712***890", Location: "Mombasa"},
	}
}

func TestAlertValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Alert)
		wantErr bool
	}{
		{"valid swapguard", func(a *Alert) {}, false},
		{"valid betshield", func(a *Alert) {
			a.Product = ProductBetShield
			a.AlertType = AlertBonusAbuse
			a.Details = Details{UserID: "User_4521", Amount: "KSh 35,000"}
		}, false},
		{"betshield without amount", func(a *Alert) {
			a.Product = ProductBetShield
			a.AlertType = AlertMultiAccount
			a.Details = Details{UserID: "User_1"}
		}, false},
		{"risk above 100", func(a *Alert) { a.RiskScore = 101 }, true},
		{"negative risk", func(a *Alert) { a.RiskScore = -1 }, true},
		{"unknown product", func(a *Alert) { a.Product = "cardguard" }, true},
		{"cross-product type", func(a *Alert) { a.AlertType = AlertBonusAbuse }, true},
		{"missing location", func(a *Alert) { a.Details.Location = "" }, true},
		{"mixed details", func(a *Alert) { a.Details.UserID = "User_1" }, true},
		{"missing id", func(a *Alert) { a.AlertID = "" }, true},
		{"zero timestamp", func(a *Alert) { a.Timestamp = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := swapAlert()
			tt.mutate(&a)
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAlertUnmarshalNaiveTimestamp(t *testing.T) {
	body := `{"alert_id":"alert_12345","product":"betshield","alert_type":"multi_account",
		"message":"Potential fraud detected","risk_score":77,
		"timestamp":"2025-03-01T12:30:00.250000",
		"details":{"user_id":"user_1234","amount":"KSh 12,000"}}`
	var a Alert
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2025, 3, 1, 12, 30, 0, 250000000, time.UTC)
	if !a.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v", a.Timestamp)
	}
	if a.Details.UserID != "user_1234" || a.RiskScore != 77 {
		t.Fatalf("unexpected alert %+v", a)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAlertUnmarshalBadTimestamp(t *testing.T) {
	var a Alert
	if err := json.Unmarshal([]byte(`{"alert_id":"x","timestamp":"soon"}`), &a); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBandFor(t *testing.T) {
	cases := map[int]RiskBand{100: RiskHigh, 80: RiskHigh, 79: RiskMedium, 50: RiskMedium, 49: RiskLow, 0: RiskLow}
	for score, want := range cases {
		if got := BandFor(score); got != want {
			t.Fatalf("BandFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestSeverityOf(t *testing.T) {
	if SeverityOf(AlertBlocked) != SeverityCritical {
		t.Fatalf("blocked should be critical")
	}
	if SeverityOf(AlertSuspiciousPattern) != SeverityWarning {
		t.Fatalf("suspicious_pattern should be warning")
	}
	if SeverityOf("other") != SeverityInfo {
		t.Fatalf("unknown type should be info")
	}
}
