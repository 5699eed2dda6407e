package models

import "encoding/json"

type SwapGuardStats struct {
	TotalChecks      int64 `json:"totalChecks"`
	FraudsPrevented  int64 `json:"fraudsPrevented"`
	RiskScore        int   `json:"riskScore"`
	ActiveMonitoring int64 `json:"activeMonitoring"`
}

type BetShieldStats struct {
	TotalBets       int64 `json:"totalBets"`
	FraudsPrevented int64 `json:"fraudsPrevented"`
	MultiAccounts   int64 `json:"multiAccounts"`
	BonusAbuse      int64 `json:"bonusAbuse"`
}

// Statistics is the per-product counter snapshot shown on the dashboard.
type Statistics struct {
	SwapGuard SwapGuardStats `json:"swapguard"`
	BetShield BetShieldStats `json:"betshield"`
}

// InitialStatistics is the snapshot the dashboard starts from before any update.
func InitialStatistics() Statistics {
	return Statistics{
		SwapGuard: SwapGuardStats{
			TotalChecks:      1247,
			FraudsPrevented:  43,
			RiskScore:        23,
			ActiveMonitoring: 8934,
		},
		BetShield: BetShieldStats{
			TotalBets:       45231,
			FraudsPrevented: 127,
			MultiAccounts:   18,
			BonusAbuse:      9,
		},
	}
}

// UnmarshalJSON accepts both the dashboard's camelCase keys and the long
// snake_case keys of the backend's stats endpoint.
func (s *SwapGuardStats) UnmarshalJSON(b []byte) error {
	var raw struct {
		TotalChecks      *int64 `json:"totalChecks"`
		TotalChecksToday *int64 `json:"total_checks_today"`
		FraudsPrevented  *int64 `json:"fraudsPrevented"`
		FraudsSnake      *int64 `json:"frauds_prevented"`
		RiskScore        *int   `json:"riskScore"`
		AvgRiskScore     *int   `json:"average_risk_score"`
		ActiveMonitoring *int64 `json:"activeMonitoring"`
		ActiveSnake      *int64 `json:"active_monitoring"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.TotalChecks = firstInt64(raw.TotalChecks, raw.TotalChecksToday)
	s.FraudsPrevented = firstInt64(raw.FraudsPrevented, raw.FraudsSnake)
	s.RiskScore = int(firstInt64(intPtr64(raw.RiskScore), intPtr64(raw.AvgRiskScore)))
	s.ActiveMonitoring = firstInt64(raw.ActiveMonitoring, raw.ActiveSnake)
	return nil
}

func (s *BetShieldStats) UnmarshalJSON(b []byte) error {
	var raw struct {
		TotalBets         *int64 `json:"totalBets"`
		TotalBetsAnalyzed *int64 `json:"total_bets_analyzed"`
		FraudsPrevented   *int64 `json:"fraudsPrevented"`
		FraudsSnake       *int64 `json:"frauds_prevented"`
		MultiAccounts     *int64 `json:"multiAccounts"`
		MultiBlocked      *int64 `json:"multi_accounts_blocked"`
		BonusAbuse        *int64 `json:"bonusAbuse"`
		BonusCases        *int64 `json:"bonus_abuse_cases"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.TotalBets = firstInt64(raw.TotalBets, raw.TotalBetsAnalyzed)
	s.FraudsPrevented = firstInt64(raw.FraudsPrevented, raw.FraudsSnake)
	s.MultiAccounts = firstInt64(raw.MultiAccounts, raw.MultiBlocked)
	s.BonusAbuse = firstInt64(raw.BonusAbuse, raw.BonusCases)
	return nil
}

func firstInt64(vals ...*int64) int64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func intPtr64(v *int) *int64 {
	if v == nil {
		return nil
	}
	x := int64(*v)
	return &x
}
