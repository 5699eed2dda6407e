package usecase

import "SentinelFeed/internal/domain/models"

// alertTemplate is one preset entry of the simulated alert catalog. The
// simulator only fills in the ID and the timestamp.
type alertTemplate struct {
	product   models.Product
	alertType models.AlertType
	message   string
	riskScore int
	details   models.Details
}

var alertCatalog = []alertTemplate{
	{
		product:   models.ProductSwapGuard,
		alertType: models.AlertHighRisk,
		message:   "High-risk SIM swap detected",
		riskScore: 94,
		details:   models.Details{Phone: "+254712***890", Location: "Mombasa"},
	},
	{
		product:   models.ProductSwapGuard,
		alertType: models.AlertMediumRisk,
		message:   "Unusual SIM swap request",
		riskScore: 67,
		details:   models.Details{Phone: "+254723***456", Location: "Nairobi"},
	},
	{
		product:   models.ProductSwapGuard,
		alertType: models.AlertBlocked,
		message:   "SIM swap blocked - critical risk",
		riskScore: 98,
		details:   models.Details{Phone: "+254734***123", Location: "Eldoret"},
	},
	{
		product:   models.ProductBetShield,
		alertType: models.AlertMultiAccount,
		message:   "Multi-accounting detected",
		riskScore: 91,
		details:   models.Details{UserID: "User_7892", Amount: "KSh 45,000"},
	},
	{
		product:   models.ProductBetShield,
		alertType: models.AlertBonusAbuse,
		message:   "Bonus abuse pattern identified",
		riskScore: 88,
		details:   models.Details{UserID: "User_4521", Amount: "KSh 35,000"},
	},
	{
		product:   models.ProductBetShield,
		alertType: models.AlertSuspiciousPattern,
		message:   "Suspicious betting pattern",
		riskScore: 73,
		details:   models.Details{UserID: "User_3344", Amount: "KSh 12,000"},
	},
}

// CatalogSize is the number of distinct templates the simulator draws from.
func CatalogSize() int { return len(alertCatalog) }
