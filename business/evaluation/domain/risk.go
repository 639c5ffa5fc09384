package domain

import (
	"github.com/shopspring/decimal"
)

// RiskLevel bands a risk score: 0-30 LOW, 30-60 MEDIUM, 60-100 HIGH.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevelFromScore maps a 0-100 score onto its band.
func RiskLevelFromScore(score decimal.Decimal) RiskLevel {
	switch {
	case score.LessThan(decimal.NewFromInt(30)):
		return RiskLow
	case score.LessThan(decimal.NewFromInt(60)):
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskAssessment is the risk-adjusted view of a ProfitReport.
// Derived deterministically; never mutated.
type RiskAssessment struct {
	Score           decimal.Decimal // 0-100, lower is better
	Level           RiskLevel
	Exposure        decimal.Decimal // total pessimistic risk, in currency
	RiskReward      decimal.Decimal // reward / exposure
	WinProbability  decimal.Decimal // estimated, in [0,1]
	ExpectedValue   decimal.Decimal
	SharpeLike      decimal.Decimal // reward / risk
	BreakEvenRate   decimal.Decimal // win probability at which EV == 0
	MaxDrawdown     decimal.Decimal
	KellyFraction   decimal.Decimal // full Kelly f*, may be negative
	RecommendedFrac decimal.Decimal // quarter-Kelly, clamped to [0, 0.25]
	SuggestedCap    decimal.Decimal // RecommendedFrac * capital, liquidity-capped
	ExecTimeMs      int64
}
