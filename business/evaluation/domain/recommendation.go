package domain

import (
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/shopspring/decimal"
)

// Action is the final verdict on an opportunity.
type Action string

const (
	ActionExecute  Action = "EXECUTE"
	ActionConsider Action = "CONSIDER"
	ActionSkip     Action = "SKIP"
)

// Model identifies which profit model produced the numbers.
type Model string

const (
	ModelLegacy    Model = "legacy"
	ModelUniversal Model = "universal"
)

// Recommendation is the single record handed to the decision/execution
// layer: the chosen model's numbers plus the verdict.
type Recommendation struct {
	RouteID         string
	RouteType       routing.RouteType
	ModelUsed       Model
	CapitalOrVolume decimal.Decimal // capital for legacy, loan volume for universal
	NetProfit       decimal.Decimal
	ProfitBps       decimal.Decimal
	RiskScore       decimal.Decimal
	RiskLevel       RiskLevel
	RiskReward      decimal.Decimal
	ExpectedValue   decimal.Decimal
	KellyFraction   decimal.Decimal // quarter-Kelly recommended fraction
	Action          Action
}

// Decide applies the recommendation policy. EXECUTE requires risk below
// the LOW band ceiling and profit at or above the configured threshold;
// SKIP covers non-positive profit or HIGH risk; everything else is
// CONSIDER.
func Decide(netProfit, profitBps, riskScore, minProfitBps decimal.Decimal) Action {
	if !netProfit.IsPositive() || riskScore.GreaterThanOrEqual(decimal.NewFromInt(60)) {
		return ActionSkip
	}

	if riskScore.LessThan(decimal.NewFromInt(30)) && profitBps.GreaterThanOrEqual(minProfitBps) {
		return ActionExecute
	}

	return ActionConsider
}
