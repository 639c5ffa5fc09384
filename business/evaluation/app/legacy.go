// Package app contains application services and port definitions for the evaluation context.
package app

import (
	"context"
	"fmt"

	"github.com/arbx-labs/routeval/business/evaluation/domain"
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/arbx-labs/routeval/internal/logger"
	"github.com/shopspring/decimal"
)

var (
	// referenceLiquidityUnit is the trade size ($100k) at which a venue's
	// slippage factor applies at face value.
	referenceLiquidityUnit = decimal.NewFromInt(100_000)

	// sizeAmplifyThreshold is the multiple of the reference unit beyond
	// which slippage grows non-linearly.
	sizeAmplifyThreshold = decimal.NewFromInt(5)

	// slippageCeiling caps per-leg slippage at 5%.
	slippageCeiling = decimal.RequireFromString("0.05")

	bpsPerUnit = decimal.NewFromInt(10_000)
)

// RouteCalculator simulates sequential execution of a route under a
// fixed capital amount.
type RouteCalculator struct {
	minProfitBps   decimal.Decimal
	maxSlippageBps decimal.Decimal
	safetyMargin   decimal.Decimal // fraction shaved off the reported profit
	log            *logger.Logger
}

// NewRouteCalculator creates a RouteCalculator with the given thresholds.
func NewRouteCalculator(minProfitBps, maxSlippageBps, safetyMargin decimal.Decimal, log *logger.Logger) *RouteCalculator {
	return &RouteCalculator{
		minProfitBps:   minProfitBps,
		maxSlippageBps: maxSlippageBps,
		safetyMargin:   safetyMargin,
		log:            log,
	}
}

// Calculate walks the route leg by leg: taker fee, then a size-scaled
// slippage haircut, then price conversion (buy legs divide by ask, sell
// legs multiply by bid). Gas is subtracted after the final leg, and the
// safety margin shaves the reported profit.
//
// A nil report with a nil error means "no opportunity": the reported
// profit fell below the minimum threshold. That is an expected outcome,
// not a failure.
func (c *RouteCalculator) Calculate(ctx context.Context, route *routing.Route, capital decimal.Decimal) (*domain.ProfitReport, error) {
	if !capital.IsPositive() {
		// Out-of-range numeric input is downgraded, never a crash.
		c.log.Warn(ctx, "anomalous capital, treating as no opportunity",
			"route", route.ID, "capital", capital.String())
		return nil, nil
	}

	amount := capital
	feeFrac := decimal.Zero
	slipFrac := decimal.Zero

	for _, leg := range route.Legs {
		amount = amount.Mul(decimal.NewFromInt(1).Sub(leg.Venue.FeeRate))
		feeFrac = feeFrac.Add(leg.Venue.FeeRate)

		slip := c.legSlippage(amount, leg)
		slipFrac = slipFrac.Add(slip)
		amount = amount.Mul(decimal.NewFromInt(1).Sub(slip))

		switch leg.Side {
		case routing.SideBuy:
			amount = amount.Div(leg.Ask)
		case routing.SideSell:
			amount = amount.Mul(leg.Bid)
		}
	}

	slippageBps := slipFrac.Mul(bpsPerUnit)
	if slippageBps.GreaterThan(c.maxSlippageBps) {
		return nil, apperror.Validation(apperror.CodeSlippageExceeded,
			fmt.Sprintf("route %s: slippage %s bps exceeds %s bps", route.ID, slippageBps.StringFixed(2), c.maxSlippageBps))
	}

	gross := amount
	gas := route.TotalGas()
	net := gross.Sub(gas).Sub(capital)
	reported := net.Mul(decimal.NewFromInt(1).Sub(c.safetyMargin))
	profitBps := reported.Div(capital).Mul(bpsPerUnit)

	report := &domain.ProfitReport{
		Capital:       capital,
		GrossProceeds: gross,
		TotalFees:     capital.Mul(feeFrac),
		TotalGas:      gas,
		TotalSlippage: capital.Mul(slipFrac),
		SlippageBps:   slippageBps,
		NetProfit:     net,
		Reported:      reported,
		ProfitBps:     profitBps,
		IsProfitable:  profitBps.GreaterThanOrEqual(c.minProfitBps),
	}

	if !report.IsProfitable {
		c.log.Debug(ctx, "below profit threshold",
			"route", route.ID, "profit_bps", profitBps.StringFixed(2))
		return nil, nil
	}

	return report, nil
}

// legSlippage models per-leg slippage as linear in trade size, amplified
// for orders beyond 5x the reference unit and capped at the ceiling.
func (c *RouteCalculator) legSlippage(amount decimal.Decimal, leg routing.TradingLeg) decimal.Decimal {
	sizeFactor := amount.Div(referenceLiquidityUnit)
	slip := leg.Venue.SlippageFactor.Mul(sizeFactor)

	if sizeFactor.GreaterThan(sizeAmplifyThreshold) {
		amplifier := decimal.NewFromInt(1).
			Add(sizeFactor.Sub(sizeAmplifyThreshold).Mul(decimal.RequireFromString("0.1")))
		slip = slip.Mul(amplifier)
	}

	if slip.GreaterThan(slippageCeiling) {
		slip = slippageCeiling
	}

	return slip
}
