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

// UniversalCalculator models profit for leveraged (flash-loan) execution
// and finds the best loan size under TVL constraints.
type UniversalCalculator struct {
	volatilityCoeff decimal.Decimal // widens slippage under turbulence
	maxSlippage     decimal.Decimal // per-side slippage cap, as a fraction
	minViableVolume decimal.Decimal
	iterations      int // optimizer iteration cap; fixed for determinism
	log             *logger.Logger
}

// NewUniversalCalculator creates a UniversalCalculator.
func NewUniversalCalculator(volatilityCoeff, maxSlippage, minViableVolume decimal.Decimal, iterations int, log *logger.Logger) *UniversalCalculator {
	return &UniversalCalculator{
		volatilityCoeff: volatilityCoeff,
		maxSlippage:     maxSlippage,
		minViableVolume: minViableVolume,
		iterations:      iterations,
		log:             log,
	}
}

// DynamicSlippage estimates one side's slippage fraction for a given
// volume: super-linear in volume/liquidity, widened by a volatility
// multiplier, capped at the configured maximum.
func (c *UniversalCalculator) DynamicSlippage(volume, liquidity, volatility decimal.Decimal) decimal.Decimal {
	if !liquidity.IsPositive() {
		return c.maxSlippage
	}

	utilization := volume.Div(liquidity)
	base := utilization.Mul(one.Add(utilization))
	widened := base.Mul(one.Add(volatility.Mul(c.volatilityCoeff)))

	return decimal.Min(widened, c.maxSlippage)
}

// Profit evaluates the master equation at a fixed volume:
// V * [ P_sell*(1-S_sell) / (P_buy*(1+S_buy)) - 1 - F_rate ].
func (c *UniversalCalculator) Profit(volume, buyPrice, sellPrice, slipBuy, slipSell, feeRate decimal.Decimal) decimal.Decimal {
	effBuy := buyPrice.Mul(one.Add(slipBuy))
	effSell := sellPrice.Mul(one.Sub(slipSell))

	return volume.Mul(effSell.Div(effBuy).Sub(one).Sub(feeRate))
}

// profitAt recomputes both sides' dynamic slippage for the volume and
// evaluates the master equation.
func (c *UniversalCalculator) profitAt(volume, buyPrice, sellPrice, buyLiq, sellLiq decimal.Decimal, params domain.FlashLoanParams) decimal.Decimal {
	slipBuy := c.DynamicSlippage(volume, buyLiq, params.Volatility)
	slipSell := c.DynamicSlippage(volume, sellLiq, params.Volatility)

	return c.Profit(volume, buyPrice, sellPrice, slipBuy, slipSell, params.FeeRate)
}

// OptimalVolume maximizes net profit over the admissible volume range
// [CMin*TVL, CMax*TVL]. Profit is concave in volume (slippage grows with
// size while the gross margin is fixed), so a bounded ternary search
// converges; the iteration cap keeps results deterministic.
func (c *UniversalCalculator) OptimalVolume(buyPrice, sellPrice, buyLiq, sellLiq decimal.Decimal, params domain.FlashLoanParams) (decimal.Decimal, error) {
	if !params.TVL.IsPositive() {
		return decimal.Zero, apperror.Validation(apperror.CodeInsufficientLiquidity,
			fmt.Sprintf("tvl %s is not positive", params.TVL))
	}

	lo, hi := params.VMin(), params.VMax()
	if hi.LessThan(c.minViableVolume) {
		return decimal.Zero, apperror.Validation(apperror.CodeInsufficientLiquidity,
			fmt.Sprintf("max volume %s below viable minimum %s", hi.StringFixed(2), c.minViableVolume))
	}

	third := decimal.NewFromInt(3)
	for i := 0; i < c.iterations; i++ {
		m1 := lo.Add(hi.Sub(lo).Div(third))
		m2 := hi.Sub(hi.Sub(lo).Div(third))

		p1 := c.profitAt(m1, buyPrice, sellPrice, buyLiq, sellLiq, params)
		p2 := c.profitAt(m2, buyPrice, sellPrice, buyLiq, sellLiq, params)

		if p1.LessThan(p2) {
			lo = m1
		} else {
			hi = m2
		}
	}

	return clamp(lo.Add(hi).Div(decimal.NewFromInt(2)), params.VMin(), params.VMax()), nil
}

// CalculateArbitrage runs the full flash-loan evaluation for a route:
// optimal volume, master-equation profit, then execution-probability,
// volatility, and time-decay discounting with gas and bridge fees off
// the top.
//
// A nil result with a nil error means the inputs were anomalous (zero or
// negative price); the route is treated as "no opportunity".
func (c *UniversalCalculator) CalculateArbitrage(ctx context.Context, route *routing.Route, params domain.FlashLoanParams) (*domain.UniversalResult, error) {
	entry := route.Legs[0]
	exit := route.Legs[len(route.Legs)-1]

	buyPrice := entry.Ask
	sellPrice := exit.Bid

	if !buyPrice.IsPositive() || !sellPrice.IsPositive() {
		c.log.Warn(ctx, "anomalous prices, treating as no opportunity",
			"route", route.ID, "buy", buyPrice.String(), "sell", sellPrice.String())
		return nil, nil
	}

	buyLiq := entry.EffectiveLiquidity()
	sellLiq := exit.EffectiveLiquidity()

	volume, err := c.OptimalVolume(buyPrice, sellPrice, buyLiq, sellLiq, params)
	if err != nil {
		return nil, err
	}

	slipBuy := c.DynamicSlippage(volume, buyLiq, params.Volatility)
	slipSell := c.DynamicSlippage(volume, sellLiq, params.Volatility)
	netProfit := c.Profit(volume, buyPrice, sellPrice, slipBuy, slipSell, params.FeeRate)

	volDiscount := one.Sub(params.Volatility.Mul(c.volatilityCoeff))
	if volDiscount.IsNegative() {
		volDiscount = decimal.Zero
	}

	execProb := c.executionProbability(route, params.Volatility)
	timeDecay := c.timeDecay(params.Volatility)

	gas := route.TotalGas()
	bridgeFee := route.TotalBridgeFees()

	adjusted := netProfit.Mul(volDiscount).Mul(execProb).Mul(timeDecay).
		Sub(gas).Sub(bridgeFee)

	return &domain.UniversalResult{
		Volume:          volume,
		NetProfit:       netProfit,
		AdjustedProfit:  adjusted,
		SlippageBuy:     slipBuy,
		SlippageSell:    slipSell,
		ExecProbability: execProb,
		TimeDecay:       timeDecay,
		Gas:             gas,
		BridgeFee:       bridgeFee,
		LoanFee:         volume.Mul(params.FeeRate),
		IsProfitable:    adjusted.IsPositive(),
	}, nil
}

// executionProbability discounts for contention: turbulent markets and
// longer routes both widen the window in which the edge can be taken.
func (c *UniversalCalculator) executionProbability(route *routing.Route, volatility decimal.Decimal) decimal.Decimal {
	p := decimal.RequireFromString("0.95").
		Sub(volatility.Mul(c.volatilityCoeff)).
		Sub(decimal.NewFromInt(int64(route.Hops() - 2)).Mul(decimal.RequireFromString("0.05")))

	return clamp(p, decimal.RequireFromString("0.5"), decimal.RequireFromString("0.95"))
}

// timeDecay models MEV exposure while the loan is in flight; it never
// discounts below half.
func (c *UniversalCalculator) timeDecay(volatility decimal.Decimal) decimal.Decimal {
	return decimal.Max(
		decimal.RequireFromString("0.5"),
		one.Sub(volatility.Mul(decimal.RequireFromString("0.5"))),
	)
}
