package app

import (
	"context"

	"github.com/arbx-labs/routeval/business/evaluation/domain"
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/arbx-labs/routeval/internal/logger"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// liquidityComfort is the depth ($1M) below which thin books start
	// contributing to the risk score.
	liquidityComfort = decimal.NewFromInt(1_000_000)

	// epsilon guards reward/risk divisions near zero.
	epsilon = decimal.RequireFromString("0.0000000001")
)

// execTimeMs estimates wall-clock execution time per hop count.
func execTimeMs(route *routing.Route) int64 {
	var ms int64
	switch route.Hops() {
	case 2:
		ms = 100
	case 3:
		ms = 150
	default:
		ms = 200
	}
	return ms + route.BridgeLatency().Milliseconds()
}

// RiskAnalyzer converts a profit report into a risk-adjusted sizing
// recommendation.
type RiskAnalyzer struct {
	maxSlippageBps  decimal.Decimal
	kellyMultiplier decimal.Decimal // fraction of full Kelly to use
	maxFraction     decimal.Decimal // hard cap on the recommended fraction
	log             *logger.Logger
}

// NewRiskAnalyzer creates a RiskAnalyzer. kellyMultiplier 0.25 with
// maxFraction 0.25 gives quarter-Kelly sizing.
func NewRiskAnalyzer(maxSlippageBps, kellyMultiplier, maxFraction decimal.Decimal, log *logger.Logger) *RiskAnalyzer {
	return &RiskAnalyzer{
		maxSlippageBps:  maxSlippageBps,
		kellyMultiplier: kellyMultiplier,
		maxFraction:     maxFraction,
		log:             log,
	}
}

// Score computes the 0-100 risk score as a weighted sum of four
// components: profit shortfall (30), slippage (25), thin liquidity (25),
// and route complexity (10 per hop beyond the second).
func (a *RiskAnalyzer) Score(route *routing.Route, report *domain.ProfitReport) decimal.Decimal {
	fifty := decimal.NewFromInt(50)

	// Shortfall is judged on the unmargined profit; the safety margin is
	// a reporting haircut, not extra risk.
	netBps := decimal.Zero
	if report.Capital.IsPositive() {
		netBps = report.NetProfit.Div(report.Capital).Mul(decimal.NewFromInt(10_000))
	}

	shortfall := decimal.Max(decimal.Zero, fifty.Sub(netBps)).
		Div(fifty).Mul(decimal.NewFromInt(30))

	slippage := report.SlippageBps.Div(a.maxSlippageBps).Mul(decimal.NewFromInt(25))

	liquidity := decimal.Max(decimal.Zero, liquidityComfort.Sub(route.MinLiquidity())).
		Div(liquidityComfort).Mul(decimal.NewFromInt(25))

	complexity := decimal.NewFromInt(int64(route.Hops() - 2)).Mul(decimal.NewFromInt(10))

	score := shortfall.Add(slippage).Add(liquidity).Add(complexity)

	return clamp(score, decimal.Zero, hundred)
}

// Exposure sums five pessimistic cost multiples: 2x worst-case slippage,
// 1.5x fees, 2x gas, 1% of capital for thin books, and a time-at-risk
// term proportional to estimated execution time.
func (a *RiskAnalyzer) Exposure(route *routing.Route, report *domain.ProfitReport) decimal.Decimal {
	two := decimal.NewFromInt(2)

	slippageRisk := report.TotalSlippage.Mul(two)
	feeRisk := report.TotalFees.Mul(decimal.RequireFromString("1.5"))
	gasRisk := report.TotalGas.Mul(two)
	liquidityRisk := report.Capital.Mul(decimal.RequireFromString("0.01"))

	seconds := decimal.NewFromInt(execTimeMs(route)).Div(decimal.NewFromInt(1000))
	timeRisk := report.Capital.Mul(seconds).Mul(decimal.RequireFromString("0.001"))

	return slippageRisk.Add(feeRisk).Add(gasRisk).Add(liquidityRisk).Add(timeRisk)
}

// Assess composes score, exposure, win probability, expected value, and
// quarter-Kelly sizing into a full assessment.
func (a *RiskAnalyzer) Assess(ctx context.Context, route *routing.Route, report *domain.ProfitReport) *domain.RiskAssessment {
	score := a.Score(route, report)
	exposure := a.Exposure(route, report)
	reward := report.Reported

	winProb := a.winProbability(report.ProfitBps, score)
	loseProb := one.Sub(winProb)

	ev := reward.Mul(winProb).Sub(exposure.Mul(loseProb))
	sharpe := reward.Div(exposure.Add(epsilon))

	breakEven := decimal.Zero
	if denom := reward.Add(exposure); denom.IsPositive() {
		breakEven = exposure.Div(denom)
	}

	kelly, recommended := a.kelly(ctx, winProb, reward, exposure)

	suggested := report.Capital.Mul(recommended)
	if maxSafe := MaxSafeCapital(route); suggested.GreaterThan(maxSafe) {
		suggested = maxSafe
	}

	return &domain.RiskAssessment{
		Score:           score,
		Level:           domain.RiskLevelFromScore(score),
		Exposure:        exposure,
		RiskReward:      reward.Div(exposure.Add(epsilon)),
		WinProbability:  winProb,
		ExpectedValue:   ev,
		SharpeLike:      sharpe,
		BreakEvenRate:   breakEven,
		MaxDrawdown:     exposure.Mul(decimal.RequireFromString("1.5")),
		KellyFraction:   kelly,
		RecommendedFrac: recommended,
		SuggestedCap:    suggested,
		ExecTimeMs:      execTimeMs(route),
	}
}

// winProbability grows with profit margin and shrinks with risk, bounded
// to [0.1, 0.95] so no opportunity is ever treated as certain either way.
func (a *RiskAnalyzer) winProbability(profitBps, score decimal.Decimal) decimal.Decimal {
	margin := decimal.Min(
		decimal.RequireFromString("0.95"),
		profitBps.Div(decimal.NewFromInt(200)),
	)

	p := margin.Mul(hundred.Sub(score).Div(hundred))

	return clamp(p, decimal.RequireFromString("0.1"), decimal.RequireFromString("0.95"))
}

// kelly returns the full Kelly fraction and the fractional-Kelly
// recommendation. Negative edge or a degenerate zero expected loss both
// size to zero rather than erroring.
func (a *RiskAnalyzer) kelly(ctx context.Context, winProb, expectedWin, expectedLoss decimal.Decimal) (full, recommended decimal.Decimal) {
	if !expectedLoss.IsPositive() {
		a.log.Warn(ctx, "zero expected loss in kelly sizing, recommending zero",
			"expected_win", expectedWin.String())
		return decimal.Zero, decimal.Zero
	}

	b := expectedWin.Div(expectedLoss)
	if !b.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	full = winProb.Mul(b).Sub(one.Sub(winProb)).Div(b)
	recommended = clamp(full.Mul(a.kellyMultiplier), decimal.Zero, a.maxFraction)

	return full, recommended
}

// MaxSafeCapital caps deployable capital at a fraction of the thinnest
// leg's depth: 10% normally, 5% for four-hop routes where rounding error
// compounds.
func MaxSafeCapital(route *routing.Route) decimal.Decimal {
	frac := decimal.RequireFromString("0.10")
	if route.Hops() == 4 {
		frac = decimal.RequireFromString("0.05")
	}
	return route.MinLiquidity().Mul(frac)
}

// MinViableCapital is the smallest capital worth deploying per hop
// count; below it fees and gas dominate any realistic edge.
func MinViableCapital(route *routing.Route) decimal.Decimal {
	switch route.Hops() {
	case 2:
		return decimal.NewFromInt(1000)
	case 3:
		return decimal.NewFromInt(2000)
	default:
		return decimal.NewFromInt(5000)
	}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
