package app

import (
	"context"
	"testing"

	"github.com/arbx-labs/routeval/business/evaluation/domain"
	"github.com/shopspring/decimal"
)

func newTestAnalyzer() *RiskAnalyzer {
	return NewRiskAnalyzer(
		decimal.NewFromInt(50),
		decimal.RequireFromString("0.25"),
		decimal.RequireFromString("0.25"),
		testLogger(),
	)
}

func TestScoreScenarioA(t *testing.T) {
	calc := newTestCalculator()
	analyzer := newTestAnalyzer()

	route := scenarioARoute(t)
	report, err := calc.Calculate(context.Background(), route, decimal.NewFromInt(10_000))
	if err != nil || report == nil {
		t.Fatalf("Calculate: report=%v err=%v", report, err)
	}

	score, _ := analyzer.Score(route, report).Float64()
	if score < 4.0 || score > 6.0 {
		t.Errorf("Score = %f, want ≈5.0", score)
	}

	if level := domain.RiskLevelFromScore(analyzer.Score(route, report)); level != domain.RiskLow {
		t.Errorf("Level = %v, want LOW", level)
	}
}

func TestExposureComponents(t *testing.T) {
	analyzer := newTestAnalyzer()

	route := scenarioARoute(t) // 2 hops -> 100ms execution estimate
	report := &domain.ProfitReport{
		Capital:       decimal.NewFromInt(10_000),
		TotalFees:     decimal.NewFromInt(36),
		TotalGas:      decimal.RequireFromString("2.5"),
		TotalSlippage: decimal.NewFromInt(10),
	}

	// 2*10 + 1.5*36 + 2*2.5 + 0.01*10000 + 10000*0.1*0.001 = 180
	got := analyzer.Exposure(route, report)
	if !got.Equal(decimal.NewFromInt(180)) {
		t.Errorf("Exposure = %s, want 180", got)
	}
}

func TestKellyNegativeEdge(t *testing.T) {
	analyzer := newTestAnalyzer()

	// Win probability 0.159, expected win $33.49, expected loss $163.27:
	// full Kelly ≈ -3.94, recommendation must clamp to zero.
	full, recommended := analyzer.kelly(context.Background(),
		decimal.RequireFromString("0.159"),
		decimal.RequireFromString("33.49"),
		decimal.RequireFromString("163.27"),
	)

	f, _ := full.Float64()
	if f > -3.9 || f < -4.0 {
		t.Errorf("full Kelly = %f, want ≈-3.94", f)
	}

	if !recommended.IsZero() {
		t.Errorf("recommended = %s, want 0", recommended)
	}
}

func TestKellyBounds(t *testing.T) {
	analyzer := newTestAnalyzer()
	ctx := context.Background()

	tests := []struct {
		name             string
		p, win, loss     string
	}{
		{"strong edge", "0.9", "500", "50"},
		{"weak edge", "0.55", "100", "100"},
		{"no edge", "0.5", "100", "100"},
		{"negative edge", "0.2", "50", "200"},
		{"huge payoff", "0.95", "100000", "1"},
	}

	quarter := decimal.RequireFromString("0.25")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recommended := analyzer.kelly(ctx,
				decimal.RequireFromString(tt.p),
				decimal.RequireFromString(tt.win),
				decimal.RequireFromString(tt.loss),
			)
			if recommended.IsNegative() {
				t.Errorf("recommended = %s, negative", recommended)
			}
			if recommended.GreaterThan(quarter) {
				t.Errorf("recommended = %s, exceeds 0.25", recommended)
			}
		})
	}
}

func TestKellyZeroLossGuarded(t *testing.T) {
	analyzer := newTestAnalyzer()

	full, recommended := analyzer.kelly(context.Background(),
		decimal.RequireFromString("0.9"),
		decimal.NewFromInt(100),
		decimal.Zero,
	)

	if !full.IsZero() || !recommended.IsZero() {
		t.Errorf("zero expected loss: full=%s recommended=%s, want both 0", full, recommended)
	}
}

func TestAssessScenarioA(t *testing.T) {
	calc := newTestCalculator()
	analyzer := newTestAnalyzer()
	ctx := context.Background()

	route := scenarioARoute(t)
	report, err := calc.Calculate(ctx, route, decimal.NewFromInt(10_000))
	if err != nil || report == nil {
		t.Fatalf("Calculate: report=%v err=%v", report, err)
	}

	assessment := analyzer.Assess(ctx, route, report)

	if assessment.Level != domain.RiskLow {
		t.Errorf("Level = %v, want LOW", assessment.Level)
	}

	p, _ := assessment.WinProbability.Float64()
	if p < 0.1 || p > 0.95 {
		t.Errorf("WinProbability = %f, outside [0.1, 0.95]", p)
	}

	if assessment.RecommendedFrac.IsNegative() ||
		assessment.RecommendedFrac.GreaterThan(decimal.RequireFromString("0.25")) {
		t.Errorf("RecommendedFrac = %s, outside [0, 0.25]", assessment.RecommendedFrac)
	}

	if assessment.SuggestedCap.IsNegative() {
		t.Errorf("SuggestedCap = %s, negative", assessment.SuggestedCap)
	}

	// Suggested capital never exceeds 10% of the thinnest leg's depth.
	if maxSafe := MaxSafeCapital(route); assessment.SuggestedCap.GreaterThan(maxSafe) {
		t.Errorf("SuggestedCap = %s exceeds safe cap %s", assessment.SuggestedCap, maxSafe)
	}

	if assessment.ExecTimeMs != 100 {
		t.Errorf("ExecTimeMs = %d, want 100", assessment.ExecTimeMs)
	}
}

func TestScoreByHops(t *testing.T) {
	analyzer := newTestAnalyzer()

	report := &domain.ProfitReport{
		Capital:     decimal.NewFromInt(10_000),
		NetProfit:   decimal.NewFromInt(60), // 60 bps: zero shortfall component
		SlippageBps: decimal.Zero,
	}

	threeHop := makeRoute(t,
		legSpec{"USDT", "BTC", "buy", "0.001", "1.0", "0.0001", "42000", "42010", 5_000_000},
		legSpec{"BTC", "ETH", "sell", "0.001", "1.0", "0.0001", "16.80", "16.81", 5_000_000},
		legSpec{"ETH", "USDT", "sell", "0.001", "1.0", "0.0001", "2500", "2501", 5_000_000},
	)

	fourHop := makeRoute(t,
		legSpec{"USDT", "BTC", "buy", "0.001", "1.0", "0.0001", "42000", "42010", 5_000_000},
		legSpec{"BTC", "ETH", "sell", "0.001", "1.0", "0.0001", "16.80", "16.81", 5_000_000},
		legSpec{"ETH", "SOL", "sell", "0.001", "1.0", "0.0001", "17.20", "17.21", 5_000_000},
		legSpec{"SOL", "USDT", "sell", "0.001", "1.0", "0.0001", "145", "145.1", 5_000_000},
	)

	three := analyzer.Score(threeHop, report)
	four := analyzer.Score(fourHop, report)

	// Each extra hop adds 10 points of complexity risk.
	if !four.Sub(three).Equal(decimal.NewFromInt(10)) {
		t.Errorf("4-hop minus 3-hop score = %s, want 10", four.Sub(three))
	}
}
