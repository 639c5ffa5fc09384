package app

import (
	"context"
	"testing"

	"github.com/arbx-labs/routeval/business/evaluation/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSelector() *HybridSelector {
	return NewHybridSelector(
		decimal.RequireFromString("1.0"),
		decimal.RequireFromString("1.5"),
	)
}

func TestSelectSpreadBands(t *testing.T) {
	selector := newTestSelector()

	legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(30)}
	universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(500)}

	tests := []struct {
		name   string
		spread string
		want   domain.Model
	}{
		{"tiny spread", "0.2", domain.ModelLegacy},
		{"just below band", "0.99", domain.ModelLegacy},
		{"upper band edge", "1.5", domain.ModelUniversal},
		{"wide spread", "2.0", domain.ModelUniversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selector.Select(decimal.RequireFromString(tt.spread), legacy, universal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectBandComparesProfit(t *testing.T) {
	selector := newTestSelector()
	spread := decimal.RequireFromString("1.2")

	t.Run("universal wins on higher profit", func(t *testing.T) {
		legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(100)}
		universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(250)}
		assert.Equal(t, domain.ModelUniversal, selector.Select(spread, legacy, universal))
	})

	t.Run("legacy wins on higher profit", func(t *testing.T) {
		legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(300)}
		universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(250)}
		assert.Equal(t, domain.ModelLegacy, selector.Select(spread, legacy, universal))
	})

	t.Run("tie resolves to legacy", func(t *testing.T) {
		legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(250)}
		universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(250)}
		assert.Equal(t, domain.ModelLegacy, selector.Select(spread, legacy, universal))
	})

	t.Run("missing universal forfeits", func(t *testing.T) {
		legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(10)}
		assert.Equal(t, domain.ModelLegacy, selector.Select(spread, legacy, nil))
	})

	t.Run("missing legacy forfeits", func(t *testing.T) {
		universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(10)}
		assert.Equal(t, domain.ModelUniversal, selector.Select(spread, nil, universal))
	})
}

func TestSelectForfeitOverridesBands(t *testing.T) {
	selector := newTestSelector()

	legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(150)}
	universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(900)}

	t.Run("wide spread without universal stays legacy", func(t *testing.T) {
		got := selector.Select(decimal.RequireFromString("2.0"), legacy, nil)
		assert.Equal(t, domain.ModelLegacy, got)
	})

	t.Run("narrow spread without legacy stays universal", func(t *testing.T) {
		got := selector.Select(decimal.RequireFromString("0.5"), nil, universal)
		assert.Equal(t, domain.ModelUniversal, got)
	})
}

func TestSelectDeterministic(t *testing.T) {
	selector := newTestSelector()
	spread := decimal.RequireFromString("1.3")

	legacy := &domain.ProfitReport{Reported: decimal.NewFromInt(120)}
	universal := &domain.UniversalResult{AdjustedProfit: decimal.NewFromInt(119)}

	first := selector.Select(spread, legacy, universal)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, selector.Select(spread, legacy, universal))
	}
}

// TestHybridCrossover exercises both models end to end across the spread
// regimes: thin spreads must favor the legacy simulation (the loan fee
// drags the universal model negative), wide spreads must flip to the
// universal model's volume-optimized profit.
func TestHybridCrossover(t *testing.T) {
	ctx := context.Background()
	legacyCalc := newTestCalculator()
	universalCalc := newTestUniversal()
	selector := newTestSelector()
	params := testFlashParams(1_000_000)

	t.Run("thin spread chooses legacy", func(t *testing.T) {
		// 0.5% spread with low fees: legacy stays positive, universal
		// goes negative under the loan fee.
		route := makeRoute(t,
			legSpec{"USDT", "ETH", "buy", "0.0003", "1.0", "0.0001", "99.9", "100", 5_000_000},
			legSpec{"ETH", "USDT", "sell", "0.0003", "1.5", "0.0001", "100.5", "100.6", 5_000_000},
		)

		report, err := legacyCalc.Calculate(ctx, route, decimal.NewFromInt(10_000))
		require.NoError(t, err)
		require.NotNil(t, report, "legacy should clear the threshold at 0.5%% spread")
		assert.True(t, report.Reported.IsPositive())

		universal, err := universalCalc.CalculateArbitrage(ctx, route, params)
		require.NoError(t, err)
		require.NotNil(t, universal)
		assert.False(t, universal.IsProfitable, "loan fee should dominate at 0.5%% spread")

		assert.Equal(t, domain.ModelLegacy, selector.Select(route.SpreadPct(), report, universal))
	})

	t.Run("wide spread chooses universal", func(t *testing.T) {
		route := makeRoute(t,
			legSpec{"USDT", "ETH", "buy", "0.0003", "1.0", "0.0001", "99.9", "100", 5_000_000},
			legSpec{"ETH", "USDT", "sell", "0.0003", "1.5", "0.0001", "102", "102.1", 5_000_000},
		)

		report, err := legacyCalc.Calculate(ctx, route, decimal.NewFromInt(10_000))
		require.NoError(t, err)
		require.NotNil(t, report)

		universal, err := universalCalc.CalculateArbitrage(ctx, route, params)
		require.NoError(t, err)
		require.NotNil(t, universal)
		require.True(t, universal.IsProfitable)

		assert.True(t, universal.AdjustedProfit.GreaterThan(report.Reported),
			"volume-optimized profit should exceed fixed-capital profit at 2%% spread")
		assert.Equal(t, domain.ModelUniversal, selector.Select(route.SpreadPct(), report, universal))
	})
}
