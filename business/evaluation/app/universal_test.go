package app

import (
	"context"
	"testing"

	"github.com/arbx-labs/routeval/business/evaluation/domain"
	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/shopspring/decimal"
)

func newTestUniversal() *UniversalCalculator {
	return NewUniversalCalculator(
		decimal.RequireFromString("0.5"),   // volatility coefficient
		decimal.RequireFromString("0.005"), // 0.5% per-side slippage cap
		decimal.NewFromInt(1000),
		100,
		testLogger(),
	)
}

func testFlashParams(tvl int64) domain.FlashLoanParams {
	return domain.FlashLoanParams{
		TVL:        decimal.NewFromInt(tvl),
		FeeRate:    decimal.RequireFromString("0.0009"),
		CMin:       decimal.RequireFromString("0.05"),
		CMax:       decimal.RequireFromString("0.20"),
		Volatility: decimal.RequireFromString("0.1"),
	}
}

func TestDynamicSlippageMonotone(t *testing.T) {
	calc := newTestUniversal()
	liquidity := decimal.NewFromInt(10_000_000)
	vol := decimal.RequireFromString("0.1")

	prev := decimal.Zero
	for _, volume := range []int64{1000, 10_000, 50_000, 100_000} {
		slip := calc.DynamicSlippage(decimal.NewFromInt(volume), liquidity, vol)
		if slip.LessThan(prev) {
			t.Errorf("slippage shrank as volume grew: %s < %s at volume %d", slip, prev, volume)
		}
		prev = slip
	}
}

func TestDynamicSlippageCapped(t *testing.T) {
	calc := newTestUniversal()

	slip := calc.DynamicSlippage(
		decimal.NewFromInt(1_000_000),
		decimal.NewFromInt(1_000_000), // 100% utilization
		decimal.RequireFromString("0.9"),
	)

	if !slip.Equal(decimal.RequireFromString("0.005")) {
		t.Errorf("slippage = %s, want capped at 0.005", slip)
	}
}

func TestDynamicSlippageVolatilityWidens(t *testing.T) {
	calc := newTestUniversal()
	volume := decimal.NewFromInt(10_000)
	liquidity := decimal.NewFromInt(50_000_000)

	calm := calc.DynamicSlippage(volume, liquidity, decimal.Zero)
	turbulent := calc.DynamicSlippage(volume, liquidity, decimal.RequireFromString("0.5"))

	if !turbulent.GreaterThan(calm) {
		t.Errorf("volatility did not widen slippage: %s <= %s", turbulent, calm)
	}
}

func TestOptimalVolumeWithinBounds(t *testing.T) {
	calc := newTestUniversal()
	params := testFlashParams(1_000_000)

	volume, err := calc.OptimalVolume(
		decimal.NewFromInt(100), decimal.NewFromInt(102),
		decimal.NewFromInt(5_000_000), decimal.NewFromInt(5_000_000),
		params,
	)
	if err != nil {
		t.Fatalf("OptimalVolume: %v", err)
	}

	if volume.LessThan(params.VMin()) || volume.GreaterThan(params.VMax()) {
		t.Errorf("volume %s outside [%s, %s]", volume, params.VMin(), params.VMax())
	}
}

func TestOptimalVolumeInsufficientLiquidity(t *testing.T) {
	calc := newTestUniversal()

	tests := []struct {
		name string
		tvl  int64
	}{
		{"zero tvl", 0},
		{"tvl below viable volume", 4000}, // CMax*4000 = 800 < 1000
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.OptimalVolume(
				decimal.NewFromInt(100), decimal.NewFromInt(102),
				decimal.NewFromInt(5_000_000), decimal.NewFromInt(5_000_000),
				testFlashParams(tt.tvl),
			)
			if !apperror.IsCode(err, apperror.CodeInsufficientLiquidity) {
				t.Errorf("OptimalVolume error = %v, want CodeInsufficientLiquidity", err)
			}
		})
	}
}

func TestCalculateArbitrageWideSpread(t *testing.T) {
	calc := newTestUniversal()

	// 2% spread: loan-fee drag and capped slippage leave plenty of edge.
	route := makeRoute(t,
		legSpec{"USDT", "ETH", "buy", "0.001", "1.0", "0.0001", "99.9", "100", 5_000_000},
		legSpec{"ETH", "USDT", "sell", "0.001", "1.5", "0.0001", "102", "102.1", 5_000_000},
	)

	res, err := calc.CalculateArbitrage(context.Background(), route, testFlashParams(1_000_000))
	if err != nil {
		t.Fatalf("CalculateArbitrage: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}

	if !res.IsProfitable {
		t.Errorf("2%% spread not profitable: adjusted=%s", res.AdjustedProfit)
	}

	if res.Volume.LessThan(decimal.NewFromInt(50_000)) || res.Volume.GreaterThan(decimal.NewFromInt(200_000)) {
		t.Errorf("Volume = %s, outside TVL bounds", res.Volume)
	}

	if !res.AdjustedProfit.LessThan(res.NetProfit) {
		t.Errorf("discounting did not reduce profit: adjusted %s >= net %s", res.AdjustedProfit, res.NetProfit)
	}

	if res.TimeDecay.LessThan(decimal.RequireFromString("0.5")) {
		t.Errorf("TimeDecay = %s, below floor", res.TimeDecay)
	}
}

func TestCalculateArbitrageThinSpread(t *testing.T) {
	calc := newTestUniversal()

	// 0.5% spread: the loan fee plus two sides of slippage dominate.
	route := makeRoute(t,
		legSpec{"USDT", "ETH", "buy", "0.001", "1.0", "0.0001", "99.9", "100", 5_000_000},
		legSpec{"ETH", "USDT", "sell", "0.001", "1.5", "0.0001", "100.5", "100.6", 5_000_000},
	)

	res, err := calc.CalculateArbitrage(context.Background(), route, testFlashParams(1_000_000))
	if err != nil {
		t.Fatalf("CalculateArbitrage: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}

	if res.IsProfitable {
		t.Errorf("0.5%% spread should not be profitable: adjusted=%s", res.AdjustedProfit)
	}
}

func TestCalculateArbitrageIdempotent(t *testing.T) {
	calc := newTestUniversal()
	ctx := context.Background()

	route := makeRoute(t,
		legSpec{"USDT", "ETH", "buy", "0.001", "1.0", "0.0001", "99.9", "100", 5_000_000},
		legSpec{"ETH", "USDT", "sell", "0.001", "1.5", "0.0001", "102", "102.1", 5_000_000},
	)

	first, err := calc.CalculateArbitrage(ctx, route, testFlashParams(1_000_000))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := calc.CalculateArbitrage(ctx, route, testFlashParams(1_000_000))
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if !first.Volume.Equal(second.Volume) || !first.AdjustedProfit.Equal(second.AdjustedProfit) {
		t.Errorf("repeated evaluation diverged: %+v vs %+v", first, second)
	}
}
