package domain

import (
	"math/big"
	"testing"

	"github.com/arbx-labs/routeval/internal/apperror"
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/shopspring/decimal"
)

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		wantCode apperror.Code
	}{
		{
			name:     "empty snapshot",
			snapshot: Snapshot{},
			wantCode: apperror.CodeSnapshotInvalid,
		},
		{
			name: "route without legs",
			snapshot: Snapshot{
				Routes: []RouteQuote{{}},
			},
			wantCode: apperror.CodeSnapshotInvalid,
		},
		{
			name: "leg without venue",
			snapshot: Snapshot{
				Routes: []RouteQuote{{Legs: []LegQuote{{Base: "BTC", Quote: "USDT"}}}},
			},
			wantCode: apperror.CodeSnapshotInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			if !apperror.IsCode(err, tt.wantCode) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantCode)
			}
		})
	}
}

func TestLegQuoteToLeg(t *testing.T) {
	q := LegQuote{
		VenueID:        "kraken",
		Base:           "USDT",
		Quote:          "BTC",
		Side:           "buy",
		Bid:            decimal.RequireFromString("42000"),
		Ask:            decimal.RequireFromString("42010"),
		FeeRate:        decimal.RequireFromString("0.001"),
		Liquidity:      decimal.NewFromInt(5_000_000),
		SlippageFactor: decimal.RequireFromString("0.0001"),
		GasCostUSD:     decimal.RequireFromString("1.0"),
	}

	leg, err := q.ToLeg()
	if err != nil {
		t.Fatalf("ToLeg: %v", err)
	}

	if leg.Side != routing.SideBuy {
		t.Errorf("Side = %v, want buy", leg.Side)
	}
	if !leg.Venue.GasCost.Equal(decimal.RequireFromString("1.0")) {
		t.Errorf("GasCost = %s, want 1.0", leg.Venue.GasCost)
	}
}

func TestLegQuoteToLegAnomalousPrice(t *testing.T) {
	q := LegQuote{
		VenueID: "kraken",
		Base:    "USDT",
		Quote:   "BTC",
		Side:    "buy",
		Bid:     decimal.Zero,
		Ask:     decimal.RequireFromString("42010"),
	}

	_, err := q.ToLeg()
	if !apperror.IsCode(err, apperror.CodeAnomalousInput) {
		t.Errorf("ToLeg error = %v, want CodeAnomalousInput", err)
	}
}

func TestLegQuoteGasFromWei(t *testing.T) {
	q := LegQuote{
		VenueID:        "uniswap",
		Chain:          "ethereum",
		Base:           "USDT",
		Quote:          "ETH",
		Side:           "buy",
		GasLimit:       150_000,
		GasPriceWei:    "20000000000", // 20 gwei
		NativePriceUSD: decimal.NewFromInt(2500),
	}

	got, err := q.GasUSD()
	if err != nil {
		t.Fatalf("GasUSD: %v", err)
	}

	// 150000 * 20 gwei = 0.003 ETH = $7.50 at $2500
	if !got.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("GasUSD = %s, want 7.5", got)
	}
}

func TestNewGasCost(t *testing.T) {
	gas := NewGasCost(21_000, big.NewInt(30_000_000_000), decimal.NewFromInt(2000))

	// 21000 * 30 gwei = 0.00063 ETH = $1.26 at $2000
	if !gas.Native.Equal(decimal.RequireFromString("0.00063")) {
		t.Errorf("Native = %s, want 0.00063", gas.Native)
	}
	if !gas.USD.Equal(decimal.RequireFromString("1.26")) {
		t.Errorf("USD = %s, want 1.26", gas.USD)
	}
}
