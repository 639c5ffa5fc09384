package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDecide(t *testing.T) {
	minProfit := decimal.NewFromInt(30)

	tests := []struct {
		name      string
		netProfit string
		profitBps string
		riskScore string
		want      Action
	}{
		{"low risk above threshold", "33.65", "33.65", "4.8", ActionExecute},
		{"low risk below threshold", "20", "20", "4.8", ActionConsider},
		{"medium risk above threshold", "50", "50", "45", ActionConsider},
		{"high risk", "100", "100", "60", ActionSkip},
		{"very high risk", "100", "100", "95", ActionSkip},
		{"zero profit", "0", "0", "10", ActionSkip},
		{"negative profit", "-12", "-12", "10", ActionSkip},
		{"risk exactly at execute boundary", "50", "50", "30", ActionConsider},
		{"profit exactly at threshold", "30", "30", "29.9", ActionExecute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(d(tt.netProfit), d(tt.profitBps), d(tt.riskScore), minProfit)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		score string
		want  RiskLevel
	}{
		{"0", RiskLow},
		{"29.99", RiskLow},
		{"30", RiskMedium},
		{"59.99", RiskMedium},
		{"60", RiskHigh},
		{"100", RiskHigh},
	}

	for _, tt := range tests {
		if got := RiskLevelFromScore(d(tt.score)); got != tt.want {
			t.Errorf("RiskLevelFromScore(%s) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestFlashLoanParamsBounds(t *testing.T) {
	params := FlashLoanParams{
		TVL:  decimal.NewFromInt(1_000_000),
		CMin: d("0.05"),
		CMax: d("0.20"),
	}

	if !params.VMin().Equal(decimal.NewFromInt(50_000)) {
		t.Errorf("VMin = %s, want 50000", params.VMin())
	}
	if !params.VMax().Equal(decimal.NewFromInt(200_000)) {
		t.Errorf("VMax = %s, want 200000", params.VMax())
	}
}
