// Package domain contains the core domain types for the evaluation context.
package domain

import (
	"github.com/shopspring/decimal"
)

// ProfitReport is the output of a fixed-capital route simulation.
// Created once per (route, capital) pair; never mutated.
type ProfitReport struct {
	Capital       decimal.Decimal
	GrossProceeds decimal.Decimal // proceeds after the final leg, before gas
	TotalFees     decimal.Decimal
	TotalGas      decimal.Decimal
	TotalSlippage decimal.Decimal // currency estimate across all legs
	SlippageBps   decimal.Decimal
	NetProfit     decimal.Decimal // proceeds - gas - capital, before the safety margin
	Reported      decimal.Decimal // NetProfit scaled down by the safety margin
	ProfitBps     decimal.Decimal // Reported / Capital * 10000
	IsProfitable  bool
}

// ROI returns the reported profit as a fraction of capital.
func (r *ProfitReport) ROI() decimal.Decimal {
	if !r.Capital.IsPositive() {
		return decimal.Zero
	}
	return r.Reported.Div(r.Capital)
}
