package domain

import (
	"github.com/shopspring/decimal"
)

// FlashLoanParams bounds the admissible loan volume for leveraged
// execution: CMin*TVL <= V <= CMax*TVL.
type FlashLoanParams struct {
	TVL        decimal.Decimal
	FeeRate    decimal.Decimal // flash-loan fee, as a fraction
	CMin       decimal.Decimal // minimum liquidity-utilization coefficient
	CMax       decimal.Decimal // maximum liquidity-utilization coefficient
	Volatility decimal.Decimal // recent volatility estimate, as a fraction
}

// VMin returns the smallest admissible loan volume.
func (p FlashLoanParams) VMin() decimal.Decimal {
	return p.CMin.Mul(p.TVL)
}

// VMax returns the largest admissible loan volume.
func (p FlashLoanParams) VMax() decimal.Decimal {
	return p.CMax.Mul(p.TVL)
}

// UniversalResult is the output of the flash-loan profit equation at the
// optimizer's chosen volume.
type UniversalResult struct {
	Volume          decimal.Decimal // optimal loan volume
	NetProfit       decimal.Decimal // master-equation profit before discounting
	AdjustedProfit  decimal.Decimal // after volatility, execution, time-decay, gas, bridge
	SlippageBuy     decimal.Decimal
	SlippageSell    decimal.Decimal
	ExecProbability decimal.Decimal
	TimeDecay       decimal.Decimal // multiplicative survival factor, in [0.5, 1]
	Gas             decimal.Decimal
	BridgeFee       decimal.Decimal
	LoanFee         decimal.Decimal // Volume * FeeRate
	IsProfitable    bool
}
