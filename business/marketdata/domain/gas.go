// Package domain contains the core domain types for the marketdata context.
package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// GasCost represents the gas cost for an on-chain leg.
type GasCost struct {
	GasLimit uint64
	GasPrice *big.Int // in wei
	TotalWei *big.Int // gasLimit * gasPrice
	Native   decimal.Decimal
	USD      decimal.Decimal // converted using the chain's native token price
}

// NewGasCost converts gas parameters into a USD cost estimate.
func NewGasCost(gasLimit uint64, gasPriceWei *big.Int, nativePriceUSD decimal.Decimal) *GasCost {
	totalWei := new(big.Int).Mul(gasPriceWei, big.NewInt(int64(gasLimit)))

	// Convert wei to the native unit (1 token = 10^18 wei)
	weiPerToken := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	nativeFloat := new(big.Float).Quo(
		new(big.Float).SetInt(totalWei),
		new(big.Float).SetInt(weiPerToken),
	)
	nativeStr := nativeFloat.Text('f', 18)
	native, _ := decimal.NewFromString(nativeStr)

	usd := native.Mul(nativePriceUSD)

	return &GasCost{
		GasLimit: gasLimit,
		GasPrice: gasPriceWei,
		TotalWei: totalWei,
		Native:   native,
		USD:      usd,
	}
}
