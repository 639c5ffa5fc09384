// Package domain contains the core domain types for the routing context.
package domain

import (
	"fmt"

	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Venue represents a trading venue (exchange or on-chain pool).
// Immutable per evaluation; supplied by the market-data layer.
type Venue struct {
	ID             string
	Chain          string          // e.g., "ethereum", "arbitrum"; empty for CEX venues
	FeeRate        decimal.Decimal // taker fee as a fraction (0.001 = 0.1%)
	GasCost        decimal.Decimal // flat gas cost per leg, in quote currency
	Liquidity      decimal.Decimal // available depth for the pair, in quote currency
	SlippageFactor decimal.Decimal // slippage sensitivity per $100k of trade size
	PoolAddress    string          // optional on-chain pool address
}

// NewVenue validates and builds a Venue.
func NewVenue(id, chain string, feeRate, gasCost, liquidity, slippageFactor decimal.Decimal, poolAddress string) (Venue, error) {
	if id == "" {
		return Venue{}, apperror.Validation(apperror.CodeInvalidVenue, "empty venue id")
	}

	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Venue{}, apperror.Validation(apperror.CodeInvalidVenue,
			fmt.Sprintf("venue %s: fee rate %s outside [0, 1)", id, feeRate))
	}

	if gasCost.IsNegative() {
		return Venue{}, apperror.Validation(apperror.CodeInvalidVenue,
			fmt.Sprintf("venue %s: negative gas cost %s", id, gasCost))
	}

	if poolAddress != "" && !common.IsHexAddress(poolAddress) {
		return Venue{}, apperror.Validation(apperror.CodeInvalidVenue,
			fmt.Sprintf("venue %s: malformed pool address %q", id, poolAddress))
	}

	return Venue{
		ID:             id,
		Chain:          chain,
		FeeRate:        feeRate,
		GasCost:        gasCost,
		Liquidity:      liquidity,
		SlippageFactor: slippageFactor,
		PoolAddress:    poolAddress,
	}, nil
}

// IsOnChain reports whether the venue settles on a blockchain.
func (v Venue) IsOnChain() bool {
	return v.Chain != ""
}
