package domain

import (
	"fmt"
	"time"

	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/shopspring/decimal"
)

// Side represents the side of a trade (buy or sell).
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradingLeg is one directed conversion base -> quote executed at a
// specific Venue, carrying the venue's bid/ask at evaluation time.
// Created fresh per evaluation from the market snapshot; never mutated.
type TradingLeg struct {
	Base          string
	Quote         string
	Side          Side
	Venue         Venue
	Bid           decimal.Decimal
	Ask           decimal.Decimal
	Liquidity     decimal.Decimal // venue depth for this pair
	Bridge        bool            // true if this leg crosses a chain boundary
	BridgeFee     decimal.Decimal // flat bridge fee, quote currency
	BridgeLatency time.Duration   // estimated bridge settlement time
}

// NewLeg validates and builds a TradingLeg.
func NewLeg(base, quote string, side Side, venue Venue, bid, ask, liquidity decimal.Decimal) (TradingLeg, error) {
	if base == "" || quote == "" || base == quote {
		return TradingLeg{}, apperror.Validation(apperror.CodeInvalidRoute,
			fmt.Sprintf("invalid currency pair %q-%q", base, quote))
	}

	if side != SideBuy && side != SideSell {
		return TradingLeg{}, apperror.Validation(apperror.CodeInvalidRoute,
			fmt.Sprintf("unknown trade side %q", side))
	}

	if !bid.IsPositive() || !ask.IsPositive() {
		return TradingLeg{}, apperror.Validation(apperror.CodeInvalidLegPrice,
			fmt.Sprintf("%s-%s@%s: bid=%s ask=%s", base, quote, venue.ID, bid, ask))
	}

	return TradingLeg{
		Base:      base,
		Quote:     quote,
		Side:      side,
		Venue:     venue,
		Bid:       bid,
		Ask:       ask,
		Liquidity: liquidity,
	}, nil
}

// NewBridgeLeg builds a leg that crosses a chain boundary.
func NewBridgeLeg(base, quote string, side Side, venue Venue, bid, ask, liquidity, bridgeFee decimal.Decimal, latency time.Duration) (TradingLeg, error) {
	leg, err := NewLeg(base, quote, side, venue, bid, ask, liquidity)
	if err != nil {
		return TradingLeg{}, err
	}

	if bridgeFee.IsNegative() {
		return TradingLeg{}, apperror.Validation(apperror.CodeInvalidRoute,
			fmt.Sprintf("%s-%s: negative bridge fee %s", base, quote, bridgeFee))
	}

	leg.Bridge = true
	leg.BridgeFee = bridgeFee
	leg.BridgeLatency = latency

	return leg, nil
}

// Pair returns the leg's pair symbol (e.g., "BTC-USDT").
func (l TradingLeg) Pair() string {
	return l.Base + "-" + l.Quote
}

// EffectiveLiquidity returns the tighter of the leg's own depth and the
// venue's overall depth.
func (l TradingLeg) EffectiveLiquidity() decimal.Decimal {
	if l.Liquidity.IsPositive() && l.Liquidity.LessThan(l.Venue.Liquidity) {
		return l.Liquidity
	}
	return l.Venue.Liquidity
}
