package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/arbx-labs/routeval/internal/apperror"
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/shopspring/decimal"
)

// LegQuote is the per-leg tuple supplied by the data-ingestion layer:
// one bid/ask/fee/liquidity/gas entry per candidate trade leg.
type LegQuote struct {
	VenueID        string          `json:"venue_id"`
	Chain          string          `json:"chain,omitempty"`
	Base           string          `json:"base"`
	Quote          string          `json:"quote"`
	Side           string          `json:"side"`
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	FeeRate        decimal.Decimal `json:"fee_rate"`
	Liquidity      decimal.Decimal `json:"liquidity"`
	SlippageFactor decimal.Decimal `json:"slippage_factor"`
	PoolAddress    string          `json:"pool_address,omitempty"`

	// Gas is quoted either directly in USD or as limit+price in wei
	// with the chain's native token price for conversion.
	GasCostUSD     decimal.Decimal `json:"gas_cost_usd"`
	GasLimit       uint64          `json:"gas_limit,omitempty"`
	GasPriceWei    string          `json:"gas_price_wei,omitempty"`
	NativePriceUSD decimal.Decimal `json:"native_price_usd,omitempty"`

	Bridge          bool            `json:"bridge,omitempty"`
	BridgeFee       decimal.Decimal `json:"bridge_fee,omitempty"`
	BridgeLatencyMs int64           `json:"bridge_latency_ms,omitempty"`
}

// PoolStats carries the extra inputs needed for flash-loan evaluation.
type PoolStats struct {
	TVL          decimal.Decimal `json:"tvl"`
	FlashFeeRate decimal.Decimal `json:"flash_fee_rate"`
	Volatility   decimal.Decimal `json:"volatility"`
}

// RouteQuote is one candidate route in a snapshot.
type RouteQuote struct {
	Legs []LegQuote `json:"legs"`
	Pool *PoolStats `json:"pool,omitempty"`
}

// Snapshot is a complete, internally consistent market snapshot for one
// scan cycle. The ingestion layer must deliver it whole; the evaluation
// core never tolerates partial snapshots.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Routes    []RouteQuote `json:"routes"`
}

// Validate checks structural integrity of the snapshot. Out-of-range but
// well-typed numeric values are the evaluator's concern, not validation's.
func (s *Snapshot) Validate() error {
	if len(s.Routes) == 0 {
		return apperror.Validation(apperror.CodeSnapshotInvalid, "snapshot carries no routes")
	}

	for i, rq := range s.Routes {
		if len(rq.Legs) == 0 {
			return apperror.Validation(apperror.CodeSnapshotInvalid,
				fmt.Sprintf("route %d carries no legs", i))
		}

		for j, lq := range rq.Legs {
			if lq.VenueID == "" || lq.Base == "" || lq.Quote == "" {
				return apperror.Validation(apperror.CodeSnapshotInvalid,
					fmt.Sprintf("route %d leg %d: missing venue or pair identifiers", i, j))
			}
		}
	}

	return nil
}

// GasUSD resolves the leg's gas cost in USD, converting from wei when the
// snapshot quotes gas in chain-native terms.
func (q LegQuote) GasUSD() (decimal.Decimal, error) {
	if q.GasPriceWei == "" {
		return q.GasCostUSD, nil
	}

	wei, ok := new(big.Int).SetString(q.GasPriceWei, 10)
	if !ok || wei.Sign() < 0 {
		return decimal.Zero, apperror.Validation(apperror.CodeAnomalousInput,
			fmt.Sprintf("venue %s: unparseable gas price %q", q.VenueID, q.GasPriceWei))
	}

	return NewGasCost(q.GasLimit, wei, q.NativePriceUSD).USD, nil
}

// ToLeg converts the raw quote into a validated trading leg. Zero or
// negative prices surface as AnomalousInput so the caller can downgrade
// the route to "no opportunity" instead of crashing the batch.
func (q LegQuote) ToLeg() (routing.TradingLeg, error) {
	if !q.Bid.IsPositive() || !q.Ask.IsPositive() {
		return routing.TradingLeg{}, apperror.Validation(apperror.CodeAnomalousInput,
			fmt.Sprintf("%s-%s@%s: bid=%s ask=%s", q.Base, q.Quote, q.VenueID, q.Bid, q.Ask))
	}

	gasUSD, err := q.GasUSD()
	if err != nil {
		return routing.TradingLeg{}, err
	}

	venue, err := routing.NewVenue(q.VenueID, q.Chain, q.FeeRate, gasUSD, q.Liquidity, q.SlippageFactor, q.PoolAddress)
	if err != nil {
		return routing.TradingLeg{}, err
	}

	side := routing.Side(q.Side)

	if q.Bridge {
		return routing.NewBridgeLeg(q.Base, q.Quote, side, venue, q.Bid, q.Ask, q.Liquidity,
			q.BridgeFee, time.Duration(q.BridgeLatencyMs)*time.Millisecond)
	}

	return routing.NewLeg(q.Base, q.Quote, side, venue, q.Bid, q.Ask, q.Liquidity)
}

// ToRoute builds a validated route from the quote's legs.
func (rq RouteQuote) ToRoute() (*routing.Route, error) {
	legs := make([]routing.TradingLeg, 0, len(rq.Legs))
	for _, lq := range rq.Legs {
		leg, err := lq.ToLeg()
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	return routing.BuildRoute(legs)
}
