package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/shopspring/decimal"
)

// RouteType classifies a route by hop count and chain topology.
type RouteType string

const (
	RouteTwoHop     RouteType = "TWO_HOP"
	RouteThreeHop   RouteType = "THREE_HOP"
	RouteFourHop    RouteType = "FOUR_HOP"
	RouteCrossChain RouteType = "CROSS_CHAIN"
)

// String returns a human-readable description of the route type.
func (t RouteType) String() string {
	switch t {
	case RouteTwoHop:
		return "2-hop"
	case RouteThreeHop:
		return "3-hop"
	case RouteFourHop:
		return "4-hop"
	case RouteCrossChain:
		return "cross-chain"
	default:
		return "unknown"
	}
}

const (
	minHops = 2
	maxHops = 4
)

// Route is an ordered list of 2 to 4 trading legs whose token path
// chains: legs[i].Quote == legs[i+1].Base for all consecutive legs.
type Route struct {
	ID   string
	Legs []TradingLeg
}

// BuildRoute validates the leg chain and builds a Route.
func BuildRoute(legs []TradingLeg) (*Route, error) {
	if len(legs) < minHops || len(legs) > maxHops {
		return nil, apperror.Validation(apperror.CodeInvalidHopCount,
			fmt.Sprintf("got %d legs, want 2-4", len(legs)))
	}

	for i, leg := range legs {
		if !leg.Bid.IsPositive() || !leg.Ask.IsPositive() {
			return nil, apperror.Validation(apperror.CodeInvalidLegPrice,
				fmt.Sprintf("leg %d (%s@%s): bid=%s ask=%s", i, leg.Pair(), leg.Venue.ID, leg.Bid, leg.Ask))
		}

		if i > 0 && legs[i-1].Quote != leg.Base {
			return nil, apperror.Validation(apperror.CodeBrokenLegChain,
				fmt.Sprintf("leg %d: %s does not chain from %s", i, leg.Pair(), legs[i-1].Pair()))
		}
	}

	return &Route{
		ID:   routeID(legs),
		Legs: legs,
	}, nil
}

func routeID(legs []TradingLeg) string {
	parts := make([]string, 0, len(legs))
	for _, leg := range legs {
		parts = append(parts, leg.Pair()+"@"+leg.Venue.ID)
	}
	return strings.Join(parts, ">")
}

// Classify returns the route type. Any bridge leg makes the route
// cross-chain regardless of hop count.
func (r *Route) Classify() RouteType {
	if r.IsCrossChain() {
		return RouteCrossChain
	}

	switch len(r.Legs) {
	case 2:
		return RouteTwoHop
	case 3:
		return RouteThreeHop
	default:
		return RouteFourHop
	}
}

// Hops returns the number of legs in the route.
func (r *Route) Hops() int {
	return len(r.Legs)
}

// IsCrossChain reports whether any leg crosses a chain boundary.
func (r *Route) IsCrossChain() bool {
	for _, leg := range r.Legs {
		if leg.Bridge {
			return true
		}
	}
	return false
}

// IsCycle reports whether the token path returns to the starting asset.
func (r *Route) IsCycle() bool {
	return r.Legs[0].Base == r.Legs[len(r.Legs)-1].Quote
}

// Path returns the full token path (e.g., "BTC -> USDT -> BTC").
func (r *Route) Path() string {
	var sb strings.Builder
	sb.WriteString(r.Legs[0].Base)
	for _, leg := range r.Legs {
		sb.WriteString(" -> ")
		sb.WriteString(leg.Quote)
	}
	return sb.String()
}

// TotalGas returns the sum of all legs' flat gas costs.
func (r *Route) TotalGas() decimal.Decimal {
	total := decimal.Zero
	for _, leg := range r.Legs {
		total = total.Add(leg.Venue.GasCost)
	}
	return total
}

// TotalBridgeFees returns the sum of all bridge legs' flat fees.
func (r *Route) TotalBridgeFees() decimal.Decimal {
	total := decimal.Zero
	for _, leg := range r.Legs {
		if leg.Bridge {
			total = total.Add(leg.BridgeFee)
		}
	}
	return total
}

// BridgeLatency returns the cumulative estimated bridge settlement time.
func (r *Route) BridgeLatency() time.Duration {
	var total time.Duration
	for _, leg := range r.Legs {
		if leg.Bridge {
			total += leg.BridgeLatency
		}
	}
	return total
}

// MinLiquidity returns the thinnest leg's effective liquidity.
func (r *Route) MinLiquidity() decimal.Decimal {
	min := r.Legs[0].EffectiveLiquidity()
	for _, leg := range r.Legs[1:] {
		if l := leg.EffectiveLiquidity(); l.LessThan(min) {
			min = l
		}
	}
	return min
}

// SpreadPct returns the route's gross price edge as a percentage: the
// product of every leg's conversion ratio (1/ask buying, bid selling)
// minus one, before fees, slippage, and gas. Taking the full product
// keeps the figure dimensionless on triangular 3- and 4-hop cycles;
// for a 2-hop cycle it reduces to (exit bid - entry ask) / entry ask.
func (r *Route) SpreadPct() decimal.Decimal {
	ratio := decimal.NewFromInt(1)
	for _, leg := range r.Legs {
		if leg.Side == SideBuy {
			if !leg.Ask.IsPositive() {
				return decimal.Zero
			}
			ratio = ratio.Div(leg.Ask)
		} else {
			ratio = ratio.Mul(leg.Bid)
		}
	}

	return ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
}
