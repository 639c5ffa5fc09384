package domain

import (
	"testing"
	"time"

	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/shopspring/decimal"
)

func testVenue(t *testing.T, id string) Venue {
	t.Helper()

	v, err := NewVenue(
		id, "",
		decimal.RequireFromString("0.001"),
		decimal.RequireFromString("1.0"),
		decimal.NewFromInt(5_000_000),
		decimal.RequireFromString("0.0001"),
		"",
	)
	if err != nil {
		t.Fatalf("NewVenue(%s): %v", id, err)
	}
	return v
}

func testLeg(t *testing.T, base, quote string, side Side, venue Venue, bid, ask string) TradingLeg {
	t.Helper()

	leg, err := NewLeg(base, quote, side, venue,
		decimal.RequireFromString(bid),
		decimal.RequireFromString(ask),
		decimal.NewFromInt(3_000_000),
	)
	if err != nil {
		t.Fatalf("NewLeg(%s-%s): %v", base, quote, err)
	}
	return leg
}

func TestBuildRoute(t *testing.T) {
	venue := testVenue(t, "kraken")

	buy := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010")
	sell := testLeg(t, "BTC", "USDT", SideSell, venue, "42350", "42360")

	route, err := BuildRoute([]TradingLeg{buy, sell})
	if err != nil {
		t.Fatalf("BuildRoute: %v", err)
	}

	if route.Hops() != 2 {
		t.Errorf("Hops = %d, want 2", route.Hops())
	}

	if !route.IsCycle() {
		t.Error("expected USDT -> BTC -> USDT to be a cycle")
	}

	if got, want := route.Path(), "USDT -> BTC -> USDT"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	if route.ID == "" {
		t.Error("expected non-empty route ID")
	}
}

func TestBuildRouteHopCount(t *testing.T) {
	venue := testVenue(t, "kraken")
	leg := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010")

	tests := []struct {
		name string
		legs []TradingLeg
	}{
		{"no legs", nil},
		{"one leg", []TradingLeg{leg}},
		{"five legs", make([]TradingLeg, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRoute(tt.legs)
			if !apperror.IsCode(err, apperror.CodeInvalidHopCount) {
				t.Errorf("BuildRoute error = %v, want CodeInvalidHopCount", err)
			}
		})
	}
}

func TestBuildRouteBrokenChain(t *testing.T) {
	venue := testVenue(t, "kraken")

	buy := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010")
	dangling := testLeg(t, "ETH", "USDT", SideSell, venue, "2500", "2501")

	_, err := BuildRoute([]TradingLeg{buy, dangling})
	if !apperror.IsCode(err, apperror.CodeBrokenLegChain) {
		t.Errorf("BuildRoute error = %v, want CodeBrokenLegChain", err)
	}
}

func TestNewLegRejectsNonPositivePrices(t *testing.T) {
	venue := testVenue(t, "kraken")

	tests := []struct {
		name     string
		bid, ask string
	}{
		{"zero bid", "0", "42010"},
		{"zero ask", "42000", "0"},
		{"negative bid", "-1", "42010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLeg("USDT", "BTC", SideBuy, venue,
				decimal.RequireFromString(tt.bid),
				decimal.RequireFromString(tt.ask),
				decimal.NewFromInt(1_000_000),
			)
			if !apperror.IsCode(err, apperror.CodeInvalidLegPrice) {
				t.Errorf("NewLeg error = %v, want CodeInvalidLegPrice", err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	venue := testVenue(t, "kraken")

	l1 := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010")
	l2 := testLeg(t, "BTC", "ETH", SideSell, venue, "16.8", "16.81")
	l3 := testLeg(t, "ETH", "SOL", SideSell, venue, "17.2", "17.21")
	l4 := testLeg(t, "SOL", "USDT", SideSell, venue, "145", "145.1")

	tests := []struct {
		name string
		legs []TradingLeg
		want RouteType
	}{
		{"two hop", []TradingLeg{l1, testLeg(t, "BTC", "USDT", SideSell, venue, "42350", "42360")}, RouteTwoHop},
		{"three hop", []TradingLeg{l1, l2, testLeg(t, "ETH", "USDT", SideSell, venue, "2500", "2501")}, RouteThreeHop},
		{"four hop", []TradingLeg{l1, l2, l3, l4}, RouteFourHop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := BuildRoute(tt.legs)
			if err != nil {
				t.Fatalf("BuildRoute: %v", err)
			}
			if got := route.Classify(); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyCrossChain(t *testing.T) {
	venue := testVenue(t, "kraken")

	arb, err := NewVenue("uniswap-arb", "arbitrum",
		decimal.RequireFromString("0.003"),
		decimal.RequireFromString("0.5"),
		decimal.NewFromInt(2_000_000),
		decimal.RequireFromString("0.0002"),
		"0x1F98431c8aD98523631AE4a59f267346ea31F984",
	)
	if err != nil {
		t.Fatalf("NewVenue: %v", err)
	}

	buy := testLeg(t, "USDT", "ETH", SideBuy, venue, "2500", "2501")
	bridge, err := NewBridgeLeg("ETH", "USDT", SideSell, arb,
		decimal.RequireFromString("2520"),
		decimal.RequireFromString("2521"),
		decimal.NewFromInt(2_000_000),
		decimal.RequireFromString("3.5"),
		30*time.Second,
	)
	if err != nil {
		t.Fatalf("NewBridgeLeg: %v", err)
	}

	route, err := BuildRoute([]TradingLeg{buy, bridge})
	if err != nil {
		t.Fatalf("BuildRoute: %v", err)
	}

	if got := route.Classify(); got != RouteCrossChain {
		t.Errorf("Classify = %v, want CROSS_CHAIN", got)
	}

	if got := route.TotalBridgeFees(); !got.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("TotalBridgeFees = %s, want 3.5", got)
	}

	if got := route.BridgeLatency(); got != 30*time.Second {
		t.Errorf("BridgeLatency = %s, want 30s", got)
	}
}

func TestSpreadPct(t *testing.T) {
	venue := testVenue(t, "kraken")

	buy := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010")
	sell := testLeg(t, "BTC", "USDT", SideSell, venue, "42350", "42360")

	route, err := BuildRoute([]TradingLeg{buy, sell})
	if err != nil {
		t.Fatalf("BuildRoute: %v", err)
	}

	// (42350 - 42010) / 42010 * 100 ≈ 0.8093%
	got, _ := route.SpreadPct().Float64()
	if got < 0.80 || got > 0.82 {
		t.Errorf("SpreadPct = %f, want ≈0.809", got)
	}
}

// Triangular legs quote prices in different units, so the spread must
// come from the full conversion product, not entry ask vs exit bid.
func TestSpreadPctTriangular(t *testing.T) {
	venue := testVenue(t, "kraken")

	legs := []TradingLeg{
		testLeg(t, "USDT", "BTC", SideBuy, venue, "41990", "42000"),
		testLeg(t, "BTC", "ETH", SideSell, venue, "13", "13.01"),
		testLeg(t, "ETH", "USDT", SideSell, venue, "3250", "3251"),
	}

	route, err := BuildRoute(legs)
	if err != nil {
		t.Fatalf("BuildRoute: %v", err)
	}

	// 1/42000 * 13 * 3250 - 1 ≈ 0.5952%
	got, _ := route.SpreadPct().Float64()
	if got < 0.59 || got > 0.60 {
		t.Errorf("SpreadPct = %f, want ≈0.595", got)
	}
}

func TestMinLiquidity(t *testing.T) {
	venue := testVenue(t, "kraken") // venue depth 5M

	deep := testLeg(t, "USDT", "BTC", SideBuy, venue, "42000", "42010") // leg depth 3M
	thin, err := NewLeg("BTC", "USDT", SideSell, venue,
		decimal.RequireFromString("42350"),
		decimal.RequireFromString("42360"),
		decimal.NewFromInt(800_000),
	)
	if err != nil {
		t.Fatalf("NewLeg: %v", err)
	}

	route, err := BuildRoute([]TradingLeg{deep, thin})
	if err != nil {
		t.Fatalf("BuildRoute: %v", err)
	}

	if got := route.MinLiquidity(); !got.Equal(decimal.NewFromInt(800_000)) {
		t.Errorf("MinLiquidity = %s, want 800000", got)
	}
}
