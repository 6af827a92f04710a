package engine

import (
	"math"
	"testing"
)

func TestCalculateRoutesForCommodity(t *testing.T) {
	prices := []PricePoint{
		{TerminalID: 1, TerminalName: "A", System: "Stanton", PriceBuy: 50, SCUBuy: 100},
		{TerminalID: 2, TerminalName: "B", System: "Stanton", PriceSell: 80, SCUSellStock: 50},
	}

	routes := CalculateRoutesForCommodity("gold", "Gold", false, prices, nil)
	if len(routes) != 1 {
		t.Fatalf("len(routes) = %d, want 1", len(routes))
	}

	r := routes[0]
	if r.ProfitPerSCU != 30 {
		t.Errorf("ProfitPerSCU = %v, want 30", r.ProfitPerSCU)
	}
	if math.Abs(r.ROIPercent-60) > 1e-9 {
		t.Errorf("ROIPercent = %v, want 60", r.ROIPercent)
	}
	if r.BuyTerminalName != "A" || r.SellTerminalName != "B" {
		t.Errorf("route endpoints = %q -> %q, want A -> B", r.BuyTerminalName, r.SellTerminalName)
	}
}

func TestCalculateRoutesSkipsSameTerminal(t *testing.T) {
	prices := []PricePoint{
		{TerminalID: 1, TerminalName: "A", PriceBuy: 50, SCUBuy: 100, PriceSell: 80, SCUSellStock: 50},
	}
	if routes := CalculateRoutesForCommodity("gold", "Gold", false, prices, nil); len(routes) != 0 {
		t.Fatalf("len(routes) = %d, want 0 for a single terminal", len(routes))
	}
}

func TestCalculateRoutesRequiresProfit(t *testing.T) {
	prices := []PricePoint{
		{TerminalID: 1, TerminalName: "A", PriceBuy: 80, SCUBuy: 100},
		{TerminalID: 2, TerminalName: "B", PriceSell: 80, SCUSellStock: 50},
		{TerminalID: 3, TerminalName: "C", PriceSell: 70, SCUSellStock: 50},
	}
	if routes := CalculateRoutesForCommodity("gold", "Gold", false, prices, nil); len(routes) != 0 {
		t.Fatalf("len(routes) = %d, want 0 when nothing is profitable", len(routes))
	}
}

func TestCalculateRoutesRequiresStockAndDemand(t *testing.T) {
	prices := []PricePoint{
		{TerminalID: 1, TerminalName: "A", PriceBuy: 50, SCUBuy: 0},
		{TerminalID: 2, TerminalName: "B", PriceSell: 80, SCUSellStock: 50},
		{TerminalID: 3, TerminalName: "C", PriceBuy: 50, SCUBuy: 100},
		{TerminalID: 4, TerminalName: "D", PriceSell: 90, SCUSellStock: 0},
	}
	routes := CalculateRoutesForCommodity("gold", "Gold", false, prices, nil)
	if len(routes) != 1 {
		t.Fatalf("len(routes) = %d, want 1 (only C -> B is stocked both ends)", len(routes))
	}
	if routes[0].BuyTerminalName != "C" || routes[0].SellTerminalName != "B" {
		t.Errorf("route = %q -> %q, want C -> B", routes[0].BuyTerminalName, routes[0].SellTerminalName)
	}
}

func TestCalculateRoutesNQAFlag(t *testing.T) {
	prices := []PricePoint{
		{TerminalID: 1, TerminalName: "A", PriceBuy: 50, SCUBuy: 100},
		{TerminalID: 2, TerminalName: "B", PriceSell: 80, SCUSellStock: 50},
	}
	routes := CalculateRoutesForCommodity("widow", "WiDoW", true, prices, map[int32]bool{2: true})
	if len(routes) != 1 {
		t.Fatalf("len(routes) = %d, want 1", len(routes))
	}
	if !routes[0].SellIsNQA {
		t.Error("SellIsNQA = false, want true")
	}
	if !routes[0].IsIllegal {
		t.Error("IsIllegal = false, want true")
	}
}

func TestForQuantityCappedByDemand(t *testing.T) {
	route := TradeRoute{BuyPrice: 50, SellPrice: 80, BuyStock: 100, SellDemand: 50}

	q := route.ForQuantity(200)
	if q.Quantity != 50 {
		t.Errorf("Quantity = %d, want 50 (capped by demand)", q.Quantity)
	}
	if q.MaxTradeable != 50 {
		t.Errorf("MaxTradeable = %d, want 50", q.MaxTradeable)
	}
	if q.Invest != 2500 {
		t.Errorf("Invest = %v, want 2500", q.Invest)
	}
	if q.ProfitTotal != 1500 {
		t.Errorf("ProfitTotal = %v, want 1500", q.ProfitTotal)
	}
}

func TestForQuantityTruncatesFractionalStock(t *testing.T) {
	route := TradeRoute{BuyPrice: 10, SellPrice: 20, BuyStock: 7.9, SellDemand: 100}
	q := route.ForQuantity(50)
	if q.Quantity != 7 {
		t.Errorf("Quantity = %d, want 7 (floor of 7.9)", q.Quantity)
	}
}

func TestForQuantityProfitPerGm(t *testing.T) {
	route := TradeRoute{BuyPrice: 10, SellPrice: 20, BuyStock: 100, SellDemand: 100}

	q := route.ForQuantity(10)
	if q.ProfitPerGm != nil {
		t.Errorf("ProfitPerGm = %v, want nil without distance", *q.ProfitPerGm)
	}

	dist := 50.0
	route.DistanceGm = &dist
	q = route.ForQuantity(10)
	if q.ProfitPerGm == nil || *q.ProfitPerGm != 2 {
		t.Errorf("ProfitPerGm = %v, want 2", q.ProfitPerGm)
	}

	zero := 0.0
	route.DistanceGm = &zero
	q = route.ForQuantity(10)
	if q.ProfitPerGm == nil || *q.ProfitPerGm != 0 {
		t.Errorf("ProfitPerGm at zero distance = %v, want 0", q.ProfitPerGm)
	}
}

func TestTruncSCU(t *testing.T) {
	cases := []struct {
		v    float64
		want int32
	}{
		{7.9, 7},
		{0.5, 0},
		{-3, 0},
		{math.NaN(), 0},
		{1e12, math.MaxInt32},
	}
	for _, c := range cases {
		if got := truncSCU(c.v); got != c.want {
			t.Errorf("truncSCU(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestActivityScore(t *testing.T) {
	route := TradeRoute{BuyUserRows: 3, SellUserRows: 5}
	if got := route.ActivityScore(); got != 8 {
		t.Errorf("ActivityScore = %d, want 8", got)
	}
}

func TestCalculateAllRoutes(t *testing.T) {
	commodities := []Commodity{
		{ID: "gold", Name: "Gold"},
		{ID: "laranite", Name: "Laranite"},
		{ID: "nodata", Name: "No Data"},
	}
	prices := map[string][]PricePoint{
		"gold": {
			{TerminalID: 1, TerminalName: "A", PriceBuy: 50, SCUBuy: 100},
			{TerminalID: 2, TerminalName: "B", PriceSell: 80, SCUSellStock: 50},
		},
		"laranite": {
			{TerminalID: 1, TerminalName: "A", PriceBuy: 20, SCUBuy: 10},
			{TerminalID: 3, TerminalName: "C", PriceSell: 30, SCUSellStock: 10},
		},
	}

	routes := CalculateAllRoutes(commodities, prices, nil)
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}
	seen := map[string]bool{}
	for _, r := range routes {
		seen[r.CommodityID] = true
	}
	if !seen["gold"] || !seen["laranite"] {
		t.Errorf("commodities covered = %v, want gold and laranite", seen)
	}
}
