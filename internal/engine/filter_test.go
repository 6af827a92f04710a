package engine

import (
	"math"
	"testing"
)

func filterTestRoutes() []TradeRoute {
	near, far := 20.0, 300.0
	return []TradeRoute{
		{
			CommodityID: "gold", BuyPrice: 50, SellPrice: 80, BuyStock: 100, SellDemand: 100,
			BuySystem: "Stanton", SellSystem: "Stanton", ProfitPerSCU: 30, ROIPercent: 60,
			DistanceGm: &near, BuyUserRows: 2, SellUserRows: 2,
		},
		{
			CommodityID: "widow", IsIllegal: true, BuyPrice: 100, SellPrice: 250, BuyStock: 20, SellDemand: 20,
			BuySystem: "Pyro", SellSystem: "Stanton", ProfitPerSCU: 150, ROIPercent: 150,
			SellIsNQA: true, DistanceGm: &far, BuyUserRows: 1, SellUserRows: 0,
		},
		{
			CommodityID: "scrap", BuyPrice: 5, SellPrice: 6, BuyStock: 1000, SellDemand: 1000,
			BuySystem: "Stanton", SellSystem: "Pyro", ProfitPerSCU: 1, ROIPercent: 20,
			BuyIsPlanetary: true, BuyUserRows: 9, SellUserRows: 9,
		},
	}
}

func TestFilterRoutesMaxInvest(t *testing.T) {
	routes := filterTestRoutes()
	// At 10 SCU: gold invests 500, widow 1000, scrap 50.
	got := FilterRoutes(routes, TradeRouteFilter{MaxInvest: 600}, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, r := range got {
		if r.CommodityID == "widow" {
			t.Error("widow should be filtered by MaxInvest 600")
		}
	}
}

func TestFilterRoutesMinROI(t *testing.T) {
	got := FilterRoutes(filterTestRoutes(), TradeRouteFilter{MinROIPercent: 50}, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestFilterRoutesMaxDistanceKeepsUnknown(t *testing.T) {
	got := FilterRoutes(filterTestRoutes(), TradeRouteFilter{MaxDistanceGm: 100}, 10)
	// Far widow drops; gold (20 Gm) and scrap (unknown distance) stay.
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, r := range got {
		if r.CommodityID == "widow" {
			t.Error("widow at 300 Gm should be filtered")
		}
	}
}

func TestFilterRoutesFlags(t *testing.T) {
	routes := filterTestRoutes()

	got := FilterRoutes(routes, TradeRouteFilter{OnlyIllegal: true}, 10)
	if len(got) != 1 || got[0].CommodityID != "widow" {
		t.Fatalf("OnlyIllegal kept %d routes, want just widow", len(got))
	}

	got = FilterRoutes(routes, TradeRouteFilter{OnlyNQASell: true}, 10)
	if len(got) != 1 || got[0].CommodityID != "widow" {
		t.Fatalf("OnlyNQASell kept %d routes, want just widow", len(got))
	}

	got = FilterRoutes(routes, TradeRouteFilter{StationsOnly: true}, 10)
	if len(got) != 2 {
		t.Fatalf("StationsOnly kept %d routes, want 2", len(got))
	}

	got = FilterRoutes(routes, TradeRouteFilter{BuySystem: "Pyro"}, 10)
	if len(got) != 1 || got[0].CommodityID != "widow" {
		t.Fatalf("BuySystem=Pyro kept %d routes, want just widow", len(got))
	}

	got = FilterRoutes(routes, TradeRouteFilter{MinBuyPrice: 40}, 10)
	if len(got) != 2 {
		t.Fatalf("MinBuyPrice 40 kept %d routes, want 2", len(got))
	}
}

func TestFilterZeroValueMatchesEverything(t *testing.T) {
	routes := filterTestRoutes()
	got := FilterRoutes(routes, TradeRouteFilter{}, 10)
	if len(got) != len(routes) {
		t.Fatalf("empty filter kept %d of %d routes", len(got), len(routes))
	}
}

func TestSortRoutesDescendingROI(t *testing.T) {
	routes := filterTestRoutes()
	SortRoutes(routes, SortROIPercent, 10, true)
	if routes[0].CommodityID != "widow" || routes[2].CommodityID != "scrap" {
		t.Fatalf("ROI order = %s, %s, %s", routes[0].CommodityID, routes[1].CommodityID, routes[2].CommodityID)
	}
}

func TestSortRoutesDistanceMissingLast(t *testing.T) {
	routes := filterTestRoutes()
	SortRoutes(routes, SortDistance, 10, false)
	if routes[0].CommodityID != "gold" {
		t.Errorf("nearest first = %s, want gold", routes[0].CommodityID)
	}
	if routes[2].CommodityID != "scrap" {
		t.Errorf("unknown distance should sort last, got %s", routes[2].CommodityID)
	}
}

func TestSortRoutesProfitTotalUsesQuantity(t *testing.T) {
	routes := filterTestRoutes()
	// At 10 SCU: gold 300, widow 1500, scrap 10.
	SortRoutes(routes, SortProfitTotal, 10, true)
	if routes[0].CommodityID != "widow" {
		t.Errorf("top by profit at 10 SCU = %s, want widow", routes[0].CommodityID)
	}
	// At 1000 SCU widow caps at 20 tradeable (3000) while scrap scales to
	// 1000 (1000); gold caps at 100 (3000). Stable sort keeps gold before
	// widow on the tie.
	SortRoutes(routes, SortProfitTotal, 1000, true)
	if routes[2].CommodityID != "scrap" {
		t.Errorf("bottom by profit at 1000 SCU = %s, want scrap", routes[2].CommodityID)
	}
}

func TestSortRoutesActivity(t *testing.T) {
	routes := filterTestRoutes()
	SortRoutes(routes, SortActivityScore, 10, true)
	if routes[0].CommodityID != "scrap" {
		t.Errorf("most active = %s, want scrap", routes[0].CommodityID)
	}
}

func TestCompareFloatsNaN(t *testing.T) {
	if got := compareFloats(math.NaN(), 1); got != 0 {
		t.Errorf("compareFloats(NaN, 1) = %d, want 0", got)
	}
	if got := compareFloats(1, 2); got != -1 {
		t.Errorf("compareFloats(1, 2) = %d, want -1", got)
	}
	if got := compareFloats(2, 1); got != 1 {
		t.Errorf("compareFloats(2, 1) = %d, want 1", got)
	}
}

func TestRouteSortLabel(t *testing.T) {
	if got := SortProfitPerGm.Label(); got != "Profit/Gm" {
		t.Errorf("label = %q", got)
	}
	if got := RouteSort("custom").Label(); got != "custom" {
		t.Errorf("unknown label = %q, want passthrough", got)
	}
}
