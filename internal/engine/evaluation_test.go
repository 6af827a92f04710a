package engine

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func sellPoint(terminal string, sellMax, sell, avg float64) PricePoint {
	return PricePoint{
		TerminalName: terminal,
		PriceSellMax: sellMax,
		PriceSell:    sell,
		PriceAverage: avg,
		UpdatedAt:    testNow,
	}
}

func TestValidPrice(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{100, true},
		{0.01, true},
		{0, false},
		{-5, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, c := range cases {
		if got := validPrice(c.v); got != c.want {
			t.Errorf("validPrice(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFirstValidPriceChain(t *testing.T) {
	if v, ok := firstValidPrice(0, math.NaN(), 42, 99); !ok || v != 42 {
		t.Fatalf("firstValidPrice = %v, %v, want 42, true", v, ok)
	}
	if _, ok := firstValidPrice(0, -1, math.Inf(1)); ok {
		t.Fatal("firstValidPrice should fail when no value is usable")
	}
}

func TestSummarizeFallbackChains(t *testing.T) {
	points := []PricePoint{
		// Sell resolves to max, buy to min.
		{PriceSellMax: 120, PriceSell: 100, PriceBuyMin: 40, PriceBuy: 50, UpdatedAt: testNow},
		// Max absent, falls back to last sell; buy min absent, falls to last buy.
		{PriceSell: 80, PriceBuy: 60, UpdatedAt: testNow},
		// Only average present on the sell side; no buy data at all.
		{PriceAverage: 70, UpdatedAt: testNow},
	}

	s := Summarize(points, testNow)
	if s == nil {
		t.Fatal("Summarize returned nil with usable sell prices")
	}

	wantAvg := (120.0 + 80.0 + 70.0) / 3.0
	if math.Abs(s.AveragePrice-wantAvg) > 1e-9 {
		t.Errorf("AveragePrice = %v, want %v", s.AveragePrice, wantAvg)
	}
	if s.MaxPrice == nil || *s.MaxPrice != 120 {
		t.Errorf("MaxPrice = %v, want 120", s.MaxPrice)
	}
	if s.MinPrice == nil || *s.MinPrice != 40 {
		t.Errorf("MinPrice = %v, want 40", s.MinPrice)
	}
}

func TestSummarizeNoSellData(t *testing.T) {
	points := []PricePoint{
		{PriceBuy: 50, PriceBuyMin: 40, UpdatedAt: testNow},
		{PriceSellMax: -10, PriceSell: 0, UpdatedAt: testNow},
	}
	if s := Summarize(points, testNow); s != nil {
		t.Fatalf("Summarize = %+v, want nil when no sell price is usable", s)
	}
}

func TestSummarizeBuyOnlyAbsent(t *testing.T) {
	points := []PricePoint{sellPoint("Anywhere", 100, 0, 0)}
	s := Summarize(points, testNow)
	if s == nil {
		t.Fatal("Summarize returned nil")
	}
	if s.MinPrice != nil {
		t.Errorf("MinPrice = %v, want nil when no buy data exists", *s.MinPrice)
	}
}

func TestFreshnessScore(t *testing.T) {
	if got := freshnessScore(testNow, testNow); got != 1.0 {
		t.Errorf("freshness at age 0 = %v, want 1", got)
	}
	// One hour old halves the score.
	if got := freshnessScore(testNow, testNow.Add(-time.Hour)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("freshness at 1h = %v, want 0.5", got)
	}
	// A future timestamp counts as age zero, not negative.
	if got := freshnessScore(testNow, testNow.Add(time.Hour)); got != 1.0 {
		t.Errorf("freshness with future timestamp = %v, want 1", got)
	}
}

func TestComputeConfidenceNoVolatilityReported(t *testing.T) {
	points := []PricePoint{
		{SCUSellStock: 5000, UpdatedAt: testNow},
	}
	// freshness 1.0, stock 1.0, volatility factor fixed 0.7 when unreported.
	want := 0.5*1.0 + 0.25*1.0 + 0.25*0.7
	if got := computeConfidence(points, testNow); math.Abs(got-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", got, want)
	}
}

func TestComputeConfidenceVolatility(t *testing.T) {
	stable := 0.0
	wild := 2.5
	points := []PricePoint{
		{SCUSellStock: 5000, VolatilitySell: &stable, UpdatedAt: testNow},
	}
	// Reported zero volatility means a perfect factor of 1.0, better than
	// the unreported default.
	want := 0.5 + 0.25 + 0.25*1.0
	if got := computeConfidence(points, testNow); math.Abs(got-want) > 1e-9 {
		t.Errorf("confidence with stable volatility = %v, want %v", got, want)
	}

	points[0].VolatilitySell = &wild
	// Mean |v| caps at 1.5 then at 1.0, so the factor bottoms out at 0.
	want = 0.5 + 0.25
	if got := computeConfidence(points, testNow); math.Abs(got-want) > 1e-9 {
		t.Errorf("confidence with wild volatility = %v, want %v", got, want)
	}
}

func TestEvaluateItemUsesMaxPrice(t *testing.T) {
	item := CargoItem{ID: "a", CommodityID: "gold", SCU: 10}
	points := []PricePoint{
		{PriceSellMax: 120, PriceBuyMin: 40, UpdatedAt: testNow},
		{PriceSellMax: 90, UpdatedAt: testNow},
	}

	eval := EvaluateItem(&item, points, testNow)
	if eval.EV != 1200 {
		t.Errorf("EV = %v, want 1200 (10 SCU at the 120 max)", eval.EV)
	}
	if eval.Min == nil || *eval.Min != 400 {
		t.Errorf("Min = %v, want 400", eval.Min)
	}
	if eval.Max == nil || *eval.Max != 1200 {
		t.Errorf("Max = %v, want 1200", eval.Max)
	}
}

func TestEvaluateItemSinglePoint(t *testing.T) {
	item := CargoItem{ID: "a", CommodityID: "gold", SCU: 50}
	points := []PricePoint{
		{PriceSellMax: 100, PriceSell: 90, UpdatedAt: testNow},
	}

	// The max beats the last-seen sell in the fallback chain, so the whole
	// load prices at 100 per SCU.
	eval := EvaluateItem(&item, points, testNow)
	if eval.EV != 5000 {
		t.Errorf("EV = %v, want 5000", eval.EV)
	}
	if eval.Max == nil || *eval.Max != 5000 {
		t.Errorf("Max = %v, want 5000", eval.Max)
	}
}

func TestEvaluateItemNoData(t *testing.T) {
	item := CargoItem{ID: "a", CommodityID: "gold", SCU: 10}

	eval := EvaluateItem(&item, nil, testNow)
	if eval.EV != 0 || eval.Min != nil || eval.Max != nil || eval.Confidence != 0 {
		t.Fatalf("no-data evaluation = %+v, want zero value", eval)
	}
}

func TestEvaluateCargoItemsAggregation(t *testing.T) {
	items := []CargoItem{
		{ID: "a", CommodityID: "gold", SCU: 10},
		{ID: "b", CommodityID: "laranite", SCU: 5},
		{ID: "c", CommodityID: "missing", SCU: 99},
	}
	prices := map[string][]PricePoint{
		"gold":     {sellPoint("T1", 100, 0, 0)},
		"laranite": {sellPoint("T2", 200, 0, 0)},
	}

	summary := EvaluateCargoItems(items, prices, testNow)
	if summary.TotalEV != 2000 {
		t.Errorf("TotalEV = %v, want 2000", summary.TotalEV)
	}
	if len(summary.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(summary.Items))
	}
	if summary.Items[2].EV != 0 {
		t.Errorf("item without data EV = %v, want 0", summary.Items[2].EV)
	}
	// The zero-confidence item still counts toward the average.
	var confSum float64
	for _, it := range summary.Items {
		confSum += it.Confidence
	}
	want := confSum / 3
	if math.Abs(summary.AverageConfidence-want) > 1e-9 {
		t.Errorf("AverageConfidence = %v, want %v", summary.AverageConfidence, want)
	}
}

func TestProfitabilityIndicator(t *testing.T) {
	params := DefaultProfitabilityParams()

	// 1000 EV: risk 200, crew 150, score 650, which clears the 60% bar.
	ind := ProfitabilityIndicator(1000, params)
	if ind.Status != ProfitGreen {
		t.Errorf("status at EV 1000 = %q, want green", ind.Status)
	}
	if ind.Score != 650 {
		t.Errorf("score = %v, want 650", ind.Score)
	}

	// 300 EV: risk 60, crew 150, score 90, which is 30% retained.
	ind = ProfitabilityIndicator(300, params)
	if ind.Status != ProfitYellow {
		t.Errorf("status at EV 300 = %q, want yellow", ind.Status)
	}

	// 150 EV: risk 30, crew 150, score -30.
	ind = ProfitabilityIndicator(150, params)
	if ind.Status != ProfitRed {
		t.Errorf("status at EV 150 = %q, want red", ind.Status)
	}
}

func TestProfitabilityIndicatorNoValue(t *testing.T) {
	ind := ProfitabilityIndicator(0, DefaultProfitabilityParams())
	if ind.Status != ProfitRed {
		t.Errorf("status at EV 0 = %q, want red", ind.Status)
	}
	if ind.Rationale != "No estimated value yet" {
		t.Errorf("rationale = %q", ind.Rationale)
	}
}
