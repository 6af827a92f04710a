package engine

import (
	"fmt"
	"math"
	"time"
)

// PriceSummary reduces a set of price points for one commodity to a single
// estimate. MinPrice is derived from buy-side prices and may be absent even
// when a sell estimate exists.
type PriceSummary struct {
	AveragePrice float64
	MinPrice     *float64
	MaxPrice     *float64
	Confidence   float64
}

// validPrice reports whether v is usable for arithmetic.
// Zero encodes "absent" for all price fields, so <= 0 is rejected alongside
// NaN and infinities.
func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// firstValidPrice walks a fallback chain and returns the first usable value.
func firstValidPrice(vals ...float64) (float64, bool) {
	for _, v := range vals {
		if validPrice(v) {
			return v, true
		}
	}
	return 0, false
}

// Summarize reduces the price points for one commodity into average/min/max
// and a confidence score. Returns nil when no point carries a usable sell
// price; that is the only "no data" signal the evaluator observes.
//
// Per point, the sell value is resolved max -> last -> average and the buy
// value min -> last.
func Summarize(points []PricePoint, now time.Time) *PriceSummary {
	var sellPrices, buyPrices []float64

	for i := range points {
		p := &points[i]
		if v, ok := firstValidPrice(p.PriceSellMax, p.PriceSell, p.PriceAverage); ok {
			sellPrices = append(sellPrices, v)
		}
		if v, ok := firstValidPrice(p.PriceBuyMin, p.PriceBuy); ok {
			buyPrices = append(buyPrices, v)
		}
	}

	if len(sellPrices) == 0 {
		return nil
	}

	var sum, maxSell float64
	for _, v := range sellPrices {
		sum += v
		if v > maxSell {
			maxSell = v
		}
	}
	summary := &PriceSummary{
		AveragePrice: sum / float64(len(sellPrices)),
		MaxPrice:     &maxSell,
		Confidence:   computeConfidence(points, now),
	}

	if len(buyPrices) > 0 {
		minBuy := buyPrices[0]
		for _, v := range buyPrices[1:] {
			if v < minBuy {
				minBuy = v
			}
		}
		summary.MinPrice = &minBuy
	}

	return summary
}

// computeConfidence blends freshness, stock depth, and volatility:
// 0.5*freshness + 0.25*stock + 0.25*volatility, clamped to [0,1].
func computeConfidence(points []PricePoint, now time.Time) float64 {
	if len(points) == 0 {
		return 0
	}

	// Freshness is judged at the most recent observation.
	newest := points[0].UpdatedAt
	for i := range points[1:] {
		if points[i+1].UpdatedAt.After(newest) {
			newest = points[i+1].UpdatedAt
		}
	}
	freshness := freshnessScore(now, newest)

	var maxStock float64
	for i := range points {
		if points[i].SCUSellStock > maxStock {
			maxStock = points[i].SCUSellStock
		}
	}
	stockScore := clamp01(maxStock / 5000.0)

	var volSum float64
	volCount := 0
	for i := range points {
		if v := points[i].VolatilitySell; v != nil {
			volSum += math.Abs(*v)
			volCount++
		}
	}
	volatilityFactor := 0.7
	if volCount > 0 {
		avg := math.Min(volSum/float64(volCount), 1.5)
		volatilityFactor = 1.0 - math.Min(avg, 1.0)
	}

	return clamp01(0.5*freshness + 0.25*stockScore + 0.25*volatilityFactor)
}

// freshnessScore decays as 1/(1 + age_minutes/60). A timestamp in the
// future counts as age zero.
func freshnessScore(now, updatedAt time.Time) float64 {
	age := now.Sub(updatedAt)
	if age < 0 {
		age = 0
	}
	ageMinutes := age.Minutes()
	return clamp01(1.0 / (1.0 + ageMinutes/60.0))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CargoEvaluation is the per-item result: expected value, optional bounds,
// and the confidence carried over from the price summary.
type CargoEvaluation struct {
	EV         float64
	Min        *float64
	Max        *float64
	Confidence float64
}

// ItemEvaluation pairs a cargo item ID with its evaluation.
type ItemEvaluation struct {
	ItemID string
	CargoEvaluation
}

// EvaluationSummary aggregates all item evaluations.
type EvaluationSummary struct {
	TotalEV           float64
	AverageConfidence float64
	Items             []ItemEvaluation
}

// EvaluateItem values one cargo item against its price points. With no
// points (or no usable sell price) it degrades to the zero evaluation:
// EV 0, no bounds, confidence 0.
func EvaluateItem(item *CargoItem, points []PricePoint, now time.Time) CargoEvaluation {
	if len(points) == 0 {
		return CargoEvaluation{}
	}

	summary := Summarize(points, now)
	if summary == nil {
		return CargoEvaluation{}
	}

	quantity := float64(item.SCU)
	perUnit := summary.AveragePrice
	if summary.MaxPrice != nil {
		perUnit = *summary.MaxPrice
	}

	eval := CargoEvaluation{
		EV:         quantity * perUnit,
		Confidence: summary.Confidence,
	}
	if summary.MinPrice != nil {
		v := *summary.MinPrice * quantity
		eval.Min = &v
	}
	if summary.MaxPrice != nil {
		v := *summary.MaxPrice * quantity
		eval.Max = &v
	}
	return eval
}

// EvaluateCargoItems values the whole cargo list. TotalEV sums every item's
// EV as-is; the confidence average only counts items whose EV is not NaN.
func EvaluateCargoItems(items []CargoItem, prices map[string][]PricePoint, now time.Time) EvaluationSummary {
	evaluations := make([]ItemEvaluation, 0, len(items))
	var totalEV, confidenceSum float64
	counted := 0

	for i := range items {
		item := &items[i]
		eval := EvaluateItem(item, prices[item.CommodityID], now)
		totalEV += eval.EV
		if !math.IsNaN(eval.EV) {
			confidenceSum += eval.Confidence
			counted++
		}
		evaluations = append(evaluations, ItemEvaluation{ItemID: item.ID, CargoEvaluation: eval})
	}

	averageConfidence := 0.0
	if counted > 0 {
		averageConfidence = confidenceSum / float64(counted)
	}

	return EvaluationSummary{
		TotalEV:           totalEV,
		AverageConfidence: averageConfidence,
		Items:             evaluations,
	}
}

// ProfitStatus is the coarse profitability verdict.
type ProfitStatus string

const (
	ProfitGreen  ProfitStatus = "green"
	ProfitYellow ProfitStatus = "yellow"
	ProfitRed    ProfitStatus = "red"
)

// ProfitIndicator is the status/score/rationale triple shown next to the
// cargo total.
type ProfitIndicator struct {
	Status    ProfitStatus `json:"status"`
	Score     float64      `json:"score"`
	Rationale string       `json:"rationale"`
}

// ProfitabilityIndicator nets crew cost and a risk haircut out of the total
// EV. Thresholds are relative to the total: green at >= 60% retained,
// yellow at >= 25%, red below.
func ProfitabilityIndicator(totalEV float64, params ProfitabilityParams) ProfitIndicator {
	crewCost := params.CrewHourly * float64(params.CrewSize) * (float64(params.TimeMinutes) / 60.0)
	riskPenalty := params.RiskPct * totalEV
	score := totalEV - riskPenalty - crewCost

	if totalEV <= 0 {
		return ProfitIndicator{
			Status:    ProfitRed,
			Score:     score,
			Rationale: "No estimated value yet",
		}
	}

	status := ProfitRed
	switch {
	case score >= totalEV*0.6:
		status = ProfitGreen
	case score >= totalEV*0.25:
		status = ProfitYellow
	}

	return ProfitIndicator{
		Status:    status,
		Score:     score,
		Rationale: fmt.Sprintf("Net = %.0f - risk %.0f - crew %.0f", totalEV, riskPenalty, crewCost),
	}
}
