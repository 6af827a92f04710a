package engine

import (
	"math"
	"sort"
)

// PlannerMode selects the sell-planning strategy.
type PlannerMode string

const (
	// PlanOneStop sells everything at the single terminal with the
	// highest combined value.
	PlanOneStop PlannerMode = "onestop"
	// PlanBestValue sells each item at its own best terminal, producing a
	// multi-stop route.
	PlanBestValue PlannerMode = "bestvalue"
)

// SellItem is one cargo item routed to a stop.
type SellItem struct {
	ItemID        string  `json:"item_id"`
	CommodityName string  `json:"commodity_name"`
	SCU           int32   `json:"scu"`
	PricePerUnit  float64 `json:"price_per_unit"`
	TotalValue    float64 `json:"total_value"`
	// AvailableStock is the terminal's buy-side stock, informational only.
	AvailableStock float64 `json:"available_stock"`
}

// SellStop aggregates the items sold at one terminal.
type SellStop struct {
	TerminalName     string     `json:"terminal_name"`
	TerminalID       int32      `json:"terminal_id"` // 0 = unknown
	System           string     `json:"system"`
	Items            []SellItem `json:"items"`
	StopValue        float64    `json:"stop_value"`
	IsNQA            bool       `json:"is_nqa"`
	DistanceFromPrev *float64   `json:"distance_from_prev"`
}

// SellPlan is an ordered list of stops. TotalDistance is only set once a
// distance overlay has been applied.
type SellPlan struct {
	Stops         []SellStop `json:"stops"`
	TotalValue    float64    `json:"total_value"`
	TotalDistance *float64   `json:"total_distance"`
}

// BestSellPrice resolves the planner's per-point sell price via the chain
// max -> last -> average -> min. Unlike the ranker's chain this includes
// the minimum as a last resort: a plan needs some price to sell at, even a
// poor one.
func BestSellPrice(p *PricePoint) (float64, bool) {
	return firstValidPrice(p.PriceSellMax, p.PriceSell, p.PriceAverage, p.PriceSellMin)
}

// pointCompatible applies the hot-cargo restriction: hot items may only be
// sold at NQA terminals. Incompatible points are excluded entirely, never
// merely down-ranked.
func pointCompatible(item *CargoItem, p *PricePoint, nqaTerminalIDs map[int32]bool) bool {
	if !item.IsHot {
		return true
	}
	return p.TerminalID != 0 && nqaTerminalIDs[p.TerminalID]
}

// CalculateOneStopPlan finds the single terminal where the whole cargo
// list fetches the most, considering only compatible points per item.
// Items with no compatible price point are silently left out of the plan.
func CalculateOneStopPlan(items []CargoItem, priceMap map[string][]PricePoint, nqaTerminalIDs map[int32]bool) SellPlan {
	stops := make(map[string]*SellStop)

	for i := range items {
		item := &items[i]
		points, ok := priceMap[item.CommodityID]
		if !ok {
			continue
		}

		for j := range points {
			point := &points[j]
			if !pointCompatible(item, point, nqaTerminalIDs) {
				continue
			}
			price, ok := BestSellPrice(point)
			if !ok {
				continue
			}

			itemValue := price * float64(item.SCU)
			stop, ok := stops[point.TerminalName]
			if !ok {
				stop = &SellStop{
					TerminalName: point.TerminalName,
					TerminalID:   point.TerminalID,
					System:       point.System,
					IsNQA:        point.TerminalID != 0 && nqaTerminalIDs[point.TerminalID],
				}
				stops[point.TerminalName] = stop
			}
			stop.StopValue += itemValue
			stop.Items = append(stop.Items, SellItem{
				ItemID:         item.ID,
				CommodityName:  item.CommodityName,
				SCU:            item.SCU,
				PricePerUnit:   price,
				TotalValue:     itemValue,
				AvailableStock: point.SCUSellStock,
			})
		}
	}

	var best *SellStop
	for _, stop := range stops {
		// Tie-break on name so identical inputs always give the same plan.
		if best == nil || stop.StopValue > best.StopValue ||
			(stop.StopValue == best.StopValue && stop.TerminalName < best.TerminalName) {
			best = stop
		}
	}

	if best == nil {
		return SellPlan{Stops: []SellStop{}}
	}
	return SellPlan{Stops: []SellStop{*best}, TotalValue: best.StopValue}
}

// CalculateBestValuePlan routes each item to its own best-selling
// compatible point, then groups items into stops by terminal name and
// sorts stops by value.
func CalculateBestValuePlan(items []CargoItem, priceMap map[string][]PricePoint, nqaTerminalIDs map[int32]bool) SellPlan {
	stops := make(map[string]*SellStop)
	order := make([]string, 0)
	totalValue := 0.0

	for i := range items {
		item := &items[i]
		points, ok := priceMap[item.CommodityID]
		if !ok {
			continue
		}

		var bestPoint *PricePoint
		bestPrice := 0.0
		for j := range points {
			point := &points[j]
			if !pointCompatible(item, point, nqaTerminalIDs) {
				continue
			}
			price, ok := BestSellPrice(point)
			if !ok {
				continue
			}
			if bestPoint == nil || price > bestPrice {
				bestPoint = point
				bestPrice = price
			}
		}
		if bestPoint == nil {
			continue
		}

		itemValue := bestPrice * float64(item.SCU)
		totalValue += itemValue

		stop, ok := stops[bestPoint.TerminalName]
		if !ok {
			stop = &SellStop{
				TerminalName: bestPoint.TerminalName,
				TerminalID:   bestPoint.TerminalID,
				System:       bestPoint.System,
				IsNQA:        bestPoint.TerminalID != 0 && nqaTerminalIDs[bestPoint.TerminalID],
			}
			stops[bestPoint.TerminalName] = stop
			order = append(order, bestPoint.TerminalName)
		}
		stop.StopValue += itemValue
		stop.Items = append(stop.Items, SellItem{
			ItemID:         item.ID,
			CommodityName:  item.CommodityName,
			SCU:            item.SCU,
			PricePerUnit:   bestPrice,
			TotalValue:     itemValue,
			AvailableStock: bestPoint.SCUSellStock,
		})
	}

	out := make([]SellStop, 0, len(order))
	for _, name := range order {
		out = append(out, *stops[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StopValue > out[j].StopValue
	})

	return SellPlan{Stops: out, TotalValue: totalValue}
}

// SortByNearestNeighbor reorders a multi-stop plan greedily: repeatedly
// visit the remaining stop with the smallest known distance from the given
// origin map. Stops without a distance count as +inf and are visited last.
//
// This is deliberately not a TSP solve; the greedy order matches what the
// distance endpoint can answer cheaply (all distances are from the origin).
func SortByNearestNeighbor(plan SellPlan, distances map[int32]float64) SellPlan {
	if len(plan.Stops) == 0 {
		return plan
	}

	remaining := append([]SellStop(nil), plan.Stops...)
	sorted := make([]SellStop, 0, len(remaining))
	totalDistance := 0.0

	for len(remaining) > 0 {
		nearestIdx := 0
		nearestDist := stopDistance(&remaining[0], distances)
		for i := 1; i < len(remaining); i++ {
			if d := stopDistance(&remaining[i], distances); d < nearestDist {
				nearestIdx = i
				nearestDist = d
			}
		}

		stop := remaining[nearestIdx]
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)

		dist := nearestDist
		stop.DistanceFromPrev = &dist
		totalDistance += dist
		sorted = append(sorted, stop)
	}

	plan.Stops = sorted
	plan.TotalDistance = &totalDistance
	return plan
}

func stopDistance(stop *SellStop, distances map[int32]float64) float64 {
	if stop.TerminalID == 0 {
		return math.MaxFloat64
	}
	if d, ok := distances[stop.TerminalID]; ok {
		return d
	}
	return math.MaxFloat64
}

// AddDistancesToPlan attaches origin distances to stops without reordering
// (used for single-stop plans, where order is moot).
func AddDistancesToPlan(plan SellPlan, distances map[int32]float64) SellPlan {
	totalDistance := 0.0
	for i := range plan.Stops {
		if plan.Stops[i].TerminalID == 0 {
			continue
		}
		if d, ok := distances[plan.Stops[i].TerminalID]; ok {
			dist := d
			plan.Stops[i].DistanceFromPrev = &dist
			totalDistance += dist
		}
	}
	plan.TotalDistance = &totalDistance
	return plan
}

// ComparePlans reports how much more the best-value plan earns over the
// one-stop plan, as (difference, percent). ok is false when the one-stop
// plan has no value to compare against.
func ComparePlans(oneStop, bestValue SellPlan) (diff, pct float64, ok bool) {
	if oneStop.TotalValue <= 0 {
		return 0, 0, false
	}
	diff = bestValue.TotalValue - oneStop.TotalValue
	pct = diff / oneStop.TotalValue * 100
	return diff, pct, true
}
