package engine

import (
	"math"
	"sort"
)

// TradeRouteFilter is the AND-combined route filter. Zero values disable a
// criterion, matching the rest of the engine's "0 = no filter" convention.
type TradeRouteFilter struct {
	MaxInvest     float64 `json:"max_invest"`       // against quantity-scaled invest
	MinProfit     float64 `json:"min_profit"`       // against quantity-scaled total profit
	MinROIPercent float64 `json:"min_roi_percent"`  // against the unscaled route ROI
	MaxDistanceGm float64 `json:"max_distance_gm"`  // routes without distance always pass
	MinBuyPrice   float64 `json:"min_buy_price"`    // high-value cargo filter, aUEC/SCU
	OnlyIllegal   bool    `json:"only_illegal"`
	OnlyNQASell   bool    `json:"only_nqa_sell"`
	StationsOnly  bool    `json:"stations_only"` // exclude planetary endpoints
	CommodityID   string  `json:"commodity_id"`
	BuySystem     string  `json:"buy_system"`
	SellSystem    string  `json:"sell_system"`
}

// Matches reports whether the route passes every active criterion at the
// given haul size. Invest and profit are recomputed for the quantity.
func (f *TradeRouteFilter) Matches(route *TradeRoute, scu int32) bool {
	withQty := route.ForQuantity(scu)

	if f.MaxInvest > 0 && withQty.Invest > f.MaxInvest {
		return false
	}
	if f.MinProfit > 0 && withQty.ProfitTotal < f.MinProfit {
		return false
	}
	if f.MinROIPercent > 0 && route.ROIPercent < f.MinROIPercent {
		return false
	}
	if f.MaxDistanceGm > 0 && route.DistanceGm != nil && *route.DistanceGm > f.MaxDistanceGm {
		return false
	}
	if f.MinBuyPrice > 0 && route.BuyPrice < f.MinBuyPrice {
		return false
	}
	if f.OnlyIllegal && !route.IsIllegal {
		return false
	}
	if f.OnlyNQASell && !route.SellIsNQA {
		return false
	}
	if f.StationsOnly && (route.BuyIsPlanetary || route.SellIsPlanetary) {
		return false
	}
	if f.CommodityID != "" && route.CommodityID != f.CommodityID {
		return false
	}
	if f.BuySystem != "" && route.BuySystem != f.BuySystem {
		return false
	}
	if f.SellSystem != "" && route.SellSystem != f.SellSystem {
		return false
	}
	return true
}

// FilterRoutes returns the routes passing the filter at the given quantity.
func FilterRoutes(routes []TradeRoute, filter TradeRouteFilter, scu int32) []TradeRoute {
	out := make([]TradeRoute, 0, len(routes))
	for i := range routes {
		if filter.Matches(&routes[i], scu) {
			out = append(out, routes[i])
		}
	}
	return out
}

// RouteSort selects the sort key for SortRoutes.
type RouteSort string

const (
	SortProfitPerGm   RouteSort = "profit_per_gm"
	SortROIPercent    RouteSort = "roi_percent"
	SortProfitTotal   RouteSort = "profit_total"
	SortActivityScore RouteSort = "activity"
	SortDistance      RouteSort = "distance"
	SortCargoValue    RouteSort = "cargo_value"
)

// Label is the human-readable name for a sort key.
func (s RouteSort) Label() string {
	switch s {
	case SortProfitPerGm:
		return "Profit/Gm"
	case SortROIPercent:
		return "ROI %"
	case SortProfitTotal:
		return "Profit"
	case SortActivityScore:
		return "Traffic"
	case SortDistance:
		return "Distance"
	case SortCargoValue:
		return "Cargo value"
	default:
		return string(s)
	}
}

// SortRoutes orders routes in place by the given key. ProfitTotal is
// recomputed per element for the requested quantity; routes without a
// distance sort as +inf on the distance key (always last ascending).
// NaN-involving comparisons collapse to equal rather than panicking.
func SortRoutes(routes []TradeRoute, mode RouteSort, scu int32, descending bool) {
	key := func(r *TradeRoute) float64 {
		switch mode {
		case SortProfitPerGm:
			v, _ := r.ProfitPerGm()
			return v
		case SortROIPercent:
			return r.ROIPercent
		case SortProfitTotal:
			return r.ForQuantity(scu).ProfitTotal
		case SortActivityScore:
			return float64(r.ActivityScore())
		case SortDistance:
			if r.DistanceGm == nil {
				return math.MaxFloat64
			}
			return *r.DistanceGm
		case SortCargoValue:
			return r.BuyPrice
		default:
			return 0
		}
	}

	sort.SliceStable(routes, func(i, j int) bool {
		cmp := compareFloats(key(&routes[i]), key(&routes[j]))
		if descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}

// compareFloats is a total ordering with NaN treated as equal to anything.
func compareFloats(a, b float64) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
