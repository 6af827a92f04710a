package engine

import (
	"log"
	"math"
	"sync"
)

// TradeRoute is one profitable (buy terminal, sell terminal) pair for one
// commodity. Routes are only ever created profitable: ProfitPerSCU > 0 and
// ROIPercent finite and > 0 hold for every instance the calculator emits.
//
// Price terminology is from the player's perspective: PriceBuy on the buy
// terminal is what the player pays, PriceSell on the sell terminal is what
// the player receives. These are the literal transactable prices from the
// snapshot, deliberately NOT the fallback-chain estimates the evaluator
// uses for display.
type TradeRoute struct {
	CommodityID   string `json:"commodity_id"`
	CommodityName string `json:"commodity_name"`
	IsIllegal     bool   `json:"is_illegal"`

	BuyTerminalID   int32   `json:"buy_terminal_id"`
	BuyTerminalName string  `json:"buy_terminal_name"`
	BuySystem       string  `json:"buy_system"`
	BuyPrice        float64 `json:"buy_price"`
	BuyStock        float64 `json:"buy_stock"`
	BuyUserRows     int     `json:"buy_user_rows"`
	BuyIsPlanetary  bool    `json:"buy_is_planetary"`

	SellTerminalID   int32   `json:"sell_terminal_id"`
	SellTerminalName string  `json:"sell_terminal_name"`
	SellSystem       string  `json:"sell_system"`
	SellPrice        float64 `json:"sell_price"`
	SellDemand       float64 `json:"sell_demand"`
	SellUserRows     int     `json:"sell_user_rows"`
	SellIsPlanetary  bool    `json:"sell_is_planetary"`
	SellIsNQA        bool    `json:"sell_is_nqa"`

	// DistanceGm is filled by a later pass when the caller has distance
	// data; nil = unknown.
	DistanceGm *float64 `json:"distance_gm"`

	ProfitPerSCU float64 `json:"profit_per_scu"`
	ROIPercent   float64 `json:"roi_percent"`
}

// ActivityScore is the combined buy+sell user activity, a rough traffic
// indicator.
func (r *TradeRoute) ActivityScore() int {
	return r.BuyUserRows + r.SellUserRows
}

// ProfitPerGm returns profit per gigameter for 1 SCU. The bool is false
// when no distance is known; a known-but-zero distance yields 0.
func (r *TradeRoute) ProfitPerGm() (float64, bool) {
	if r.DistanceGm == nil {
		return 0, false
	}
	if *r.DistanceGm > 0 {
		return r.ProfitPerSCU / *r.DistanceGm, true
	}
	return 0, true
}

// truncSCU floors a stock figure to whole SCU, clamped to int32 range.
func truncSCU(v float64) int32 {
	f := math.Floor(v)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(f)
}

// TradeRouteWithQuantity is a route scaled to a concrete haul size.
type TradeRouteWithQuantity struct {
	Route        TradeRoute
	Quantity     int32
	MaxTradeable int32 // min(buy stock, sell demand), truncated to SCU
	Invest       float64
	ProfitTotal  float64
	ProfitPerGm  *float64
}

// ForQuantity scales the route to the requested SCU, capped by both the
// buy stock and the sell demand (each truncated to whole SCU first).
func (r *TradeRoute) ForQuantity(scu int32) TradeRouteWithQuantity {
	maxTradeable := truncSCU(r.BuyStock)
	if demand := truncSCU(r.SellDemand); demand < maxTradeable {
		maxTradeable = demand
	}
	quantity := scu
	if maxTradeable < quantity {
		quantity = maxTradeable
	}

	invest := r.BuyPrice * float64(quantity)
	revenue := r.SellPrice * float64(quantity)
	profitTotal := revenue - invest

	var profitPerGm *float64
	if r.DistanceGm != nil {
		v := 0.0
		if *r.DistanceGm > 0 {
			v = profitTotal / *r.DistanceGm
		}
		profitPerGm = &v
	}

	return TradeRouteWithQuantity{
		Route:        *r,
		Quantity:     quantity,
		MaxTradeable: maxTradeable,
		Invest:       invest,
		ProfitTotal:  profitTotal,
		ProfitPerGm:  profitPerGm,
	}
}

// CalculateRoutesForCommodity enumerates every profitable buy/sell terminal
// pair for one commodity.
//
// Candidates use the direct PriceBuy/PriceSell fields rather than the
// fallback chains: route math needs the price a player can actually
// transact at, not a display estimate. Buy candidates need stock
// (SCUBuy > 0), sell candidates need demand (SCUSellStock > 0).
func CalculateRoutesForCommodity(
	commodityID, commodityName string,
	isIllegal bool,
	prices []PricePoint,
	nqaTerminalIDs map[int32]bool,
) []TradeRoute {
	var buyTerminals, sellTerminals []*PricePoint
	for i := range prices {
		p := &prices[i]
		if p.PriceBuy > 0 && p.SCUBuy > 0 {
			buyTerminals = append(buyTerminals, p)
		}
		if p.PriceSell > 0 && p.SCUSellStock > 0 {
			sellTerminals = append(sellTerminals, p)
		}
	}

	// Cartesian sweep. Candidate counts per commodity are tens of
	// terminals, so the quadratic cost stays trivial.
	var routes []TradeRoute
	for _, buy := range buyTerminals {
		for _, sell := range sellTerminals {
			if buy.TerminalID == sell.TerminalID {
				continue
			}

			profitPerSCU := sell.PriceSell - buy.PriceBuy
			if profitPerSCU <= 0 {
				continue
			}
			roiPercent := profitPerSCU / buy.PriceBuy * 100
			if math.IsNaN(roiPercent) || math.IsInf(roiPercent, 0) || roiPercent <= 0 {
				continue
			}

			routes = append(routes, TradeRoute{
				CommodityID:      commodityID,
				CommodityName:    commodityName,
				IsIllegal:        isIllegal,
				BuyTerminalID:    buy.TerminalID,
				BuyTerminalName:  buy.TerminalName,
				BuySystem:        buy.System,
				BuyPrice:         buy.PriceBuy,
				BuyStock:         buy.SCUBuy,
				BuyUserRows:      buy.BuyUserRows,
				BuyIsPlanetary:   buy.IsPlanetary(),
				SellTerminalID:   sell.TerminalID,
				SellTerminalName: sell.TerminalName,
				SellSystem:       sell.System,
				SellPrice:        sell.PriceSell,
				SellDemand:       sell.SCUSellStock,
				SellUserRows:     sell.SellUserRows,
				SellIsPlanetary:  sell.IsPlanetary(),
				SellIsNQA:        sell.TerminalID != 0 && nqaTerminalIDs[sell.TerminalID],
				ProfitPerSCU:     profitPerSCU,
				ROIPercent:       roiPercent,
			})
		}
	}

	return routes
}

// CalculateAllRoutes runs the per-commodity sweep across the whole
// commodity list. Each commodity is independent and side-effect-free, so
// the sweeps run in parallel with a bounded worker count.
func CalculateAllRoutes(
	commodities []Commodity,
	prices map[string][]PricePoint,
	nqaTerminalIDs map[int32]bool,
) []TradeRoute {
	var mu sync.Mutex
	var all []TradeRoute
	var wg sync.WaitGroup
	sem := make(chan struct{}, 8)

	for i := range commodities {
		c := commodities[i]
		points, ok := prices[c.ID]
		if !ok || len(points) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			routes := CalculateRoutesForCommodity(c.ID, c.Name, c.IsIllegal, points, nqaTerminalIDs)
			if len(routes) == 0 {
				return
			}
			mu.Lock()
			all = append(all, routes...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	log.Printf("[Routes] %d routes across %d commodities", len(all), len(commodities))
	return all
}
