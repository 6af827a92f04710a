package api

import (
	"net/http"
	"strconv"
	"time"

	"uex-hauler/internal/engine"
)

// pricesForCargo fetches price points for every distinct commodity in the
// hold. Commodities without data are simply absent from the map; the
// engine treats that as "no estimate yet".
func (s *Server) pricesForCargo(items []engine.CargoItem) map[string][]engine.PricePoint {
	prices := make(map[string][]engine.PricePoint)
	for i := range items {
		item := &items[i]
		if _, done := prices[item.CommodityID]; done {
			continue
		}
		points, err := s.uex.GetPrices(item.CommodityID, item.CommodityName)
		if err != nil || len(points) == 0 {
			continue
		}
		prices[item.CommodityID] = points
	}
	return prices
}

// buildSellLocations derives the ranker's location records from the price
// points themselves, keyed by terminal ID (or name when no ID is known).
// Armistice starts false; the API does not report it and the flag is meant
// to be maintained by hand.
func buildSellLocations(prices map[string][]engine.PricePoint) map[string]engine.SellLocation {
	locations := make(map[string]engine.SellLocation)
	for _, points := range prices {
		for i := range points {
			point := &points[i]
			key := point.TerminalName
			if point.TerminalID != 0 {
				key = strconv.Itoa(int(point.TerminalID))
			}
			if _, ok := locations[key]; ok {
				continue
			}
			locations[key] = engine.SellLocation{
				ID:           key,
				Name:         point.TerminalName,
				System:       point.System,
				Kind:         "Terminal",
				TerminalCode: point.TerminalCode,
			}
		}
	}
	return locations
}

type evaluateResponse struct {
	TotalEV           float64                `json:"total_ev"`
	AverageConfidence float64                `json:"average_confidence"`
	Items             []evaluateItem         `json:"items"`
	Indicator         engine.ProfitIndicator `json:"indicator"`
}

type evaluateItem struct {
	ItemID        string   `json:"item_id"`
	CommodityName string   `json:"commodity_name"`
	SCU           int32    `json:"scu"`
	EV            float64  `json:"ev"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Confidence    float64  `json:"confidence"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListCargoItems()
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}

	prices := s.pricesForCargo(items)
	summary := engine.EvaluateCargoItems(items, prices, time.Now())
	indicator := engine.ProfitabilityIndicator(summary.TotalEV, s.profitabilityParams())

	resp := evaluateResponse{
		TotalEV:           summary.TotalEV,
		AverageConfidence: summary.AverageConfidence,
		Items:             make([]evaluateItem, 0, len(summary.Items)),
		Indicator:         indicator,
	}
	for i, eval := range summary.Items {
		resp.Items = append(resp.Items, evaluateItem{
			ItemID:        eval.ItemID,
			CommodityName: items[i].CommodityName,
			SCU:           items[i].SCU,
			EV:            eval.EV,
			Min:           eval.Min,
			Max:           eval.Max,
			Confidence:    eval.Confidence,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleBestPrices(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListCargoItems()
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}

	prices := s.pricesForCargo(items)
	locations := buildSellLocations(prices)
	writeJSON(w, engine.RankBestPrices(items, prices, locations))
}
