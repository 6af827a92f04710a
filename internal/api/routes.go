package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"uex-hauler/internal/engine"
	"uex-hauler/internal/logger"
)

// RoutesCacheTTL is how long a full route sweep stays valid. A sweep hits
// the price endpoint once per commodity, so it is too expensive to redo on
// every request.
const RoutesCacheTTL = 24 * time.Hour

type routesResponse struct {
	Routes   []engine.TradeRoute `json:"routes"`
	Total    int                 `json:"total"`
	SCU      int32               `json:"scu"`
	Sort     string              `json:"sort"`
	CachedAt int64               `json:"cached_at"`
}

// handleRoutes returns the filtered and sorted route list. Query params:
// scu, sort, desc, refresh, and one key per TradeRouteFilter criterion.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	routes, cachedAt, err := s.sweptRoutes(q.Get("refresh") == "true")
	if err != nil {
		writeError(w, 502, err.Error())
		return
	}

	scu := s.defaultSCU()
	if v, err := strconv.ParseInt(q.Get("scu"), 10, 32); err == nil && v > 0 {
		scu = int32(v)
	}

	filter := engine.TradeRouteFilter{
		CommodityID: q.Get("commodity_id"),
		BuySystem:   q.Get("buy_system"),
		SellSystem:  q.Get("sell_system"),
	}
	filter.MaxInvest, _ = strconv.ParseFloat(q.Get("max_invest"), 64)
	filter.MinProfit, _ = strconv.ParseFloat(q.Get("min_profit"), 64)
	filter.MinROIPercent, _ = strconv.ParseFloat(q.Get("min_roi"), 64)
	filter.MaxDistanceGm, _ = strconv.ParseFloat(q.Get("max_distance"), 64)
	filter.MinBuyPrice, _ = strconv.ParseFloat(q.Get("min_buy_price"), 64)
	filter.OnlyIllegal = q.Get("only_illegal") == "true"
	filter.OnlyNQASell = q.Get("only_nqa") == "true"
	filter.StationsOnly = q.Get("stations_only") == "true"

	s.mu.RLock()
	if filter.MinBuyPrice == 0 {
		filter.MinBuyPrice = s.cfg.MinBuyPrice
	}
	sortMode := engine.RouteSort(s.cfg.RouteSort)
	descending := s.cfg.RouteDescending
	s.mu.RUnlock()

	if v := q.Get("sort"); v != "" {
		sortMode = engine.RouteSort(v)
	}
	if v := q.Get("desc"); v != "" {
		descending = v == "true"
	}

	filtered := engine.FilterRoutes(routes, filter, scu)
	engine.SortRoutes(filtered, sortMode, scu, descending)

	writeJSON(w, routesResponse{
		Routes:   filtered,
		Total:    len(filtered),
		SCU:      scu,
		Sort:     string(sortMode),
		CachedAt: cachedAt.Unix(),
	})
}

// sweptRoutes returns the cached route sweep, running a fresh sweep when
// the cache is empty, expired, or a refresh is forced.
func (s *Server) sweptRoutes(force bool) ([]engine.TradeRoute, time.Time, error) {
	s.routesMu.RLock()
	routes, cachedAt := s.routes, s.routesAt
	s.routesMu.RUnlock()
	if !force && len(routes) > 0 && time.Since(cachedAt) <= RoutesCacheTTL {
		return routes, cachedAt, nil
	}

	s.routesMu.Lock()
	if s.routeSweeping {
		// Another request is already sweeping; serve what we have.
		routes, cachedAt = s.routes, s.routesAt
		s.routesMu.Unlock()
		if len(routes) > 0 {
			return routes, cachedAt, nil
		}
		return nil, time.Time{}, fmt.Errorf("route sweep in progress, retry shortly")
	}
	s.routeSweeping = true
	s.routesMu.Unlock()
	defer func() {
		s.routesMu.Lock()
		s.routeSweeping = false
		s.routesMu.Unlock()
	}()

	swept, err := s.runRouteSweep()
	if err != nil {
		return nil, time.Time{}, err
	}

	now := time.Now()
	s.routesMu.Lock()
	s.routes, s.routesAt = swept, now
	s.routesMu.Unlock()
	if s.db != nil {
		if err := s.db.SaveRoutesCache(now, swept); err != nil {
			logger.Warn("Routes", fmt.Sprintf("Failed to persist sweep: %v", err))
		}
	}
	return swept, now, nil
}

// runRouteSweep fetches the commodity list, all per-commodity prices, and
// the NQA terminal set, then enumerates every profitable route.
func (s *Server) runRouteSweep() ([]engine.TradeRoute, error) {
	started := time.Now()

	commodities, err := s.uex.GetCommodities()
	if err != nil {
		return nil, err
	}
	nqaIDs, err := s.uex.NQATerminalIDs()
	if err != nil {
		return nil, err
	}

	logger.Info("Routes", fmt.Sprintf("Sweeping %d commodities...", len(commodities)))
	prices := s.uex.GetPriceMap(commodities)

	routes := engine.CalculateAllRoutes(commodities, prices, nqaIDs)
	logger.Success("Routes", fmt.Sprintf("Sweep done: %d routes in %s", len(routes), time.Since(started).Round(time.Second)))
	return routes, nil
}
