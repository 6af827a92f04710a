package api

import (
	"net/http"
	"strconv"
	"strings"

	"uex-hauler/internal/engine"
)

type planResponse struct {
	Mode engine.PlannerMode `json:"mode"`
	Plan engine.SellPlan    `json:"plan"`

	// Comparison against the alternative strategy, when it has a value.
	Comparison *planComparison `json:"comparison"`
}

type planComparison struct {
	OneStopValue   float64 `json:"one_stop_value"`
	BestValueTotal float64 `json:"best_value_total"`
	Difference     float64 `json:"difference"`
	Percent        float64 `json:"percent"`
}

// handlePlan builds a sell plan for the current cargo. Query params:
// mode (onestop|bestvalue, default bestvalue) and origin (terminal ID for
// the distance overlay; falls back to the configured origin location).
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListCargoItems()
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}

	nqaIDs, err := s.uex.NQATerminalIDs()
	if err != nil {
		writeError(w, 502, err.Error())
		return
	}
	prices := s.pricesForCargo(items)

	mode := engine.PlanBestValue
	if r.URL.Query().Get("mode") == string(engine.PlanOneStop) {
		mode = engine.PlanOneStop
	}

	oneStop := engine.CalculateOneStopPlan(items, prices, nqaIDs)
	bestValue := engine.CalculateBestValuePlan(items, prices, nqaIDs)

	plan := bestValue
	if mode == engine.PlanOneStop {
		plan = oneStop
	}

	if originID := s.resolveOrigin(r.URL.Query().Get("origin")); originID != 0 {
		distances := s.uex.GetTerminalDistances(originID, planTerminalIDs(plan))
		if mode == engine.PlanBestValue && len(plan.Stops) > 1 {
			plan = engine.SortByNearestNeighbor(plan, distances)
		} else {
			plan = engine.AddDistancesToPlan(plan, distances)
		}
	}

	resp := planResponse{Mode: mode, Plan: plan}
	if diff, pct, ok := engine.ComparePlans(oneStop, bestValue); ok {
		resp.Comparison = &planComparison{
			OneStopValue:   oneStop.TotalValue,
			BestValueTotal: bestValue.TotalValue,
			Difference:     diff,
			Percent:        pct,
		}
	}
	writeJSON(w, resp)
}

func planTerminalIDs(plan engine.SellPlan) []int32 {
	ids := make([]int32, 0, len(plan.Stops))
	for i := range plan.Stops {
		if plan.Stops[i].TerminalID != 0 {
			ids = append(ids, plan.Stops[i].TerminalID)
		}
	}
	return ids
}

// resolveOrigin turns the origin query param (a terminal ID or a location
// name) into a terminal ID, falling back to the configured origin location.
// Returns 0 when no origin can be resolved; the plan then ships without
// distances.
func (s *Server) resolveOrigin(origin string) int32 {
	if origin == "" {
		s.mu.RLock()
		origin = s.cfg.OriginName
		s.mu.RUnlock()
	}
	if origin == "" {
		return 0
	}

	if id, err := strconv.ParseInt(origin, 10, 32); err == nil && id > 0 {
		return int32(id)
	}

	terminals, err := s.uex.GetTerminals()
	if err != nil {
		return 0
	}
	for i := range terminals.Terminals {
		t := &terminals.Terminals[i]
		if strings.EqualFold(t.LocationName(), origin) || strings.EqualFold(t.Name, origin) {
			return t.ID
		}
	}
	return 0
}
