package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"uex-hauler/internal/config"
	"uex-hauler/internal/db"
	"uex-hauler/internal/engine"
	"uex-hauler/internal/uex"
)

// Server is the HTTP API server that connects the UEX client, evaluation
// engine, and database.
type Server struct {
	cfg *config.Config
	uex *uex.Client
	db  *db.DB

	mu sync.RWMutex

	// Route sweep cache (24h TTL, persisted to SQLite so a restart does
	// not force a re-sweep).
	routesMu      sync.RWMutex
	routes        []engine.TradeRoute
	routesAt      time.Time
	routeSweeping bool
}

// NewServer creates a Server with the given config, UEX client, and database.
func NewServer(cfg *config.Config, uexClient *uex.Client, database *db.DB) *Server {
	s := &Server{cfg: cfg, uex: uexClient, db: database}
	if database != nil {
		if routes, cachedAt, ok := database.LoadRoutesCache(); ok {
			s.routes = routes
			s.routesAt = cachedAt
		}
	}
	return s
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("GET /api/commodities", s.handleCommodities)
	mux.HandleFunc("GET /api/locations", s.handleLocations)
	// Cargo hold
	mux.HandleFunc("GET /api/cargo", s.handleGetCargo)
	mux.HandleFunc("POST /api/cargo", s.handleAddCargo)
	mux.HandleFunc("PUT /api/cargo/{id}", s.handleUpdateCargo)
	mux.HandleFunc("DELETE /api/cargo/{id}", s.handleDeleteCargo)
	mux.HandleFunc("POST /api/cargo/clear", s.handleClearCargo)
	// Evaluation
	mux.HandleFunc("GET /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/bestprices", s.handleBestPrices)
	// Routes
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	// Sell planner
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := map[string]interface{}{
		"ok": true,
	}

	if terminals, err := s.uex.GetTerminals(); err == nil {
		result["terminals"] = len(terminals.Terminals)
		result["game_version"] = terminals.GameVersion
		result["terminal_cache_age"] = terminals.AgeString()
	} else {
		result["ok"] = false
		result["error"] = err.Error()
	}

	s.routesMu.RLock()
	if !s.routesAt.IsZero() {
		result["routes_cached"] = len(s.routes)
		result["routes_cached_at"] = s.routesAt.Unix()
	}
	s.routesMu.RUnlock()

	writeJSON(w, result)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := patch["home_system"]; ok {
		json.Unmarshal(v, &s.cfg.HomeSystem)
	}
	if v, ok := patch["cargo_scu"]; ok {
		json.Unmarshal(v, &s.cfg.CargoSCU)
	}
	if v, ok := patch["current_system"]; ok {
		json.Unmarshal(v, &s.cfg.CurrentSystem)
	}
	if v, ok := patch["origin_name"]; ok {
		json.Unmarshal(v, &s.cfg.OriginName)
	}
	if v, ok := patch["min_buy_price"]; ok {
		json.Unmarshal(v, &s.cfg.MinBuyPrice)
	}
	if v, ok := patch["risk_pct"]; ok {
		json.Unmarshal(v, &s.cfg.RiskPct)
	}
	if v, ok := patch["crew_hourly"]; ok {
		json.Unmarshal(v, &s.cfg.CrewHourly)
	}
	if v, ok := patch["crew_size"]; ok {
		json.Unmarshal(v, &s.cfg.CrewSize)
	}
	if v, ok := patch["time_minutes"]; ok {
		json.Unmarshal(v, &s.cfg.TimeMinutes)
	}
	if v, ok := patch["route_sort"]; ok {
		json.Unmarshal(v, &s.cfg.RouteSort)
	}
	if v, ok := patch["route_descending"]; ok {
		json.Unmarshal(v, &s.cfg.RouteDescending)
	}
	if v, ok := patch["uex_token"]; ok {
		json.Unmarshal(v, &s.cfg.UEXToken)
	}

	// Validate bounds
	if s.cfg.CargoSCU < 0 {
		s.cfg.CargoSCU = 0
	}
	if s.cfg.RiskPct < 0 {
		s.cfg.RiskPct = 0
	} else if s.cfg.RiskPct > 1 {
		s.cfg.RiskPct = 1
	}
	if s.cfg.CrewHourly < 0 {
		s.cfg.CrewHourly = 0
	}
	if s.cfg.CrewSize < 0 {
		s.cfg.CrewSize = 0
	}
	if s.cfg.TimeMinutes < 0 {
		s.cfg.TimeMinutes = 0
	}

	if s.db != nil {
		s.db.SaveConfig(s.cfg)
	}
	writeJSON(w, s.cfg)
}

func (s *Server) handleCommodities(w http.ResponseWriter, r *http.Request) {
	commodities, err := s.uex.GetCommodities()
	if err != nil {
		writeError(w, 502, err.Error())
		return
	}
	writeJSON(w, commodities)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	terminals, err := s.uex.GetTerminals()
	if err != nil {
		writeError(w, 502, err.Error())
		return
	}
	writeJSON(w, engine.ExtractLocations(terminals.Terminals))
}

// profitabilityParams snapshots the config into engine parameters.
func (s *Server) profitabilityParams() engine.ProfitabilityParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return engine.ProfitabilityParams{
		RiskPct:     s.cfg.RiskPct,
		CrewHourly:  s.cfg.CrewHourly,
		CrewSize:    s.cfg.CrewSize,
		TimeMinutes: s.cfg.TimeMinutes,
	}
}

func (s *Server) defaultSCU() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.CargoSCU
}
