package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"uex-hauler/internal/engine"
)

type cargoRequest struct {
	CommodityID   string `json:"commodity_id"`
	CommodityName string `json:"commodity_name"`
	SCU           int32  `json:"scu"`
	IsHot         bool   `json:"is_hot"`
}

func (req *cargoRequest) validate() string {
	if strings.TrimSpace(req.CommodityID) == "" {
		return "commodity_id is required"
	}
	if req.SCU <= 0 {
		return "scu must be positive"
	}
	return ""
}

func (s *Server) handleGetCargo(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListCargoItems()
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, items)
}

func (s *Server) handleAddCargo(w http.ResponseWriter, r *http.Request) {
	var req cargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, 400, msg)
		return
	}

	item := engine.CargoItem{
		ID:            uuid.NewString(),
		CommodityID:   req.CommodityID,
		CommodityName: req.CommodityName,
		SCU:           req.SCU,
		IsHot:         req.IsHot,
	}
	if err := s.db.InsertCargoItem(item); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, item)
}

func (s *Server) handleUpdateCargo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req cargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, 400, msg)
		return
	}

	item := engine.CargoItem{
		ID:            id,
		CommodityID:   req.CommodityID,
		CommodityName: req.CommodityName,
		SCU:           req.SCU,
		IsHot:         req.IsHot,
	}
	if err := s.db.UpdateCargoItem(item); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, item)
}

func (s *Server) handleDeleteCargo(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteCargoItem(r.PathValue("id")); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, map[string]bool{"deleted": true})
}

func (s *Server) handleClearCargo(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ClearCargo(); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, map[string]bool{"cleared": true})
}
