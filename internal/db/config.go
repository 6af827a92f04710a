package db

import (
	"fmt"
	"strconv"

	"uex-hauler/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["home_system"]; ok {
		cfg.HomeSystem = v
	}
	if v, ok := m["cargo_scu"]; ok {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.CargoSCU = int32(n)
		}
	}
	if v, ok := m["current_system"]; ok {
		cfg.CurrentSystem = v
	}
	if v, ok := m["origin_name"]; ok {
		cfg.OriginName = v
	}
	if v, ok := m["min_buy_price"]; ok {
		cfg.MinBuyPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["risk_pct"]; ok {
		cfg.RiskPct, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["crew_hourly"]; ok {
		cfg.CrewHourly, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["crew_size"]; ok {
		cfg.CrewSize, _ = strconv.Atoi(v)
	}
	if v, ok := m["time_minutes"]; ok {
		cfg.TimeMinutes, _ = strconv.Atoi(v)
	}
	if v, ok := m["route_sort"]; ok {
		cfg.RouteSort = v
	}
	if v, ok := m["route_descending"]; ok {
		cfg.RouteDescending, _ = strconv.ParseBool(v)
	}
	if v, ok := m["uex_token"]; ok {
		cfg.UEXToken = v
	}

	return cfg
}

// SaveConfig writes config to SQLite (upsert all fields).
func (d *DB) SaveConfig(cfg *config.Config) error {
	pairs := map[string]string{
		"home_system":      cfg.HomeSystem,
		"cargo_scu":        strconv.FormatInt(int64(cfg.CargoSCU), 10),
		"current_system":   cfg.CurrentSystem,
		"origin_name":      cfg.OriginName,
		"min_buy_price":    fmt.Sprintf("%g", cfg.MinBuyPrice),
		"risk_pct":         fmt.Sprintf("%g", cfg.RiskPct),
		"crew_hourly":      fmt.Sprintf("%g", cfg.CrewHourly),
		"crew_size":        strconv.Itoa(cfg.CrewSize),
		"time_minutes":     strconv.Itoa(cfg.TimeMinutes),
		"route_sort":       cfg.RouteSort,
		"route_descending": strconv.FormatBool(cfg.RouteDescending),
		"uex_token":        cfg.UEXToken,
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}
