package db

import (
	"encoding/json"
	"fmt"
	"time"

	"uex-hauler/internal/engine"
)

// SaveTerminalCache persists the full terminal list as one JSON blob along
// with the game version it was fetched under.
func (d *DB) SaveTerminalCache(gameVersion string, cachedAt time.Time, terminals []engine.Terminal) error {
	payload, err := json.Marshal(terminals)
	if err != nil {
		return fmt.Errorf("marshal terminals: %w", err)
	}
	_, err = d.sql.Exec(`
		INSERT INTO terminal_cache (id, game_version, cached_at, payload) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET game_version = excluded.game_version,
			cached_at = excluded.cached_at, payload = excluded.payload`,
		gameVersion, cachedAt.UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("save terminal cache: %w", err)
	}
	return nil
}

// LoadTerminalCache returns the persisted terminal list, or ok=false when
// none exists or the stored blob is unreadable.
func (d *DB) LoadTerminalCache() (gameVersion string, cachedAt time.Time, terminals []engine.Terminal, ok bool) {
	var at, payload string
	err := d.sql.QueryRow("SELECT game_version, cached_at, payload FROM terminal_cache WHERE id = 1").
		Scan(&gameVersion, &at, &payload)
	if err != nil {
		return "", time.Time{}, nil, false
	}
	cachedAt, err = time.Parse(time.RFC3339, at)
	if err != nil {
		return "", time.Time{}, nil, false
	}
	if err := json.Unmarshal([]byte(payload), &terminals); err != nil {
		return "", time.Time{}, nil, false
	}
	return gameVersion, cachedAt, terminals, true
}

// SaveRoutesCache persists the last full route sweep.
func (d *DB) SaveRoutesCache(cachedAt time.Time, routes []engine.TradeRoute) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	_, err = d.sql.Exec(`
		INSERT INTO routes_cache (id, cached_at, payload) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cached_at = excluded.cached_at, payload = excluded.payload`,
		cachedAt.UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("save routes cache: %w", err)
	}
	return nil
}

// LoadRoutesCache returns the persisted route sweep, or ok=false when none
// exists.
func (d *DB) LoadRoutesCache() (routes []engine.TradeRoute, cachedAt time.Time, ok bool) {
	var at, payload string
	err := d.sql.QueryRow("SELECT cached_at, payload FROM routes_cache WHERE id = 1").
		Scan(&at, &payload)
	if err != nil {
		return nil, time.Time{}, false
	}
	cachedAt, err = time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, time.Time{}, false
	}
	if err := json.Unmarshal([]byte(payload), &routes); err != nil {
		return nil, time.Time{}, false
	}
	return routes, cachedAt, true
}
