package uex

import (
	"fmt"
	"strconv"
	"time"

	"uex-hauler/internal/engine"
	"uex-hauler/internal/logger"
)

// TerminalCacheTTL is how long the terminal list stays valid. Terminals
// only change with major patches, so the game version is checked as a
// secondary trigger before the TTL runs out.
const TerminalCacheTTL = 7 * 24 * time.Hour

// TerminalCache is the terminal list together with the game version it was
// fetched under.
type TerminalCache struct {
	GameVersion string
	CachedAt    time.Time
	Terminals   []engine.Terminal
}

// IsExpired reports whether the cache is older than the TTL.
func (tc *TerminalCache) IsExpired() bool {
	return tc.Age() > TerminalCacheTTL
}

// Age returns how old the cache is; a future CachedAt counts as zero.
func (tc *TerminalCache) Age() time.Duration {
	age := time.Since(tc.CachedAt)
	if age < 0 {
		return 0
	}
	return age
}

// AgeString formats the age for log lines.
func (tc *TerminalCache) AgeString() string {
	age := tc.Age()
	switch {
	case age >= 24*time.Hour:
		return fmt.Sprintf("%.1fd", age.Hours()/24)
	case age >= time.Hour:
		return fmt.Sprintf("%.1fh", age.Hours())
	default:
		return fmt.Sprintf("%.0fm", age.Minutes())
	}
}

// IsNQA reports whether the given terminal sells with no questions asked.
func (tc *TerminalCache) IsNQA(terminalID int32) bool {
	for i := range tc.Terminals {
		if tc.Terminals[i].ID == terminalID {
			return tc.Terminals[i].IsNQA
		}
	}
	return false
}

// NQATerminalIDs returns the set of NQA terminal IDs.
func (tc *TerminalCache) NQATerminalIDs() map[int32]bool {
	ids := make(map[int32]bool)
	for i := range tc.Terminals {
		if tc.Terminals[i].IsNQA {
			ids[tc.Terminals[i].ID] = true
		}
	}
	return ids
}

// GetTerminals returns the terminal list, loading in order from memory,
// the persistent store, and finally the API. A stored list is revalidated
// against the live game version; a version bump forces a refresh even
// inside the TTL.
func (c *Client) GetTerminals() (*TerminalCache, error) {
	c.mu.RLock()
	cached := c.terminals
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if c.store != nil {
		if version, cachedAt, terminals, ok := c.store.LoadTerminalCache(); ok {
			disk := &TerminalCache{GameVersion: version, CachedAt: cachedAt, Terminals: terminals}
			if disk.IsExpired() {
				logger.Info("Terminals", fmt.Sprintf("Cache expired (age %s), refreshing", disk.AgeString()))
				return c.RefreshTerminals()
			}

			current, err := c.fetchGameVersion()
			if err != nil {
				return nil, err
			}
			if disk.GameVersion == current {
				logger.Info("Terminals", fmt.Sprintf("Cache valid (age %s, version %s)", disk.AgeString(), current))
				c.mu.Lock()
				c.terminals = disk
				c.mu.Unlock()
				return disk, nil
			}
			logger.Info("Terminals", fmt.Sprintf("Version changed %s -> %s, refreshing", disk.GameVersion, current))
		}
	}

	return c.RefreshTerminals()
}

// RefreshTerminals bypasses all caches and fetches the terminal list fresh.
func (c *Client) RefreshTerminals() (*TerminalCache, error) {
	version, err := c.fetchGameVersion()
	if err != nil {
		return nil, err
	}

	var dtos []terminalDTO
	if err := c.get("terminals", nil, &dtos); err != nil {
		return nil, err
	}
	terminals := make([]engine.Terminal, 0, len(dtos))
	nqaCount := 0
	for i := range dtos {
		t := dtos[i].toTerminal()
		if t.IsNQA {
			nqaCount++
		}
		terminals = append(terminals, t)
	}
	logger.Success("Terminals", fmt.Sprintf("Loaded %d terminals (%d NQA) for version %s", len(terminals), nqaCount, version))

	cache := &TerminalCache{GameVersion: version, CachedAt: time.Now(), Terminals: terminals}
	if c.store != nil {
		if err := c.store.SaveTerminalCache(cache.GameVersion, cache.CachedAt, cache.Terminals); err != nil {
			logger.Warn("Terminals", fmt.Sprintf("Failed to persist cache: %v", err))
		}
	}
	c.mu.Lock()
	c.terminals = cache
	c.mu.Unlock()
	return cache, nil
}

// NQATerminalIDs loads the terminal list and returns the NQA ID set.
func (c *Client) NQATerminalIDs() (map[int32]bool, error) {
	cache, err := c.GetTerminals()
	if err != nil {
		return nil, err
	}
	return cache.NQATerminalIDs(), nil
}

func (c *Client) fetchGameVersion() (string, error) {
	var versions gameVersionsDTO
	if err := c.get("game_versions", nil, &versions); err != nil {
		return "", err
	}
	if versions.Live == "" {
		return "unknown", nil
	}
	return versions.Live, nil
}

// GetTerminalDistance returns the distance between two terminals in
// gigameters, or ok=false when the API has no answer. Lookup failures are
// treated as "no distance"; distances are decorative and must never fail a
// route or plan.
func (c *Client) GetTerminalDistance(originID, destinationID int32) (float64, bool) {
	if originID == destinationID {
		return 0, true
	}
	var dto terminalDistanceDTO
	err := c.get("terminals_distances", map[string]string{
		"id_terminal_origin":      strconv.Itoa(int(originID)),
		"id_terminal_destination": strconv.Itoa(int(destinationID)),
	}, &dto)
	if err != nil {
		return 0, false
	}
	distance, err := strconv.ParseFloat(dto.Distance, 64)
	if err != nil {
		return 0, false
	}
	return distance, true
}

// GetTerminalDistances maps each destination terminal to its distance from
// the origin. Destinations the API cannot answer are simply absent.
func (c *Client) GetTerminalDistances(originID int32, destinationIDs []int32) map[int32]float64 {
	distances := make(map[int32]float64, len(destinationIDs))
	for _, destID := range destinationIDs {
		if d, ok := c.GetTerminalDistance(originID, destID); ok {
			distances[destID] = d
		}
	}
	return distances
}
