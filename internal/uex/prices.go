package uex

import (
	"fmt"
	"time"

	"uex-hauler/internal/engine"
	"uex-hauler/internal/logger"
)

// GetCommodities returns the commodity list, cached for the price TTL.
// On a fetch error a stale cached copy is returned rather than failing.
func (c *Client) GetCommodities() ([]engine.Commodity, error) {
	c.mu.RLock()
	cached := c.commodities
	c.mu.RUnlock()
	if cached != nil && time.Since(cached.fetchedAt) <= c.ttl {
		return cached.data, nil
	}

	v, err, _ := c.group.Do("commodities", func() (interface{}, error) {
		var dtos []commodityDTO
		if err := c.get("commodities", nil, &dtos); err != nil {
			return nil, err
		}
		commodities := make([]engine.Commodity, 0, len(dtos))
		for i := range dtos {
			commodities = append(commodities, dtos[i].toCommodity())
		}
		c.mu.Lock()
		c.commodities = &cachedCommodities{data: commodities, fetchedAt: time.Now()}
		c.mu.Unlock()
		return commodities, nil
	})
	if err != nil {
		if cached != nil {
			logger.Warn("UEX", fmt.Sprintf("Commodity fetch failed, serving stale cache: %v", err))
			return cached.data, nil
		}
		return nil, err
	}
	return v.([]engine.Commodity), nil
}

// GetPrices returns all terminal price points for one commodity, cached for
// the price TTL. The API is queried by commodity ID first and by name as a
// fallback; some endpoint revisions only answer one of the two. On a fetch
// error a stale cached copy is returned rather than failing.
func (c *Client) GetPrices(commodityID, commodityName string) ([]engine.PricePoint, error) {
	c.mu.RLock()
	cached := c.prices[commodityID]
	c.mu.RUnlock()
	if cached != nil && time.Since(cached.fetchedAt) <= c.ttl {
		return cached.data, nil
	}

	v, err, _ := c.group.Do("prices:"+commodityID, func() (interface{}, error) {
		attempts := []map[string]string{
			{"id_commodity": commodityID},
		}
		if commodityName != "" {
			attempts = append(attempts, map[string]string{"commodity_name": commodityName})
		}

		var lastErr error
		for _, query := range attempts {
			var dtos []priceDTO
			if err := c.get("commodities_prices", query, &dtos); err != nil {
				lastErr = err
				continue
			}
			now := time.Now()
			points := make([]engine.PricePoint, 0, len(dtos))
			for i := range dtos {
				points = append(points, dtos[i].toPricePoint(now))
			}
			c.mu.Lock()
			c.prices[commodityID] = &cachedPrices{data: points, fetchedAt: now}
			c.mu.Unlock()
			return points, nil
		}
		return nil, lastErr
	})
	if err != nil {
		if cached != nil {
			logger.Warn("UEX", fmt.Sprintf("Price fetch failed for %s, serving stale cache: %v", commodityID, err))
			return cached.data, nil
		}
		return nil, err
	}
	return v.([]engine.PricePoint), nil
}

// GetPriceMap fetches prices for every given commodity concurrently and
// returns them keyed by commodity ID. Per-commodity failures are logged and
// skipped; the map holds whatever succeeded.
func (c *Client) GetPriceMap(commodities []engine.Commodity) map[string][]engine.PricePoint {
	type result struct {
		id     string
		points []engine.PricePoint
	}

	results := make(chan result, len(commodities))
	for i := range commodities {
		commodity := commodities[i]
		go func() {
			points, err := c.GetPrices(commodity.ID, commodity.Name)
			if err != nil {
				logger.Warn("UEX", fmt.Sprintf("No prices for %s: %v", commodity.Name, err))
				results <- result{id: commodity.ID}
				return
			}
			results <- result{id: commodity.ID, points: points}
		}()
	}

	prices := make(map[string][]engine.PricePoint, len(commodities))
	for range commodities {
		r := <-results
		if len(r.points) > 0 {
			prices[r.id] = r.points
		}
	}
	return prices
}
