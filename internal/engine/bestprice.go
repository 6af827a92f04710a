package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Penalty constants for the best-price ranker, in aUEC per SCU. They bias
// suggestions toward convenient terminals without hiding better raw prices.
const (
	CrossSystemPenalty = 75.0
	ArmisticePenalty   = 25.0
	HotspotPenalty     = 40.0

	// HomeSystem is where travel penalties are measured from.
	HomeSystem = "Stanton"
)

// hotspotTerminals are high-PvP terminals that get a flat penalty.
// Matching is case-sensitive substring on the terminal name.
var hotspotTerminals = []string{"Grim Hex", "Spider", "Jumptown"}

// BestPriceEntry is one ranked sell suggestion for a cargo item.
// AdjustedPrice is sell price minus penalties and may go negative; display
// layers clamp at zero, the engine never does.
type BestPriceEntry struct {
	LocationID     string    `json:"location_id"` // "" = unknown
	LocationName   string    `json:"location_name"`
	SellPrice      float64   `json:"sell_price"`
	BuyPrice       float64   `json:"buy_price"` // 0 = unknown
	AdjustedPrice  float64   `json:"adjusted_price"`
	Stock          float64   `json:"stock"`
	StatusSell     *int      `json:"status_sell"`
	StatusBuy      *int      `json:"status_buy"`
	ContainerSizes []float64 `json:"container_sizes"`
	Notes          string    `json:"notes"`
}

// BestPriceSuggestion holds the top entries for one cargo item.
type BestPriceSuggestion struct {
	ItemID        string           `json:"item_id"`
	CommodityName string           `json:"commodity_name"`
	Entries       []BestPriceEntry `json:"entries"`
}

// BestPriceSummary is the ranker's output: per-item suggestions plus the
// single best entry across all items.
type BestPriceSummary struct {
	Suggestions []BestPriceSuggestion `json:"suggestions"`
	BestOverall *BestPriceEntry       `json:"best_overall"`
}

// RankBestPrices scores every known sell location per cargo item by
// penalty-adjusted sell price and keeps the top 3 per item. Items without
// any usable price point are skipped, not errored.
func RankBestPrices(items []CargoItem, prices map[string][]PricePoint, locations map[string]SellLocation) BestPriceSummary {
	var suggestions []BestPriceSuggestion
	var bestOverall *BestPriceEntry

	for i := range items {
		item := &items[i]
		points, ok := prices[item.CommodityID]
		if !ok {
			continue
		}

		var entries []BestPriceEntry
		for j := range points {
			point := &points[j]

			sellPrice, ok := firstValidPrice(point.PriceSellMax, point.PriceSell, point.PriceAverage)
			if !ok {
				continue
			}
			buyPrice, _ := firstValidPrice(point.PriceBuyMin, point.PriceBuy, point.PriceAverage)

			locationKey := point.TerminalName
			if point.TerminalID != 0 {
				locationKey = strconv.Itoa(int(point.TerminalID))
			}
			location, found := locations[locationKey]
			if !found {
				location, found = locations[point.TerminalName]
			}

			armistice := found && location.Armistice
			systemName := "Unknown"
			switch {
			case found && location.System != "":
				systemName = location.System
			case point.System != "":
				systemName = point.System
			}

			crossSystem := systemName != HomeSystem
			hotspot := false
			for _, spot := range hotspotTerminals {
				if strings.Contains(point.TerminalName, spot) {
					hotspot = true
					break
				}
			}

			penalty := 0.0
			if crossSystem {
				penalty += CrossSystemPenalty
			}
			if armistice {
				penalty += ArmisticePenalty
			}
			if hotspot {
				penalty += HotspotPenalty
			}

			locationID := ""
			if point.TerminalID != 0 {
				locationID = strconv.Itoa(int(point.TerminalID))
			} else if found {
				locationID = location.ID
			}

			locationName := point.TerminalName
			if found {
				locationName = fmt.Sprintf("%s (%s)", point.TerminalName, systemName)
			}

			entries = append(entries, BestPriceEntry{
				LocationID:     locationID,
				LocationName:   locationName,
				SellPrice:      sellPrice,
				BuyPrice:       buyPrice,
				AdjustedPrice:  sellPrice - penalty,
				Stock:          point.SCUSellStock,
				StatusSell:     point.StatusSell,
				StatusBuy:      point.StatusBuy,
				ContainerSizes: point.ContainerSizes,
				Notes:          buildNotes(crossSystem, armistice, hotspot, point.SCUSellStock, point.StatusSell, point.StatusBuy),
			})
		}

		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].AdjustedPrice > entries[b].AdjustedPrice
		})
		if len(entries) > 3 {
			entries = entries[:3]
		}

		if len(entries) > 0 {
			top := entries[0]
			// Strict comparison keeps the earlier item's entry on ties.
			if bestOverall == nil || bestOverall.AdjustedPrice < top.AdjustedPrice {
				bestOverall = &top
			}
			suggestions = append(suggestions, BestPriceSuggestion{
				ItemID:        item.ID,
				CommodityName: item.CommodityName,
				Entries:       entries,
			})
		}
	}

	return BestPriceSummary{Suggestions: suggestions, BestOverall: bestOverall}
}

// buildNotes assembles the comma-joined annotations shown next to an entry.
func buildNotes(crossSystem, armistice, hotspot bool, stock float64, statusSell, statusBuy *int) string {
	var notes []string
	if crossSystem {
		notes = append(notes, "Cross-system")
	}
	if armistice {
		notes = append(notes, "Armistice")
	}
	if hotspot {
		notes = append(notes, "Hotspot")
	}
	if label := statusLabel(statusSell); label != "" {
		notes = append(notes, "Sell "+label)
	}
	if label := statusLabel(statusBuy); label != "" {
		notes = append(notes, "Buy "+label)
	}
	switch {
	case stock > 0 && stock < 500:
		notes = append(notes, "Low stock")
	case stock > 5000:
		notes = append(notes, "High stock")
	}
	return strings.Join(notes, ", ")
}

func statusLabel(status *int) string {
	if status == nil {
		return ""
	}
	switch *status {
	case 3:
		return "High"
	case 2:
		return "Normal"
	case 1:
		return "Low"
	case 0:
		return "Offline"
	default:
		return ""
	}
}
