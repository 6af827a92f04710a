package engine

import (
	"sort"
	"time"
)

// Commodity is one tradeable good from the UEX commodity list.
type Commodity struct {
	ID        string
	Name      string
	Category  string
	Code      string
	WeightSCU float64 // 0 = unknown
	IsIllegal bool
}

// CargoItem is one entry in the player's cargo hold.
// The cargo list is owned by the caller; the engine only reads it.
type CargoItem struct {
	ID            string `json:"id"`
	CommodityID   string `json:"commodity_id"`
	CommodityName string `json:"commodity_name"`
	SCU           int32  `json:"scu"`
	// IsHot marks stolen/illegal cargo that can only be sold at NQA terminals.
	IsHot bool `json:"is_hot"`
}

// PricePoint is one terminal's market snapshot for one commodity.
//
// Price terminology follows the UEX API and is from the PLAYER's perspective:
// PriceBuy is what you pay to buy, PriceSell is what you receive when selling.
// Any price field may independently be absent; absent, non-finite, or
// non-positive values must never enter arithmetic (see the fallback chains
// in evaluation.go and planner.go).
type PricePoint struct {
	TerminalID   int32 // 0 = unknown
	TerminalName string
	System       string // "" = unknown
	TerminalCode string

	PriceSellMin float64
	PriceSell    float64
	PriceSellMax float64
	PriceBuyMax  float64
	PriceBuy     float64
	PriceBuyMin  float64
	PriceAverage float64

	ContainerSizes []float64
	SCUBuy         float64 // stock available to buy
	SCUSellStock   float64 // demand: how much the terminal will accept

	// Status codes: 0 Offline, 1 Low, 2 Normal, 3 High. nil = not reported.
	StatusSell *int
	StatusBuy  *int

	// VolatilitySell is fractional and can exceed 1.0. nil = not reported,
	// which is distinct from a reported 0.0 (perfectly stable).
	VolatilitySell *float64

	BuyUserRows  int
	SellUserRows int

	CityName         string
	OutpostName      string
	SpaceStationName string

	UpdatedAt time.Time
}

// IsPlanetary reports whether the price point's terminal sits on a planet
// surface (city or outpost) rather than in space.
func (p *PricePoint) IsPlanetary() bool {
	return p.CityName != "" || p.OutpostName != ""
}

// SellLocation is a denormalized terminal record used by the best-price
// ranker for penalty lookup. The caller builds the map incrementally as
// price data arrives; keys are the terminal ID as string, or the terminal
// name when no ID is known.
type SellLocation struct {
	ID           string
	Name         string
	System       string // "" = unknown
	Kind         string
	TerminalCode string
	Armistice    bool
}

// Terminal is the full terminal metadata record from the UEX terminal list.
type Terminal struct {
	ID               int32  `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	IsNQA            bool   `json:"is_nqa"`
	System           string `json:"system"`
	SpaceStationName string `json:"space_station_name"`
	CityName         string `json:"city_name"`
	OutpostName      string `json:"outpost_name"`
	PlanetName       string `json:"planet_name"`
	OrbitName        string `json:"orbit_name"`
}

// LocationName resolves a display name with priority
// city > station > outpost > orbit > planet > system.
func (t *Terminal) LocationName() string {
	name := t.System
	switch {
	case t.CityName != "":
		name = t.CityName
	case t.SpaceStationName != "":
		name = t.SpaceStationName
	case t.OutpostName != "":
		name = t.OutpostName
	case t.OrbitName != "":
		name = t.OrbitName
	case t.PlanetName != "":
		name = t.PlanetName
	}
	if name == "" {
		name = t.Name
	}
	// The API spells out the full station name; players know it as GrimHEX.
	if name == "Green Imperial Housing Exchange" {
		return "GrimHEX"
	}
	return name
}

// IsPlanetary reports whether the terminal is on a planet surface.
func (t *Terminal) IsPlanetary() bool {
	return t.CityName != "" || t.OutpostName != ""
}

// Location is a unique named place derived from terminals, used for the
// planner's position picker.
type Location struct {
	Name       string `json:"name"`
	System     string `json:"system"`
	TerminalID int32  `json:"terminal_id"`
}

// ExtractLocations collapses terminals into unique locations sorted by
// (system, name); locations without a system sort last.
func ExtractLocations(terminals []Terminal) []Location {
	seen := make(map[string]Location)
	for i := range terminals {
		t := &terminals[i]
		name := t.LocationName()
		if _, ok := seen[name]; !ok {
			seen[name] = Location{Name: name, System: t.System, TerminalID: t.ID}
		}
	}

	locations := make([]Location, 0, len(seen))
	for _, loc := range seen {
		locations = append(locations, loc)
	}
	sortLocations(locations)
	return locations
}

func sortLocations(locations []Location) {
	sort.Slice(locations, func(i, j int) bool {
		a, b := locations[i], locations[j]
		switch {
		case a.System != "" && b.System != "":
			if a.System != b.System {
				return a.System < b.System
			}
			return a.Name < b.Name
		case a.System != "":
			return true
		case b.System != "":
			return false
		default:
			return a.Name < b.Name
		}
	})
}

// ProfitabilityParams tune the green/yellow/red profitability indicator.
type ProfitabilityParams struct {
	RiskPct     float64 `json:"risk_pct"`
	CrewHourly  float64 `json:"crew_hourly"`
	CrewSize    int     `json:"crew_size"`
	TimeMinutes int     `json:"time_minutes"`
}

// DefaultProfitabilityParams returns the standard solo-hauler assumptions.
func DefaultProfitabilityParams() ProfitabilityParams {
	return ProfitabilityParams{
		RiskPct:     0.2,
		CrewHourly:  150,
		CrewSize:    1,
		TimeMinutes: 60,
	}
}
