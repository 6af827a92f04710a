package uex

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"uex-hauler/internal/engine"
)

// flexID accepts both string and numeric JSON values; the UEX API is not
// consistent about ID types across endpoints.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type commodityDTO struct {
	ID        flexID  `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Code      string  `json:"code"`
	WeightSCU float64 `json:"weight_scu"`
	IsIllegal int     `json:"is_illegal"`
}

func (d *commodityDTO) toCommodity() engine.Commodity {
	category := d.Kind
	if category == "" {
		category = "Unknown"
	}
	return engine.Commodity{
		ID:        string(d.ID),
		Name:      d.Name,
		Category:  category,
		Code:      d.Code,
		WeightSCU: d.WeightSCU,
		IsIllegal: d.IsIllegal == 1,
	}
}

type terminalDTO struct {
	ID               int32  `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	IsNQA            int    `json:"is_nqa"`
	StarSystemName   string `json:"star_system_name"`
	SpaceStationName string `json:"space_station_name"`
	CityName         string `json:"city_name"`
	OutpostName      string `json:"outpost_name"`
	PlanetName       string `json:"planet_name"`
	OrbitName        string `json:"orbit_name"`
}

func (d *terminalDTO) toTerminal() engine.Terminal {
	name := d.Name
	if name == "" {
		name = "Unknown"
	}
	return engine.Terminal{
		ID:               d.ID,
		Name:             name,
		Code:             d.Code,
		IsNQA:            d.IsNQA == 1,
		System:           d.StarSystemName,
		SpaceStationName: d.SpaceStationName,
		CityName:         d.CityName,
		OutpostName:      d.OutpostName,
		PlanetName:       d.PlanetName,
		OrbitName:        d.OrbitName,
	}
}

type gameVersionsDTO struct {
	Live string `json:"live"`
	PTU  string `json:"ptu"`
}

type terminalDistanceDTO struct {
	Distance string `json:"distance"`
}

type priceDTO struct {
	IDTerminal     int32  `json:"id_terminal"`
	TerminalName   string `json:"terminal_name"`
	TerminalCode   string `json:"terminal_code"`
	StarSystemName string `json:"star_system_name"`

	PriceSell    float64 `json:"price_sell"`
	PriceSellMin float64 `json:"price_sell_min"`
	PriceSellMax float64 `json:"price_sell_max"`
	PriceBuy     float64 `json:"price_buy"`
	PriceBuyMin  float64 `json:"price_buy_min"`
	PriceBuyMax  float64 `json:"price_buy_max"`
	PriceSellAvg float64 `json:"price_sell_avg"`

	ContainerSizes string  `json:"container_sizes"`
	SCUBuy         float64 `json:"scu_buy"`
	SCUSellStock   float64 `json:"scu_sell_stock"`

	StatusSell          *int     `json:"status_sell"`
	StatusBuy           *int     `json:"status_buy"`
	VolatilityPriceSell *float64 `json:"volatility_price_sell"`

	PriceBuyUsersRows  int `json:"price_buy_users_rows"`
	PriceSellUsersRows int `json:"price_sell_users_rows"`

	CityName         string `json:"city_name"`
	OutpostName      string `json:"outpost_name"`
	SpaceStationName string `json:"space_station_name"`

	DateModified int64  `json:"date_modified"`
	UpdatedAt    string `json:"updated_at"`
}

func (d *priceDTO) toPricePoint(now time.Time) engine.PricePoint {
	name := d.TerminalName
	if name == "" {
		name = "Unknown terminal"
	}
	return engine.PricePoint{
		TerminalID:       d.IDTerminal,
		TerminalName:     name,
		System:           d.StarSystemName,
		TerminalCode:     d.TerminalCode,
		PriceSellMin:     d.PriceSellMin,
		PriceSell:        d.PriceSell,
		PriceSellMax:     d.PriceSellMax,
		PriceBuyMax:      d.PriceBuyMax,
		PriceBuy:         d.PriceBuy,
		PriceBuyMin:      d.PriceBuyMin,
		PriceAverage:     d.PriceSellAvg,
		ContainerSizes:   parseContainerSizes(d.ContainerSizes),
		SCUBuy:           d.SCUBuy,
		SCUSellStock:     d.SCUSellStock,
		StatusSell:       d.StatusSell,
		StatusBuy:        d.StatusBuy,
		VolatilitySell:   d.VolatilityPriceSell,
		BuyUserRows:      d.PriceBuyUsersRows,
		SellUserRows:     d.PriceSellUsersRows,
		CityName:         d.CityName,
		OutpostName:      d.OutpostName,
		SpaceStationName: d.SpaceStationName,
		UpdatedAt:        parseTimestamp(d.DateModified, d.UpdatedAt, now),
	}
}

// parseTimestamp prefers the epoch field, falls back to the RFC 3339 string,
// and finally to now so a missing timestamp never poisons freshness math
// with the zero time.
func parseTimestamp(epoch int64, iso string, now time.Time) time.Time {
	if epoch > 0 {
		return time.Unix(epoch, 0).UTC()
	}
	if iso != "" {
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return t.UTC()
		}
	}
	return now
}

// parseContainerSizes splits the API's "1|2|4" (or comma/semicolon
// separated) size list. Unparseable parts are dropped.
func parseContainerSizes(raw string) []float64 {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ',' || r == ';'
	})
	var sizes []float64
	for _, part := range parts {
		if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
			sizes = append(sizes, v)
		}
	}
	return sizes
}
