package config

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	// Hauling assumptions used by route math and the planner.
	HomeSystem    string  `json:"home_system"`
	CargoSCU      int32   `json:"cargo_scu"`
	CurrentSystem string  `json:"current_system"`
	OriginName    string  `json:"origin_name"` // planner start location, "" = unset
	MinBuyPrice   float64 `json:"min_buy_price"`

	// Profitability indicator tuning.
	RiskPct     float64 `json:"risk_pct"`
	CrewHourly  float64 `json:"crew_hourly"`
	CrewSize    int     `json:"crew_size"`
	TimeMinutes int     `json:"time_minutes"`

	// Route list presentation.
	RouteSort       string `json:"route_sort"`
	RouteDescending bool   `json:"route_descending"`

	// UEX API access. The public endpoints work without a token but get a
	// tighter rate limit.
	UEXToken string `json:"uex_token"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		HomeSystem:      "Stanton",
		CargoSCU:        66, // Freelancer MAX hold
		CurrentSystem:   "Stanton",
		RiskPct:         0.2,
		CrewHourly:      150,
		CrewSize:        1,
		TimeMinutes:     60,
		RouteSort:       "profit_per_gm",
		RouteDescending: true,
	}
}
