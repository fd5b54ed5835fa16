package domain

// AssetSignals holds the per-ticker statistics the tilt engine consumes.
// Computed fresh from a Series, never mutated afterwards.
type AssetSignals struct {
	Ticker      string  `json:"ticker"`
	Price       float64 `json:"price"`
	SMALong     float64 `json:"sma_long"`
	StdLong     float64 `json:"std_long"`
	HighWindow  float64 `json:"high_window"`
	Drawdown    float64 `json:"drawdown"`
	SMADistance float64 `json:"sma_distance"`
	ZScore      float64 `json:"z_score"`
	Volatility  float64 `json:"volatility"`
	Source      string  `json:"source"`
}
