package core

// Ticker holds the 24-hour rolling statistics for a trading pair.
// Values are carried exactly as parsed from the exchange, no rounding.
type Ticker struct {
	Pair          string
	Price         float64
	Volume        float64
	High          float64
	Low           float64
	PercentChange float64
}
