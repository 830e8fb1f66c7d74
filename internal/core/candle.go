package core

import (
	"fmt"
	"time"
)

// Candle represents one closed bar of OHLCV data for a trading pair
type Candle struct {
	Pair   string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// GetPair returns the trading pair identifier for the candle
func (c Candle) GetPair() string { return c.Pair }

// GetTime returns the open timestamp of the candle
func (c Candle) GetTime() time.Time { return c.Time }

// IsEmpty checks if the candle contains no significant data
func (c Candle) IsEmpty() bool { return c.Pair == "" && c.Close == 0 && c.Open == 0 && c.Volume == 0 }

// OHLC renders the candle as a compact bracketed tuple, the form used in
// analysis prompts
func (c Candle) OHLC() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", c.Open, c.High, c.Low, c.Close)
}
