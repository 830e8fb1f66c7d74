package core

import "time"

// Snapshot groups everything fetched for a single pair in one poll cycle
type Snapshot struct {
	Ticker       Result[Ticker]
	OpenInterest Result[float64]
	Candles      []Candle
}

// Frame is the full result of one poll cycle. It always contains an entry
// for every configured pair, in configured order, regardless of fetch
// failures. Frames are rebuilt from scratch each cycle and never merged.
type Frame struct {
	Pairs []string
	Data  map[string]*Snapshot
	Taken time.Time
}

// NewFrame creates a frame pre-populated with failed placeholders for the
// given pairs, so a pair that somehow records nothing still renders as
// unavailable instead of vanishing
func NewFrame(pairs []string, taken time.Time) *Frame {
	data := make(map[string]*Snapshot, len(pairs))
	for _, pair := range pairs {
		data[pair] = &Snapshot{
			Ticker:       Missing[Ticker](),
			OpenInterest: Missing[float64](),
		}
	}

	return &Frame{
		Pairs: pairs,
		Data:  data,
		Taken: taken,
	}
}

// Snapshot returns the snapshot recorded for a pair
func (f *Frame) Snapshot(pair string) *Snapshot {
	return f.Data[pair]
}
