package core

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported signals that the upstream does not expose the requested
// value for a pair, as opposed to a transient fetch failure
var ErrUnsupported = errors.New("not supported for this pair")

// Feeder retrieves public market data for a single pair
type Feeder interface {
	Ticker24h(ctx context.Context, pair string) (Ticker, error)
	CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]Candle, error)
	OpenInterest(ctx context.Context, pair string) (float64, error)
}

// Analyzer produces a short natural-language summary of a frame
type Analyzer interface {
	Analyze(ctx context.Context, frame *Frame) (string, error)
}

// Notifier delivers messages to the configured chat destination
type Notifier interface {
	// AnnounceStartup sends the one-time startup message if the persisted
	// marker says it was never sent
	AnnounceStartup() error

	// SendSnapshot renders and delivers the frame, with an optional
	// analysis section. Unless force is set, delivery is suppressed while
	// the cooldown window since the last recorded send is still open.
	SendSnapshot(frame *Frame, analysis string, force bool) error
}

// MarkerStore persists the two single-value markers that survive restarts
type MarkerStore interface {
	StartupSent() (bool, error)
	MarkStartupSent() error
	LastNotification() (time.Time, error)
	SetLastNotification(t time.Time) error
	Close() error
}
