// Package market drives the per-cycle concurrent fetch and aggregates the
// results into a frame
package market

import (
	"context"
	"errors"
	"sync"
	"time"

	"chartpulse/internal/core"
	"chartpulse/internal/logger"
)

// Per-operation request timeouts
const (
	tickerTimeout       = 15 * time.Second
	candlesTimeout      = 20 * time.Second
	openInterestTimeout = 10 * time.Second
)

// Fetcher retrieves ticker, candle and open interest data for a set of
// pairs concurrently and merges the outcomes into a core.Frame
type Fetcher struct {
	feeder       core.Feeder
	candlePeriod string
	candleLimit  int
	log          logger.Logger
}

// NewFetcher creates a fetcher bound to a feeder and candle window
func NewFetcher(feeder core.Feeder, candlePeriod string, candleLimit int, log logger.Logger) *Fetcher {
	return &Fetcher{
		feeder:       feeder,
		candlePeriod: candlePeriod,
		candleLimit:  candleLimit,
		log:          log,
	}
}

// Fetch fires all three operations for every pair at once and waits for
// all of them. A single failure never aborts sibling requests: it is
// recorded in the snapshot's tagged result and the frame keeps an entry
// for every pair in the configured order.
func (f *Fetcher) Fetch(ctx context.Context, pairs []string) *core.Frame {
	frame := core.NewFrame(pairs, time.Now().UTC())

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, pair := range pairs {
		wg.Add(3)

		go func(pair string) {
			defer wg.Done()
			result := f.fetchTicker(ctx, pair)

			mu.Lock()
			frame.Snapshot(pair).Ticker = result
			mu.Unlock()
		}(pair)

		go func(pair string) {
			defer wg.Done()
			candles := f.fetchCandles(ctx, pair)

			mu.Lock()
			frame.Snapshot(pair).Candles = candles
			mu.Unlock()
		}(pair)

		go func(pair string) {
			defer wg.Done()
			result := f.fetchOpenInterest(ctx, pair)

			mu.Lock()
			frame.Snapshot(pair).OpenInterest = result
			mu.Unlock()
		}(pair)
	}

	wg.Wait()
	return frame
}

func (f *Fetcher) fetchTicker(ctx context.Context, pair string) core.Result[core.Ticker] {
	ctx, cancel := context.WithTimeout(ctx, tickerTimeout)
	defer cancel()

	ticker, err := f.feeder.Ticker24h(ctx, pair)
	if err != nil {
		f.log.WithError(err).WithField("pair", pair).Error("ticker fetch failed")
		return core.Failed[core.Ticker](err)
	}

	return core.OK(ticker)
}

func (f *Fetcher) fetchCandles(ctx context.Context, pair string) []core.Candle {
	ctx, cancel := context.WithTimeout(ctx, candlesTimeout)
	defer cancel()

	candles, err := f.feeder.CandlesByLimit(ctx, pair, f.candlePeriod, f.candleLimit)
	if err != nil {
		f.log.WithError(err).WithField("pair", pair).Error("candle fetch failed")
		return nil
	}

	return candles
}

// fetchOpenInterest maps both "no futures market" answers and transport
// errors to Missing: open interest is optional and its absence must not
// degrade the rest of the cycle
func (f *Fetcher) fetchOpenInterest(ctx context.Context, pair string) core.Result[float64] {
	ctx, cancel := context.WithTimeout(ctx, openInterestTimeout)
	defer cancel()

	value, err := f.feeder.OpenInterest(ctx, pair)
	if err != nil {
		if !errors.Is(err, core.ErrUnsupported) {
			f.log.WithError(err).WithField("pair", pair).Warn("open interest fetch failed")
		}
		return core.Missing[float64]()
	}

	return core.OK(value)
}
