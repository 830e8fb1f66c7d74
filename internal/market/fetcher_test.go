package market

import (
	"context"
	"fmt"
	"testing"

	"chartpulse/internal/core"
	"chartpulse/internal/logger"

	"github.com/stretchr/testify/require"
)

type fakeFeeder struct {
	tickers      map[string]core.Ticker
	tickerErrs   map[string]error
	candles      map[string][]core.Candle
	candleErrs   map[string]error
	openInterest map[string]float64
	oiErrs       map[string]error
}

func (f *fakeFeeder) Ticker24h(_ context.Context, pair string) (core.Ticker, error) {
	if err, ok := f.tickerErrs[pair]; ok {
		return core.Ticker{}, err
	}
	return f.tickers[pair], nil
}

func (f *fakeFeeder) CandlesByLimit(_ context.Context, pair, _ string, _ int) ([]core.Candle, error) {
	if err, ok := f.candleErrs[pair]; ok {
		return nil, err
	}
	return f.candles[pair], nil
}

func (f *fakeFeeder) OpenInterest(_ context.Context, pair string) (float64, error) {
	if err, ok := f.oiErrs[pair]; ok {
		return 0, err
	}
	if value, ok := f.openInterest[pair]; ok {
		return value, nil
	}
	return 0, fmt.Errorf("%w: %s", core.ErrUnsupported, pair)
}

func newFetcher(feeder core.Feeder) *Fetcher {
	return NewFetcher(feeder, "5m", 50, logger.NewNoop())
}

func TestFetch_ExactTickerValues(t *testing.T) {
	feeder := &fakeFeeder{
		tickers: map[string]core.Ticker{
			"BTCUSDT": {Pair: "BTCUSDT", Price: 50000.123456, Volume: 1234.5},
		},
		openInterest: map[string]float64{"BTCUSDT": 77000.5},
	}

	frame := newFetcher(feeder).Fetch(context.Background(), []string{"BTCUSDT"})

	snap := frame.Snapshot("BTCUSDT")
	require.True(t, snap.Ticker.IsOK())
	require.Equal(t, 50000.123456, snap.Ticker.Value.Price)
	require.Equal(t, 1234.5, snap.Ticker.Value.Volume)
	require.True(t, snap.OpenInterest.IsOK())
	require.Equal(t, 77000.5, snap.OpenInterest.Value)
}

func TestFetch_FailedTickerKeepsPairInFrame(t *testing.T) {
	feeder := &fakeFeeder{
		tickerErrs: map[string]error{"ETHUSDT": fmt.Errorf("timeout")},
		tickers: map[string]core.Ticker{
			"BTCUSDT": {Pair: "BTCUSDT", Price: 50000},
		},
	}

	frame := newFetcher(feeder).Fetch(context.Background(), []string{"BTCUSDT", "ETHUSDT"})

	require.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, frame.Pairs)

	snap := frame.Snapshot("ETHUSDT")
	require.NotNil(t, snap)
	require.Equal(t, core.StateFailed, snap.Ticker.State)
	require.Error(t, snap.Ticker.Err)
}

func TestFetch_OpenInterestFailureIsIsolated(t *testing.T) {
	feeder := &fakeFeeder{
		tickers: map[string]core.Ticker{
			"BTCUSDT": {Pair: "BTCUSDT", Price: 50000},
			"ETHUSDT": {Pair: "ETHUSDT", Price: 3000},
		},
		candles: map[string][]core.Candle{
			"BTCUSDT": {{Pair: "BTCUSDT", Open: 1, High: 2, Low: 0.5, Close: 1.5}},
			"ETHUSDT": {{Pair: "ETHUSDT", Open: 3, High: 4, Low: 2.5, Close: 3.5}},
		},
		oiErrs: map[string]error{
			"BTCUSDT": fmt.Errorf("transport error"),
			"ETHUSDT": fmt.Errorf("transport error"),
		},
	}

	frame := newFetcher(feeder).Fetch(context.Background(), []string{"BTCUSDT", "ETHUSDT"})

	for _, pair := range frame.Pairs {
		snap := frame.Snapshot(pair)
		require.True(t, snap.Ticker.IsOK(), pair)
		require.Len(t, snap.Candles, 1, pair)
		require.Equal(t, core.StateMissing, snap.OpenInterest.State, pair)
	}
}

func TestFetch_UnsupportedOpenInterestIsMissingNotFailed(t *testing.T) {
	feeder := &fakeFeeder{
		tickers: map[string]core.Ticker{
			"SOLUSDT": {Pair: "SOLUSDT", Price: 150},
		},
	}

	frame := newFetcher(feeder).Fetch(context.Background(), []string{"SOLUSDT"})

	require.Equal(t, core.StateMissing, frame.Snapshot("SOLUSDT").OpenInterest.State)
}

func TestFetch_EmptyCandlesScenario(t *testing.T) {
	// ticker ok, candles empty, open interest failing: the frame must keep
	// the exact price and mark only the optional fields
	feeder := &fakeFeeder{
		tickers: map[string]core.Ticker{
			"BTCUSDT": {Pair: "BTCUSDT", Price: 50000},
		},
		candles: map[string][]core.Candle{"BTCUSDT": {}},
		oiErrs:  map[string]error{"BTCUSDT": fmt.Errorf("boom")},
	}

	frame := newFetcher(feeder).Fetch(context.Background(), []string{"BTCUSDT"})

	snap := frame.Snapshot("BTCUSDT")
	require.Equal(t, 50000.0, snap.Ticker.Value.Price)
	require.Empty(t, snap.Candles)
	require.Equal(t, core.StateMissing, snap.OpenInterest.State)
}

func TestFetch_FrameKeepsConfiguredOrder(t *testing.T) {
	feeder := &fakeFeeder{}
	pairs := []string{"SOLUSDT", "BTCUSDT", "ETHUSDT"}

	frame := newFetcher(feeder).Fetch(context.Background(), pairs)

	require.Equal(t, pairs, frame.Pairs)
	require.Len(t, frame.Data, 3)
}
