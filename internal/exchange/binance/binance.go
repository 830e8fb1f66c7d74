// Package binance implements the market data feeder on top of the Binance
// public REST endpoints
package binance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chartpulse/internal/core"
	"chartpulse/internal/logger"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/jpillora/backoff"
)

const maxAttempts = 3

// Client fetches spot market statistics and futures open interest.
// Only public endpoints are used, no credentials are required.
type Client struct {
	spot    *binance.Client
	futures *futures.Client
	log     logger.Logger
}

// Option is a function that configures a Client
type Option func(*Client)

// WithCredentials sets API credentials. Public market data does not need
// them, but keyed clients get higher rate limits.
func WithCredentials(key, secret string) Option {
	return func(c *Client) {
		c.spot = binance.NewClient(key, secret)
		c.futures = futures.NewClient(key, secret)
	}
}

// NewClient creates a Binance market data client and verifies connectivity
func NewClient(ctx context.Context, log logger.Logger, options ...Option) (*Client, error) {
	client := &Client{
		spot:    binance.NewClient("", ""),
		futures: futures.NewClient("", ""),
		log:     log,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.spot.NewPingService().Do(ctx); err != nil {
		return nil, fmt.Errorf("binance ping fail: %w", err)
	}

	log.Info("[SETUP] Using Binance spot market data")
	return client, nil
}

// Ticker24h fetches the 24-hour rolling statistics for a pair
func (c *Client) Ticker24h(ctx context.Context, pair string) (core.Ticker, error) {
	var stats []*binance.PriceChangeStats

	err := c.withRetry(ctx, func() error {
		var err error
		stats, err = c.spot.NewListPriceChangeStatsService().Symbol(pair).Do(ctx)
		return err
	})
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to fetch 24h ticker for %s: %w", pair, err)
	}

	if len(stats) == 0 {
		return core.Ticker{}, fmt.Errorf("empty 24h ticker response for %s", pair)
	}

	return convertPriceChangeStats(pair, stats[0])
}

// CandlesByLimit fetches the most recent closed candles for a pair
func (c *Client) CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error) {
	var data []*binance.Kline

	err := c.withRetry(ctx, func() error {
		var err error
		data, err = c.spot.NewKlinesService().
			Symbol(pair).
			Interval(period).
			Limit(limit + 1). // +1 to account for the incomplete candle
			Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candles for %s: %w", pair, err)
	}

	candles := make([]core.Candle, 0, len(data))
	for i, d := range data {
		// Skip the last candle as it's incomplete
		if i == len(data)-1 {
			break
		}
		candles = append(candles, convertKlineToCandle(pair, d))
	}

	return candles, nil
}

// OpenInterest fetches the current futures open interest for a pair.
// Pairs without a futures market return core.ErrUnsupported.
func (c *Client) OpenInterest(ctx context.Context, pair string) (float64, error) {
	result, err := c.futures.NewGetOpenInterestService().Symbol(pair).Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			return 0, fmt.Errorf("%w: %s", core.ErrUnsupported, pair)
		}
		return 0, fmt.Errorf("failed to fetch open interest for %s: %w", pair, err)
	}

	value, err := strconv.ParseFloat(result.OpenInterest, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse open interest for %s: %w", pair, err)
	}

	return value, nil
}

// withRetry runs fn up to maxAttempts times with jittered backoff
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	retry := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    1 * time.Second,
		Jitter: true,
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if attempt == maxAttempts || ctx.Err() != nil {
			break
		}

		c.log.WithError(err).Debugf("binance request failed, retrying (%d/%d)", attempt, maxAttempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}

	return err
}

func convertPriceChangeStats(pair string, stats *binance.PriceChangeStats) (core.Ticker, error) {
	price, err := strconv.ParseFloat(stats.LastPrice, 64)
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to parse last price: %w", err)
	}

	volume, err := strconv.ParseFloat(stats.Volume, 64)
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to parse volume: %w", err)
	}

	high, err := strconv.ParseFloat(stats.HighPrice, 64)
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to parse high price: %w", err)
	}

	low, err := strconv.ParseFloat(stats.LowPrice, 64)
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to parse low price: %w", err)
	}

	pct, err := strconv.ParseFloat(stats.PriceChangePercent, 64)
	if err != nil {
		return core.Ticker{}, fmt.Errorf("failed to parse price change percent: %w", err)
	}

	return core.Ticker{
		Pair:          pair,
		Price:         price,
		Volume:        volume,
		High:          high,
		Low:           low,
		PercentChange: pct,
	}, nil
}

func convertKlineToCandle(pair string, k *binance.Kline) core.Candle {
	candle := core.Candle{
		Pair: pair,
		Time: time.Unix(0, k.OpenTime*int64(time.Millisecond)),
	}

	candle.Open, _ = strconv.ParseFloat(k.Open, 64)
	candle.High, _ = strconv.ParseFloat(k.High, 64)
	candle.Low, _ = strconv.ParseFloat(k.Low, 64)
	candle.Close, _ = strconv.ParseFloat(k.Close, 64)
	candle.Volume, _ = strconv.ParseFloat(k.Volume, 64)

	return candle
}
