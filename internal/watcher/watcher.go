// Package watcher drives the fetch, analyze and notify cycle on a fixed
// polling interval
package watcher

import (
	"context"
	"time"

	"chartpulse/internal/config"
	"chartpulse/internal/core"
	"chartpulse/internal/logger"
)

// FrameFetcher produces one aggregated frame per poll cycle
type FrameFetcher interface {
	Fetch(ctx context.Context, pairs []string) *core.Frame
}

// Watcher runs the STARTUP-then-POLLING loop until its context is
// cancelled. Fetch, analysis and delivery errors are logged and absorbed;
// only cancellation stops the loop.
type Watcher struct {
	cfg      *config.Config
	fetcher  FrameFetcher
	analyzer core.Analyzer // nil when no text-generation key is configured
	notifier core.Notifier
	log      logger.Logger
}

// New wires a watcher from its collaborators
func New(cfg *config.Config, fetcher FrameFetcher, analyzer core.Analyzer, notifier core.Notifier, log logger.Logger) *Watcher {
	return &Watcher{
		cfg:      cfg,
		fetcher:  fetcher,
		analyzer: analyzer,
		notifier: notifier,
		log:      log,
	}
}

// Run executes the startup phase once and then polls until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.notifier.AnnounceStartup(); err != nil {
		w.log.WithError(err).Error("startup announcement failed")
	}

	if w.cfg.Debug {
		// One immediate end-to-end cycle over a reduced set, bypassing the
		// cooldown gate, so a deploy can be verified without waiting a
		// full interval
		w.log.Info("debug mode: running forced verification cycle")
		w.Cycle(ctx, w.cfg.Symbols[:1], true)
	}

	w.log.WithFields(map[string]any{
		"symbols":  w.cfg.Symbols,
		"interval": w.cfg.PollInterval.String(),
	}).Info("polling started")

	for {
		start := time.Now()
		w.Cycle(ctx, w.cfg.Symbols, false)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(NextDelay(w.cfg.PollInterval, time.Since(start))):
		}
	}
}

// Cycle runs one fetch, analyze and notify pass over the given pairs
func (w *Watcher) Cycle(ctx context.Context, pairs []string, force bool) {
	frame := w.fetcher.Fetch(ctx, pairs)
	if ctx.Err() != nil {
		return
	}

	analysisText := ""
	if w.analyzer != nil {
		text, err := w.analyzer.Analyze(ctx, frame)
		if err != nil {
			w.log.WithError(err).Error("analysis unavailable for this cycle")
		} else {
			analysisText = text
		}
	}

	if err := w.notifier.SendSnapshot(frame, analysisText, force); err != nil {
		w.log.WithError(err).Error("snapshot delivery failed")
	}
}

// NextDelay compensates the sleep for time already spent in the cycle. A
// cycle that overran the interval starts the next one immediately; missed
// cycles are never replayed.
func NextDelay(interval, elapsed time.Duration) time.Duration {
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}
