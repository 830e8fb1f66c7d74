package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chartpulse/internal/analysis"
	"chartpulse/internal/config"
	"chartpulse/internal/core"
	"chartpulse/internal/exchange/binance"
	"chartpulse/internal/logger/zerolog"
	"chartpulse/internal/market"
	"chartpulse/internal/notification"
	"chartpulse/internal/storage"
	"chartpulse/internal/watcher"

	"github.com/spf13/cobra"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "chartpulse",
		Short:   "Binance market snapshot watcher with Telegram delivery",
		Version: "1.0.0",
		RunE:    run,
	}

	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", "", "Path to an env file (default ./.env when present)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log, err := zerolog.New(cfg.Log.Level, cfg.Log.TimeFormat, cfg.Log.Colored, cfg.Log.JSON)
	if err != nil {
		return fmt.Errorf("logger setup error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	markers, err := storage.NewFromFile(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("marker store error: %w", err)
	}
	defer markers.Close()

	feeder, err := binance.NewClient(ctx, log)
	if err != nil {
		return fmt.Errorf("exchange setup error: %w", err)
	}

	notifier, err := notification.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, markers, cfg.Cooldown, log)
	if err != nil {
		return fmt.Errorf("telegram setup error: %w", err)
	}

	var analyzer core.Analyzer
	if cfg.AnalysisEnabled() {
		analyzer = analysis.NewOpenAIAnalyzer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, analysis section disabled")
	}

	fetcher := market.NewFetcher(feeder, cfg.CandlePeriod, cfg.CandleLimit, log)

	err = watcher.New(cfg, fetcher, analyzer, notifier, log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutdown requested, exiting")
		return nil
	}

	return err
}
