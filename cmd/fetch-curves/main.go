package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nii-stress/internal/config"
	"nii-stress/internal/data"
	"nii-stress/internal/logging"
)

// fetch-curves pulls the latest Treasury curve and its history from FRED and writes the
// snapshot files the API and CLI fall back to when FRED is unreachable.
func main() {
	var (
		cfgPath     = flag.String("config", "", "Path to YAML config for the tenor -> series map (default: built-in)")
		curveOut    = flag.String("curve-out", "examples/curves/latest.json", "Output path for the latest curve")
		historyOut  = flag.String("history-out", "examples/curves/history.json", "Output path for the yield history")
		days        = flag.Int("days", 730, "Days of history to fetch")
		redisURL    = flag.String("redis", os.Getenv("REDIS_URL"), "Optional Redis URL to cache FRED responses")
		timeout     = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
		skipHistory = flag.Bool("skip-history", false, "Only fetch the latest curve")
	)
	flag.Parse()

	logger, err := logging.Init(logging.Config{Level: "info", Format: "text", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	apiKey := os.Getenv("FRED_API_KEY")
	if apiKey == "" {
		logger.Error("FRED_API_KEY environment variable is required")
		os.Exit(1)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		if cfg, err = config.Load(*cfgPath); err != nil {
			logger.Error("failed to load config", slog.Any("error", err))
			os.Exit(1)
		}
	}
	series := data.SeriesMap(cfg.Curve.Series)

	var cache data.Cache
	if *redisURL != "" {
		if cache, err = data.NewCache("redis", data.DefaultCacheTTL, *redisURL); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer cache.Close()
	}
	client := data.NewFredClient(apiKey, os.Getenv("FRED_BASE_URL"), cache)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := fetch(ctx, logger, client, series, *curveOut, *historyOut, *days, *skipHistory); err != nil {
		logger.Error("fetch failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func fetch(ctx context.Context, logger *slog.Logger, client *data.FredClient, series data.SeriesMap,
	curveOut, historyOut string, days int, skipHistory bool) error {
	now := time.Now().UTC()

	curve, err := client.Latest(ctx, series)
	if err != nil {
		return fmt.Errorf("latest curve: %w", err)
	}
	if err := data.SaveSnapshot(data.NewCurveSnapshot(curve, now, series), curveOut); err != nil {
		return err
	}
	logger.Info("saved latest curve", slog.String("path", curveOut), slog.Int("tenors", curve.Len()))

	if skipHistory {
		return nil
	}
	start := now.AddDate(0, 0, -days)
	hist, err := client.History(ctx, series, start, now)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := data.SaveSnapshot(data.NewHistorySnapshot(hist, series), historyOut); err != nil {
		return err
	}
	logger.Info("saved yield history",
		slog.String("path", historyOut),
		slog.Int("observations", len(hist)),
		slog.String("from", start.Format(time.DateOnly)))
	return nil
}
