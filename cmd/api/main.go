package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"nii-stress/internal/api"
	"nii-stress/internal/api/handlers"
	"nii-stress/internal/config"
	"nii-stress/internal/data"
	"nii-stress/internal/logging"
	"nii-stress/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	logger, err := logging.Init(settings.Log)
	if err != nil {
		return err
	}

	cfg, err := config.Load(settings.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", settings.ConfigPath, err)
	}
	logger.Info("config loaded", slog.String("path", settings.ConfigPath))

	m := metrics.New()
	curves := &data.CurveSource{
		Series:      data.SeriesMap(cfg.Curve.Series),
		CurvePath:   settings.CurveFile,
		HistoryPath: settings.HistoryFile,
		Fallback:    cfg.Curve.Fallback,
		Logger:      logger,
	}

	cache, err := data.NewCache(settings.CacheBackend, settings.CacheTTL, settings.RedisURL)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	if settings.FredAPIKey != "" {
		fred := data.NewFredClient(settings.FredAPIKey, settings.FredBaseURL, cache)
		fred.Metrics = m
		fred.Logger = logger
		curves.Fred = fred
		logger.Info("live curves enabled", slog.String("cache", settings.CacheBackend))
	} else {
		logger.Info("FRED_API_KEY not set, serving snapshot and configured curves only")
	}

	env, err := handlers.NewEnv(cfg, curves, m)
	if err != nil {
		return err
	}

	if settings.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(env, api.RouterOptions{
		CORSOrigins: settings.CORSOrigins,
		StaticDir:   settings.StaticDir,
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
