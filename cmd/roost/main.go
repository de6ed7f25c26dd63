package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Roost/internal/api"
	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/config"
	"github.com/MikeSquared-Agency/Roost/internal/enrich"
	"github.com/MikeSquared-Agency/Roost/internal/herald"
	"github.com/MikeSquared-Agency/Roost/internal/observability"
	"github.com/MikeSquared-Agency/Roost/internal/scout"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profile := cfg.Profile()

	// Store
	var st store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.URL, profile)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		st = pg
		logger.Info("connected to database")
	} else {
		st = store.NewMemory(profile)
		logger.Warn("no database configured, apartments live in memory only")
	}
	defer st.Close()

	// Herald (optional)
	var heraldClient herald.Client
	if cfg.Herald.Enabled {
		hc, err := herald.NewNATSClient(ctx, cfg.Herald.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to herald, running without events", "error", err)
		} else {
			heraldClient = hc
			defer hc.Close()
			logger.Info("connected to herald")
		}
	}

	metrics := observability.NewMetrics()

	// Neighborhood lookups: HTTP client behind the SQLite cache
	var atlasClient atlas.Client
	var cache *atlas.Cache
	if cfg.Atlas.URL != "" {
		atlasClient = atlas.NewHTTPClient(cfg.Atlas.URL, cfg.Atlas.Token, cfg.AtlasTimeout())
		c, err := atlas.OpenCache(cfg.Cache.Path, cfg.CacheTTL(), logger)
		if err != nil {
			logger.Warn("failed to open neighborhood cache, lookups go uncached", "error", err)
		} else {
			cache = c
			defer cache.Close()
			cache.StartJanitor(time.Hour)
			atlasClient = atlas.NewCached(atlasClient, cache, metrics, logger)
		}
	} else {
		logger.Warn("no atlas URL configured, neighborhood categories stay neutral")
	}

	// Scout
	sc := scout.NewHTTPScout(cfg.Scout.UserAgent, cfg.ScoutTimeout(), logger)

	// Enricher
	enricher := enrich.New(st, sc, atlasClient, heraldClient, cfg.CommuteTarget(), profile, metrics, logger)

	// API server
	router := api.NewRouter(st, enricher, cache, heraldClient, profile, metrics, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
