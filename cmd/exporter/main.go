package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turboflakes/grade-exporter/internal/api"
	"github.com/turboflakes/grade-exporter/internal/config"
	"github.com/turboflakes/grade-exporter/internal/exporter"
	"github.com/turboflakes/grade-exporter/internal/scraper"
	"github.com/turboflakes/grade-exporter/internal/targets"
	"github.com/turboflakes/grade-exporter/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses defaults and environment only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	var level slog.LevelVar
	level.Set(cfg.Level())
	slog.SetDefault(newLogger(cfg.LogFormat, &level))

	slog.Info("grade-exporter starting",
		"config", *configPath,
		"listen_address", cfg.ListenAddress,
		"provider_domain", cfg.ProviderDomain,
		"request_timeout", cfg.RequestTimeout,
		"concurrency", cfg.Concurrency,
		"target_urls_file", cfg.TargetURLsFile,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.New()
	client := scraper.NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout)
	exp := exporter.New(exporter.Options{
		Sources:        sourcesOf(cfg),
		Fetcher:        scraper.NewHTTPFetcher(client),
		ProviderDomain: cfg.ProviderDomain,
		Timeout:        cfg.RequestTimeout,
		Concurrency:    cfg.Concurrency,
		Metrics:        metrics,
	})

	if res := targets.Resolve(exp.Sources()); len(res.URLs) == 0 {
		slog.Warn("no targets configured; /metrics will report none until TARGET_URLS or the targets file is set")
	} else {
		slog.Info("targets resolved", "count", len(res.URLs), "dropped", len(res.Dropped))
	}

	// Hot-reload swaps target sources and log level. Listen address, timeouts
	// and provider domain need a restart.
	if *configPath != "" {
		go func() {
			if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
				exp.SetSources(sourcesOf(updated))
				level.Set(updated.Level())
				slog.Info("config hot-reloaded",
					"log_level", updated.Level().String(),
					"target_urls_file", updated.TargetURLsFile,
				)
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           api.New(exp, metrics.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.ListenAddress)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("grade-exporter shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}

func newLogger(format string, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func sourcesOf(cfg *config.Config) targets.Sources {
	return targets.Sources{
		Inline: string(cfg.TargetURLs),
		File:   cfg.TargetURLsFile,
	}
}
