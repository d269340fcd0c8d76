// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package main is the entry point for the Newsup feed server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file, environment (Koanf v2)
//  2. DuckDB: article store, engagement events, embedding similarity
//  3. BadgerDB: recommendation and highlight caches with TTL eviction
//  4. Feed engine: similarity ranker, highlight scorer, source resolver,
//     cursor paginator
//  5. HTTP server: REST API under /api/v1 plus /metrics
//  6. Supervisor tree: HTTP server and the nightly highlight scheduler
//
// Graceful shutdown runs on SIGINT and SIGTERM: the server stops
// accepting connections, drains in-flight requests, then closes the
// cache and database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsup-io/newsup/internal/api"
	"github.com/newsup-io/newsup/internal/cachestore"
	"github.com/newsup-io/newsup/internal/config"
	"github.com/newsup-io/newsup/internal/database"
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/logging"
	"github.com/newsup-io/newsup/internal/ranking"
	"github.com/newsup-io/newsup/internal/scheduler"
	"github.com/newsup-io/newsup/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache_path", cfg.Cache.Path).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	badgerDB, err := cachestore.Open(cfg.Cache.Path, cfg.Cache.InMemory)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open cache store")
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	store := cachestore.New(badgerDB)
	recCache := cachestore.NewRecommendationCache(store, cfg.Cache.RecommendationTTL)
	hlCache := cachestore.NewHighlightCache(store, cfg.Cache.HighlightTTL)

	logger := logging.Logger()
	ranker := ranking.NewSimilarityRanker(db, logger)
	scorer := ranking.NewHighlightScorer(db, logger)

	resolver := feed.NewSourceResolver(db, ranker, scorer, recCache, hlCache, feed.ResolverConfig{
		CandidateWindow: cfg.Feed.CandidateWindow,
		ViewedWindow:    cfg.Feed.ViewedWindow,
		HighlightTopN:   cfg.Feed.HighlightTopN,
	}, logger)
	paginator := feed.NewPaginator(db)

	handler := api.NewHandler(resolver, paginator, db, recCache, cfg.Feed, logger)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if cfg.Scheduler.Enabled {
		tree.AddJobService(scheduler.New(scorer, hlCache, scheduler.Config{
			ExecutionTimeout: cfg.Scheduler.ExecutionTimeout,
			TopN:             cfg.Feed.HighlightTopN,
		}, logger))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting Newsup server")
	errCh := tree.ServeBackground(ctx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Server stopped gracefully")
}
