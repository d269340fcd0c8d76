// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package scheduler runs the daily highlight recomputation. The HTTP
// path can rebuild the highlight list lazily on a cache miss; this
// service keeps the cache warm so users rarely pay that cost.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/models"
	"github.com/newsup-io/newsup/internal/ranking"
)

// Scorer recomputes the highlight ranking. Implemented by
// *ranking.HighlightScorer.
type Scorer interface {
	Recompute(ctx context.Context, since time.Time, topN int) (models.RankedIDList, error)
}

// HighlightCache stores the recomputed ranking. Implemented by
// *cachestore.HighlightCache.
type HighlightCache interface {
	Set(ctx context.Context, list models.RankedIDList) error
}

// Config tunes the recompute service.
type Config struct {
	// ExecutionTimeout bounds one recompute run.
	ExecutionTimeout time.Duration

	// TopN is passed through to the scorer.
	TopN int
}

// Service recomputes the highlight ranking shortly after each UTC
// midnight. It implements suture.Service.
type Service struct {
	scorer Scorer
	cache  HighlightCache
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

// New creates the recompute service.
func New(scorer Scorer, cache HighlightCache, cfg Config, logger zerolog.Logger) *Service {
	if cfg.ExecutionTimeout <= 0 {
		cfg.ExecutionTimeout = 5 * time.Minute
	}
	if cfg.TopN <= 0 {
		cfg.TopN = ranking.DefaultHighlightTopN
	}
	return &Service{
		scorer: scorer,
		cache:  cache,
		cfg:    cfg,
		logger: logger.With().Str("component", "highlight-scheduler").Logger(),
		now:    time.Now,
	}
}

// Serve runs until ctx is cancelled, firing once per UTC day.
func (s *Service) Serve(ctx context.Context) error {
	s.logger.Info().Msg("Highlight scheduler started")

	for {
		wait := time.Until(s.nextRun())
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Highlight scheduler stopping")
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.RunOnce(ctx); err != nil {
			// The next run, or a lazy cache-miss rebuild, will retry.
			s.logger.Error().Err(err).Msg("Highlight recompute failed")
		}
	}
}

// RunOnce performs one recompute over the previous full UTC day and
// stores the result. An empty window leaves the cache untouched.
func (s *Service) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.ExecutionTimeout)
	defer cancel()

	since := ranking.StartOfPreviousDay(s.now())
	list, err := s.scorer.Recompute(runCtx, since, s.cfg.TopN)
	if err != nil {
		return fmt.Errorf("recompute highlights since %s: %w", since.Format(time.RFC3339), err)
	}

	if len(list.ArticleIDs) == 0 {
		s.logger.Info().Time("since", since).Msg("No engagement in window, keeping previous highlights")
		return nil
	}

	if err := s.cache.Set(runCtx, list); err != nil {
		return fmt.Errorf("store highlights: %w", err)
	}

	s.logger.Info().
		Time("since", since).
		Int("articles", len(list.ArticleIDs)).
		Msg("Highlight ranking refreshed")
	return nil
}

// nextRun returns the next UTC midnight strictly after now.
func (s *Service) nextRun() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// String names the service in supervisor logs.
func (s *Service) String() string {
	return "highlight-scheduler"
}
