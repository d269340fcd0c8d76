// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/models"
	"github.com/newsup-io/newsup/internal/ranking"
)

// SourceResolver produces the full ordered ID list for a view, either from
// cache or freshly computed.
//
// Concurrent cache misses for the same key each independently recompute and
// redundantly overwrite it. There is deliberately no single-flight or
// per-key lock here; do not add one without revisiting the cache contract.
type SourceResolver struct {
	store     Store
	ranker    Ranker
	scorer    Scorer
	recCache  RecommendationCache
	hlCache   HighlightCache
	cfg       ResolverConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSourceResolver wires a resolver from its collaborators.
func NewSourceResolver(
	store Store,
	ranker Ranker,
	scorer Scorer,
	recCache RecommendationCache,
	hlCache HighlightCache,
	cfg ResolverConfig,
	logger zerolog.Logger,
) *SourceResolver {
	def := DefaultResolverConfig()
	if cfg.CandidateWindow <= 0 {
		cfg.CandidateWindow = def.CandidateWindow
	}
	if cfg.ViewedWindow <= 0 {
		cfg.ViewedWindow = def.ViewedWindow
	}
	if cfg.HighlightTopN <= 0 {
		cfg.HighlightTopN = def.HighlightTopN
	}

	return &SourceResolver{
		store:    store,
		ranker:   ranker,
		scorer:   scorer,
		recCache: recCache,
		hlCache:  hlCache,
		cfg:      cfg,
		logger:   logger.With().Str("component", "source-resolver").Logger(),
		now:      time.Now,
	}
}

// Resolve dispatches to the view-specific resolver. fromCache reports
// whether the returned list was served from a cache; it is meaningful for
// the recommended and highlighted views and always false for the direct
// query views.
func (r *SourceResolver) Resolve(ctx context.Context, view View, userID int64) (ids []int64, fromCache bool, err error) {
	switch view {
	case ViewRecommended:
		return r.ResolveRecommended(ctx, userID)
	case ViewLiked:
		ids, err = r.ResolveLiked(ctx, userID)
		return ids, false, err
	case ViewScraped:
		ids, err = r.ResolveScraped(ctx, userID)
		return ids, false, err
	case ViewHighlighted:
		ids, fromCache, err = r.resolveHighlighted(ctx)
		return ids, fromCache, err
	default:
		return nil, false, fmt.Errorf("unknown view %q", view)
	}
}

// ResolveRecommended returns the user's ranked recommendation list. On a
// cache miss it computes the candidate set (articles created within the
// candidate window, excluding those the user viewed within the viewed
// window), ranks it, and caches the result before returning it.
func (r *SourceResolver) ResolveRecommended(ctx context.Context, userID int64) ([]int64, bool, error) {
	cached, found, err := r.recCache.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if found {
		return cached.ArticleIDs, true, nil
	}

	now := r.now().UTC()
	candidates, err := r.store.GetCandidateArticleIDs(ctx, userID, now.Add(-r.cfg.CandidateWindow), now.Add(-r.cfg.ViewedWindow))
	if err != nil {
		return nil, false, fmt.Errorf("load candidates for user %d: %w", userID, err)
	}

	ranked, err := r.ranker.Rank(ctx, userID, candidates)
	if err != nil {
		return nil, false, err
	}

	list := models.RankedIDList{ArticleIDs: ranked, LastUpdated: now}
	if err := r.recCache.Set(ctx, userID, list); err != nil {
		return nil, false, err
	}

	r.logger.Debug().
		Int64("user_id", userID).
		Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).
		Msg("Recommendation list rebuilt")

	return ranked, false, nil
}

// ResolveLiked returns the IDs the user has liked, uncached, in the store's
// natural order.
func (r *SourceResolver) ResolveLiked(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := r.store.GetLikedArticleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load liked articles for user %d: %w", userID, err)
	}
	return ids, nil
}

// ResolveScraped returns the IDs the user has scraped, uncached, in the
// store's natural order.
func (r *SourceResolver) ResolveScraped(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := r.store.GetScrapedArticleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load scraped articles for user %d: %w", userID, err)
	}
	return ids, nil
}

// ResolveHighlighted returns the global highlight ranking, recomputing it
// synchronously on a cache miss.
func (r *SourceResolver) ResolveHighlighted(ctx context.Context) ([]int64, error) {
	ids, _, err := r.resolveHighlighted(ctx)
	return ids, err
}

func (r *SourceResolver) resolveHighlighted(ctx context.Context) ([]int64, bool, error) {
	cached, found, err := r.hlCache.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	if found {
		return cached.ArticleIDs, true, nil
	}

	since := ranking.StartOfPreviousDay(r.now())
	list, err := r.scorer.Recompute(ctx, since, r.cfg.HighlightTopN)
	if err != nil {
		return nil, false, err
	}

	// An empty recompute is "try again later": it must not overwrite or
	// extend a previous entry with a false no-highlights state.
	if len(list.ArticleIDs) == 0 {
		return []int64{}, false, nil
	}

	if err := r.hlCache.Set(ctx, list); err != nil {
		return nil, false, err
	}

	return list.ArticleIDs, false, nil
}
