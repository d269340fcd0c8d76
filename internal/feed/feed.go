// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package feed turns a requested view (recommended, liked, scraped,
// highlighted) into one page of hydrated articles with an opaque
// continuation cursor.
//
// The flow for a page request: the resolver produces the full ordered ID
// list for the view (from cache or freshly computed), the paginator slices
// it at the cursor offset, hydrates the slice order-preserving, and encodes
// the next cursor if more remain. ID-list resolution happens-before
// hydration happens-before cursor encoding within a call; nothing is
// ordered across concurrent requests.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/newsup-io/newsup/internal/models"
	"github.com/newsup-io/newsup/internal/ranking"
)

// ErrNoArticlesFound indicates the resolved ID source was empty at offset
// zero. It is distinct from an exhausted-but-nonempty pagination, which is a
// successful empty page.
var ErrNoArticlesFound = errors.New("no articles found")

// View selects which ID source backs a page request.
type View string

// Supported views. Absence of an explicit selector on the HTTP surface maps
// to ViewRecommended.
const (
	ViewRecommended View = "recommended"
	ViewLiked       View = "liked"
	ViewScraped     View = "scraped"
	ViewHighlighted View = "highlighted"
)

// Store is the relational access the feed engine needs. Implemented by
// *database.DB.
type Store interface {
	// GetCandidateArticleIDs returns IDs of articles created after
	// createdAfter, excluding articles the user detail-viewed since
	// viewedSince.
	GetCandidateArticleIDs(ctx context.Context, userID int64, createdAfter, viewedSince time.Time) ([]int64, error)

	// GetLikedArticleIDs and GetScrapedArticleIDs return IDs in the
	// store's natural order.
	GetLikedArticleIDs(ctx context.Context, userID int64) ([]int64, error)
	GetScrapedArticleIDs(ctx context.Context, userID int64) ([]int64, error)

	// GetDetailedArticles hydrates ids into detailed views, preserving the
	// order of ids.
	GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error)
}

// Ranker reorders candidates by similarity. Implemented by
// *ranking.SimilarityRanker.
type Ranker interface {
	Rank(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error)
}

// Scorer recomputes the engagement-weighted highlight ranking. Implemented
// by *ranking.HighlightScorer.
type Scorer interface {
	Recompute(ctx context.Context, since time.Time, topN int) (models.RankedIDList, error)
}

// RecommendationCache is the per-user ranked-list cache. Implemented by
// *cachestore.RecommendationCache.
type RecommendationCache interface {
	Get(ctx context.Context, userID int64) (models.RankedIDList, bool, error)
	Set(ctx context.Context, userID int64, list models.RankedIDList) error
	Invalidate(ctx context.Context, userID int64) error
}

// HighlightCache is the global ranked-list cache. Implemented by
// *cachestore.HighlightCache.
type HighlightCache interface {
	Get(ctx context.Context) (models.RankedIDList, bool, error)
	Set(ctx context.Context, list models.RankedIDList) error
}

// ResolverConfig tunes the candidate windows of the resolver.
type ResolverConfig struct {
	// CandidateWindow bounds how recent an article must be to enter the
	// personalized candidate set.
	CandidateWindow time.Duration

	// ViewedWindow bounds how far back a user's detail views exclude
	// candidates.
	ViewedWindow time.Duration

	// HighlightTopN is passed through to the scorer. It bounds downstream
	// consumers only; the cached highlight list is not truncated.
	HighlightTopN int
}

// DefaultResolverConfig returns the production windows.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		CandidateWindow: 24 * time.Hour,
		ViewedWindow:    30 * 24 * time.Hour,
		HighlightTopN:   ranking.DefaultHighlightTopN,
	}
}
