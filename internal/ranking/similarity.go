// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package ranking produces ordered article-ID lists: personalized similarity
// rankings against the analytical backend, and the global engagement-weighted
// highlight ranking.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/metrics"
)

// ErrRankingBackend indicates the similarity backend failed or timed out.
// It is never silently converted into an empty or unranked result; the only
// intentional fallback is the zero-rows case handled inside Rank.
var ErrRankingBackend = errors.New("ranking backend failure")

// SimilarityBackend is the analytical engine that reorders candidate IDs by
// descending cosine similarity to the user's stored embedding. A user with
// no embedding yields zero rows, not an error.
type SimilarityBackend interface {
	RankBySimilarity(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error)
}

// SimilarityRanker is a thin client over the similarity backend. It issues
// one ranking request per call (no batching across users) and normalizes the
// backend's edge cases.
type SimilarityRanker struct {
	backend SimilarityBackend
	logger  zerolog.Logger
}

// NewSimilarityRanker creates a ranker over the given backend.
func NewSimilarityRanker(backend SimilarityBackend, logger zerolog.Logger) *SimilarityRanker {
	return &SimilarityRanker{
		backend: backend,
		logger:  logger.With().Str("component", "similarity-ranker").Logger(),
	}
}

// Rank returns candidateIDs reordered by descending similarity to the user's
// embedding.
//
// Edge-case policy:
//   - Empty candidate set: returns an empty list without issuing a request.
//   - Backend succeeds with zero rows for a non-empty candidate set (the user
//     has no embedding yet): returns the original candidate order unchanged.
//     Callers never receive fewer candidates than they supplied because of a
//     ranking gap.
//   - Backend failure or timeout: a wrapped ErrRankingBackend. The caller's
//     deadline propagates into the backend call.
func (r *SimilarityRanker) Rank(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error) {
	if len(candidateIDs) == 0 {
		return []int64{}, nil
	}

	start := time.Now()
	ranked, err := r.backend.RankBySimilarity(ctx, userID, candidateIDs)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RankingErrors.Inc()
		return nil, fmt.Errorf("%w: rank for user %d: %w", ErrRankingBackend, userID, err)
	}

	if len(ranked) == 0 {
		metrics.RankingFallbacks.Inc()
		r.logger.Debug().
			Int64("user_id", userID).
			Int("candidates", len(candidateIDs)).
			Msg("Backend returned zero rows; serving candidates unranked")
		out := make([]int64, len(candidateIDs))
		copy(out, candidateIDs)
		return out, nil
	}

	return ranked, nil
}
