// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
)

// Engagement weights for the highlight score.
const (
	scrapWeight      = 5
	likeWeight       = 3
	detailViewWeight = 2
)

// Normalized score bounds for min-max scaling.
const (
	normScoreMin = 1.0
	normScoreMax = 3.0
)

// DefaultHighlightTopN bounds downstream consumers of the highlight ranking.
// The scorer itself does not truncate its output to this value; see
// Recompute.
const DefaultHighlightTopN = 10

// EngagementCount is one article's raw engagement tallies within the scored
// window.
type EngagementCount struct {
	ArticleID   int64
	Scraps      int64
	Likes       int64
	DetailViews int64
}

// EngagementSource loads engagement tallies for all articles created on or
// after a date.
type EngagementSource interface {
	GetEngagementSince(ctx context.Context, since time.Time) ([]EngagementCount, error)
}

// scoredArticle is the transient per-batch scoring record. Normalized scores
// are not persisted beyond the ranked ID list they produce.
type scoredArticle struct {
	articleID int64
	rawScore  float64
	normScore float64
}

// HighlightScorer computes the global engagement-weighted article ranking.
type HighlightScorer struct {
	source EngagementSource
	logger zerolog.Logger
	now    func() time.Time
}

// NewHighlightScorer creates a scorer over the given engagement source.
func NewHighlightScorer(source EngagementSource, logger zerolog.Logger) *HighlightScorer {
	return &HighlightScorer{
		source: source,
		logger: logger.With().Str("component", "highlight-scorer").Logger(),
		now:    time.Now,
	}
}

// Recompute loads engagement for articles created on/after since, scores
// them as 5*scraps + 3*likes + 2*detailViews, min-max normalizes the raw
// scores into [1,3] across the batch, and returns the IDs sorted by
// descending raw score with ties kept in input order.
//
// topN does not truncate the returned list; it only bounds downstream
// consumers. The parameter is accepted to keep the call shape stable.
//
// An empty batch returns an empty RankedIDList and no error; callers must
// treat that as "try again later" and must not overwrite a still-valid
// cache entry with it.
func (s *HighlightScorer) Recompute(ctx context.Context, since time.Time, topN int) (models.RankedIDList, error) {
	_ = topN

	start := time.Now()
	counts, err := s.source.GetEngagementSince(ctx, since)
	if err != nil {
		return models.RankedIDList{}, fmt.Errorf("load engagement since %s: %w", since.Format(time.RFC3339), err)
	}

	scored := scoreBatch(counts)
	metrics.HighlightRecomputeDuration.Observe(time.Since(start).Seconds())
	metrics.HighlightArticlesRanked.Set(float64(len(scored)))

	if len(scored) == 0 {
		s.logger.Info().Time("since", since).Msg("No articles in highlight window")
		return models.RankedIDList{ArticleIDs: []int64{}, LastUpdated: s.now().UTC()}, nil
	}

	ids := make([]int64, len(scored))
	for i, sa := range scored {
		ids[i] = sa.articleID
	}

	s.logger.Info().
		Time("since", since).
		Int("articles", len(ids)).
		Float64("top_raw_score", scored[0].rawScore).
		Msg("Highlight ranking recomputed")

	return models.RankedIDList{ArticleIDs: ids, LastUpdated: s.now().UTC()}, nil
}

// scoreBatch computes raw and normalized scores and sorts descending by raw
// score, stable on input order for ties.
func scoreBatch(counts []EngagementCount) []scoredArticle {
	if len(counts) == 0 {
		return nil
	}

	scored := make([]scoredArticle, len(counts))
	minRaw, maxRaw := 0.0, 0.0
	for i, c := range counts {
		raw := float64(scrapWeight*c.Scraps + likeWeight*c.Likes + detailViewWeight*c.DetailViews)
		scored[i] = scoredArticle{articleID: c.ArticleID, rawScore: raw}
		if i == 0 || raw < minRaw {
			minRaw = raw
		}
		if i == 0 || raw > maxRaw {
			maxRaw = raw
		}
	}

	// Min-max scale into [1,3]. A batch of identical scores maps to the
	// lower bound, avoiding division by zero.
	spread := maxRaw - minRaw
	for i := range scored {
		if spread == 0 {
			scored[i].normScore = normScoreMin
			continue
		}
		scored[i].normScore = normScoreMin + (normScoreMax-normScoreMin)*(scored[i].rawScore-minRaw)/spread
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].rawScore > scored[j].rawScore
	})

	return scored
}

// StartOfPreviousDay returns midnight UTC of the day before t. The daily
// highlight job and the on-miss synchronous recompute are both anchored
// here.
func StartOfPreviousDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
