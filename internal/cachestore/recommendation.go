// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package cachestore

import (
	"context"
	"fmt"
	"time"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
)

// recommendationKeyPrefix matches the key format of existing deployments.
const recommendationKeyPrefix = "recommendations:"

// DefaultRecommendationTTL is how long a per-user ranked list stays valid.
const DefaultRecommendationTTL = 6 * time.Hour

// RecommendationCache is the per-user cache of ranked article IDs.
type RecommendationCache struct {
	store *Store
	ttl   time.Duration
}

// NewRecommendationCache creates the per-user recommendation cache. A
// non-positive ttl falls back to DefaultRecommendationTTL.
func NewRecommendationCache(store *Store, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}
	return &RecommendationCache{store: store, ttl: ttl}
}

func recommendationKey(userID int64) string {
	return fmt.Sprintf("%s%d", recommendationKeyPrefix, userID)
}

// Get reads the user's ranked list snapshot. It never blocks on
// recomputation; a miss is reported to the caller to rebuild.
func (c *RecommendationCache) Get(ctx context.Context, userID int64) (models.RankedIDList, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.RankedIDList{}, false, err
	}

	list, found, err := c.store.GetList(recommendationKey(userID))
	if err != nil {
		return models.RankedIDList{}, false, err
	}

	if found {
		metrics.CacheHits.WithLabelValues("recommendations").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("recommendations").Inc()
	}
	return list, found, nil
}

// Set overwrites the user's ranked list wholesale with the configured TTL.
func (c *RecommendationCache) Set(ctx context.Context, userID int64, list models.RankedIDList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store.SetList(recommendationKey(userID), list, c.ttl)
}

// Invalidate deletes the user's cached list. Called after a section
// preference write commits so the next read recomputes against the new
// preferences.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store.Delete(recommendationKey(userID))
}
