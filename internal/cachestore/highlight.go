// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package cachestore

import (
	"context"
	"time"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
)

// highlightKey matches the key format of existing deployments.
const highlightKey = "highlight-articles"

// DefaultHighlightTTL is how long the global highlight ranking stays valid.
const DefaultHighlightTTL = 24 * time.Hour

// HighlightCache is the global cache of engagement-ranked article IDs.
type HighlightCache struct {
	store *Store
	ttl   time.Duration
}

// NewHighlightCache creates the global highlight cache. A non-positive ttl
// falls back to DefaultHighlightTTL.
func NewHighlightCache(store *Store, ttl time.Duration) *HighlightCache {
	if ttl <= 0 {
		ttl = DefaultHighlightTTL
	}
	return &HighlightCache{store: store, ttl: ttl}
}

// Get reads the current highlight ranking snapshot.
func (c *HighlightCache) Get(ctx context.Context) (models.RankedIDList, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.RankedIDList{}, false, err
	}

	list, found, err := c.store.GetList(highlightKey)
	if err != nil {
		return models.RankedIDList{}, false, err
	}

	if found {
		metrics.CacheHits.WithLabelValues("highlights").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("highlights").Inc()
	}
	return list, found, nil
}

// Set overwrites the highlight ranking wholesale with the configured TTL.
// Callers must not write an empty ranking over a still-valid previous entry;
// that policy lives in the resolver and the scheduler, which skip the write.
func (c *HighlightCache) Set(ctx context.Context, list models.RankedIDList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store.SetList(highlightKey, list, c.ttl)
}
