// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package api

import (
	"net/http"
	"time"

	"github.com/newsup-io/newsup/internal/cursor"
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/models"
)

// ArticlesFeed serves GET /api/v1/articles/feed: the legacy
// chronological feed, paginated by a (createdAt, id) keyset cursor
// rather than the offset cursor of the ranked views. The keyset makes
// pages stable under concurrent inserts, which the ranked views get
// from their cached snapshot instead.
func (h *Handler) ArticlesFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	req, verr := parseFeedRequest(r, h.feedCfg)
	if verr != nil {
		respondValidationError(w, verr, start)
		return
	}

	var (
		beforeCreatedAt time.Time
		beforeID        int64
	)
	if req.Cursor != "" {
		fc, err := cursor.DecodeFeed(req.Cursor)
		if err != nil {
			h.respondError(w, r, err, start)
			return
		}
		beforeCreatedAt = fc.CreatedAt
		beforeID = fc.ID
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := h.store.GetFeedPage(r.Context(), beforeCreatedAt, beforeID, req.Limit+1)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	if len(rows) == 0 && req.Cursor == "" {
		h.respondError(w, r, feed.ErrNoArticlesFound, start)
		return
	}

	hasNext := len(rows) > req.Limit
	if hasNext {
		rows = rows[:req.Limit]
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	articles := []models.DetailedArticleView{}
	if len(ids) > 0 {
		articles, err = h.store.GetDetailedArticles(r.Context(), userID, ids)
		if err != nil {
			h.respondError(w, r, err, start)
			return
		}
	}

	page := models.ArticlesPage{
		Articles: articles,
		Pagination: models.PaginationInfo{
			Limit:   req.Limit,
			HasNext: hasNext,
		},
	}
	if hasNext {
		last := rows[len(rows)-1]
		token := cursor.EncodeFeed(cursor.FeedCursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.Pagination.NextCursor = &token
	}

	respondJSON(w, http.StatusOK, page, start)
}
