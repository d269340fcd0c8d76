// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/newsup-io/newsup/internal/cachestore"
	"github.com/newsup-io/newsup/internal/cursor"
	"github.com/newsup-io/newsup/internal/database"
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/ranking"
)

// respondError translates domain sentinel errors into HTTP responses.
// Errors reach this point unretried; retry policy belongs to clients.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status, code, message := classifyError(err)

	event := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("code", code).
		Msg("Request failed")

	respondError(w, status, code, message, nil, start)
}

func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, cursor.ErrMalformedCursor):
		return http.StatusBadRequest, "MALFORMED_CURSOR", "cursor could not be decoded"
	case errors.Is(err, feed.ErrNoArticlesFound):
		return http.StatusNotFound, "NO_ARTICLES_FOUND", "no articles found for this view"
	case errors.Is(err, database.ErrArticleNotFound):
		return http.StatusNotFound, "ARTICLE_NOT_FOUND", "article does not exist"
	case errors.Is(err, ranking.ErrRankingBackend):
		return http.StatusBadGateway, "RANKING_BACKEND_ERROR", "ranking backend unavailable"
	case errors.Is(err, cachestore.ErrCacheStore):
		return http.StatusServiceUnavailable, "CACHE_STORE_ERROR", "cache store unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
