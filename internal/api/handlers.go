// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package api provides the HTTP surface of the feed engine: article
// pages, engagement writes, section preferences, and health.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/config"
	"github.com/newsup-io/newsup/internal/database"
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/models"
)

// FeedResolver produces the ordered ID list for a view. Implemented by
// *feed.SourceResolver.
type FeedResolver interface {
	Resolve(ctx context.Context, view feed.View, userID int64) (ids []int64, fromCache bool, err error)
}

// Pager slices and hydrates an ID list. Implemented by *feed.Paginator.
type Pager interface {
	Page(ctx context.Context, ids []int64, userID int64, limit int, cursorToken string) (models.ArticlesPage, error)
}

// EngagementStore is the relational access the handlers need beyond
// feed resolution. Implemented by *database.DB.
type EngagementStore interface {
	ToggleLike(ctx context.Context, userID, articleID int64) (bool, error)
	ToggleScrap(ctx context.Context, userID, articleID int64) (bool, error)
	RecordViewEvent(ctx context.Context, userID, articleID int64) error
	ReplaceSectionPreferences(ctx context.Context, userID int64, prefs []models.SectionPreference) error
	GetSectionPreferences(ctx context.Context, userID int64) ([]models.SectionPreference, error)
	GetFeedPage(ctx context.Context, beforeCreatedAt time.Time, beforeID int64, limit int) ([]database.FeedRow, error)
	GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error)
	Ping(ctx context.Context) error
}

// RecommendationInvalidator drops a user's cached recommendation list.
// Implemented by *cachestore.RecommendationCache.
type RecommendationInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// Handler holds the handlers' collaborators. It keeps no per-request
// state; everything request-scoped flows through arguments.
type Handler struct {
	resolver  FeedResolver
	paginator Pager
	store     EngagementStore
	recCache  RecommendationInvalidator
	feedCfg   config.FeedConfig
	logger    zerolog.Logger
}

// NewHandler wires a handler from its collaborators.
func NewHandler(
	resolver FeedResolver,
	paginator Pager,
	store EngagementStore,
	recCache RecommendationInvalidator,
	feedCfg config.FeedConfig,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		resolver:  resolver,
		paginator: paginator,
		store:     store,
		recCache:  recCache,
		feedCfg:   feedCfg,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Articles serves GET /api/v1/articles: one page of the requested view.
// Selectors scraped, liked, and highlight are mutually exclusive; none
// selects the personalized recommended view, whose responses carry
// X-Cache HIT or MISS.
func (h *Handler) Articles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	req, verr := parseArticlesRequest(r, h.feedCfg)
	if verr != nil {
		respondValidationError(w, verr, start)
		return
	}

	ids, fromCache, err := h.resolver.Resolve(r.Context(), req.view, userID)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	page, err := h.paginator.Page(r.Context(), ids, userID, req.Limit, req.Cursor)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	if req.view == feed.ViewRecommended {
		if fromCache {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
	}

	respondJSON(w, http.StatusOK, page, start)
}

// ViewArticle serves POST /api/v1/articles/{id}/view: records one
// detail-view event. Views accumulate; this is not a toggle.
func (h *Handler) ViewArticle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	articleID, ok := articleIDParam(w, r, start)
	if !ok {
		return
	}

	if err := h.store.RecordViewEvent(r.Context(), userID, articleID); err != nil {
		h.respondError(w, r, err, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"viewed": true}, start)
}

// LikeArticle serves POST /api/v1/articles/{id}/like: toggles the like
// and reports the new state.
func (h *Handler) LikeArticle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	articleID, ok := articleIDParam(w, r, start)
	if !ok {
		return
	}

	liked, err := h.store.ToggleLike(r.Context(), userID, articleID)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"liked": liked}, start)
}

// ScrapArticle serves POST /api/v1/articles/{id}/scrap: toggles the
// scrap and reports the new state.
func (h *Handler) ScrapArticle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	articleID, ok := articleIDParam(w, r, start)
	if !ok {
		return
	}

	scraped, err := h.store.ToggleScrap(r.Context(), userID, articleID)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"scraped": scraped}, start)
}

// SectionPreferences serves PUT /api/v1/users/me/section-preferences:
// replaces the user's section weights, then invalidates the cached
// recommendation list. The invalidation runs strictly after the commit
// so a concurrent reader can rebuild from the new preferences but never
// from the old ones.
func (h *Handler) SectionPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	req, verr := parseSectionPreferencesRequest(r)
	if verr != nil {
		respondValidationError(w, verr, start)
		return
	}

	prefs := make([]models.SectionPreference, len(req.Preferences))
	for i, p := range req.Preferences {
		prefs[i] = models.SectionPreference{SectionID: p.SectionID, Preference: p.Preference}
	}

	if err := h.store.ReplaceSectionPreferences(r.Context(), userID, prefs); err != nil {
		h.respondError(w, r, err, start)
		return
	}

	if err := h.recCache.Invalidate(r.Context(), userID); err != nil {
		h.respondError(w, r, err, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"preferences": prefs}, start)
}

// GetSectionPreferences serves GET /api/v1/users/me/section-preferences.
func (h *Handler) GetSectionPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := userIDFrom(r)

	prefs, err := h.store.GetSectionPreferences(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"preferences": prefs}, start)
}

// Health serves GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("Health check failed")
		respondError(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable", nil, start)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": "healthy"}, start)
}
