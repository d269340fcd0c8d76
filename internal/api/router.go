// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newsup-io/newsup/internal/config"
	"github.com/newsup-io/newsup/internal/middleware"
)

// NewRouter assembles the HTTP routing tree around the handler.
func NewRouter(handler *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Cache", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Operational endpoints stay outside identity and rate limiting so
	// monitors are never locked out.
	r.Get("/api/v1/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Identity)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", handler.Articles)
			r.Get("/feed", handler.ArticlesFeed)
			r.Post("/{id}/view", handler.ViewArticle)
			r.Post("/{id}/like", handler.LikeArticle)
			r.Post("/{id}/scrap", handler.ScrapArticle)
		})

		r.Route("/users/me/section-preferences", func(r chi.Router) {
			r.Get("/", handler.GetSectionPreferences)
			r.Put("/", handler.SectionPreferences)
		})
	})

	return r
}
