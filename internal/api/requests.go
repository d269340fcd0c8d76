// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/newsup-io/newsup/internal/config"
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/middleware"
	"github.com/newsup-io/newsup/internal/validation"
)

// articlesRequest is the validated query surface of GET /articles.
// Limit bounds are enforced here at the boundary; downstream code
// trusts them. Cursor stays unvalidated here: the codec classifies
// every undecodable token as a malformed cursor, not a field error.
type articlesRequest struct {
	Limit  int `validate:"min=1"`
	Cursor string

	Scraped   bool
	Liked     bool
	Highlight bool

	view feed.View
}

// feedRequest is the validated query surface of GET /articles/feed.
type feedRequest struct {
	Limit  int `validate:"min=1"`
	Cursor string
}

// sectionPreferencesRequest is the body of PUT
// /users/me/section-preferences.
type sectionPreferencesRequest struct {
	Preferences []sectionPreferenceItem `json:"preferences" validate:"required,min=1,max=50,dive"`
}

type sectionPreferenceItem struct {
	SectionID  int64 `json:"sectionId" validate:"min=1"`
	Preference int   `json:"preference" validate:"min=0,max=10"`
}

func parseArticlesRequest(r *http.Request, cfg config.FeedConfig) (*articlesRequest, *validation.RequestValidationError) {
	q := r.URL.Query()

	if q.Get("limit") == "" {
		return nil, limitRequiredError()
	}

	req := &articlesRequest{
		Limit:     intParam(q.Get("limit")),
		Cursor:    q.Get("cursor"),
		Scraped:   boolParam(q.Get("scraped")),
		Liked:     boolParam(q.Get("liked")),
		Highlight: boolParam(q.Get("highlight")),
	}

	selected := 0
	for _, on := range []bool{req.Scraped, req.Liked, req.Highlight} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return nil, selectorConflictError()
	}

	switch {
	case req.Scraped:
		req.view = feed.ViewScraped
	case req.Liked:
		req.view = feed.ViewLiked
	case req.Highlight:
		req.view = feed.ViewHighlighted
	default:
		req.view = feed.ViewRecommended
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	if verr := checkLimitMax(req.Limit, cfg.MaxPageSize); verr != nil {
		return nil, verr
	}
	return req, nil
}

func parseFeedRequest(r *http.Request, cfg config.FeedConfig) (*feedRequest, *validation.RequestValidationError) {
	q := r.URL.Query()

	if q.Get("limit") == "" {
		return nil, limitRequiredError()
	}

	req := &feedRequest{
		Limit:  intParam(q.Get("limit")),
		Cursor: q.Get("cursor"),
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	if verr := checkLimitMax(req.Limit, cfg.MaxPageSize); verr != nil {
		return nil, verr
	}
	return req, nil
}

func parseSectionPreferencesRequest(r *http.Request) (*sectionPreferencesRequest, *validation.RequestValidationError) {
	var req sectionPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, bodyDecodeError(err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

func selectorConflictError() *validation.RequestValidationError {
	return validation.NewFieldError("selector", "mutually_exclusive",
		"scraped, liked, and highlight are mutually exclusive")
}

func limitRequiredError() *validation.RequestValidationError {
	return validation.NewFieldError("limit", "required", "limit is required")
}

// checkLimitMax applies the configured page-size ceiling. It sits
// outside the struct tags because the bound comes from config, not a
// constant.
func checkLimitMax(limit, maxPageSize int) *validation.RequestValidationError {
	if limit > maxPageSize {
		return validation.NewFieldError("limit", "max",
			fmt.Sprintf("limit must be at most %d", maxPageSize))
	}
	return nil
}

func bodyDecodeError(err error) *validation.RequestValidationError {
	return validation.NewFieldError("body", "json", "request body is not valid JSON: "+err.Error())
}

// articleIDParam extracts the {id} route parameter, responding with a
// validation error itself when malformed.
func articleIDParam(w http.ResponseWriter, r *http.Request, start time.Time) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "article id must be a positive integer",
			map[string]any{"field": "id", "value": raw}, start)
		return 0, false
	}
	return id, true
}

// userIDFrom returns the authenticated user set by the identity
// middleware.
func userIDFrom(r *http.Request) int64 {
	return middleware.UserIDFromContext(r.Context())
}

// intParam parses s, mapping a non-numeric value to -1 so validation
// rejects it with the same out-of-range error as a bad number.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func boolParam(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
