// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package feed

import (
	"context"
	"fmt"

	"github.com/newsup-io/newsup/internal/cursor"
	"github.com/newsup-io/newsup/internal/models"
)

// Hydrator expands bare article IDs into detailed views, preserving input
// order. Satisfied by the feed Store.
type Hydrator interface {
	GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error)
}

// Paginator slices an ordered ID list at a cursor offset and hydrates the
// slice into one response page.
type Paginator struct {
	hydrator Hydrator
}

// NewPaginator creates a paginator over the given hydrator.
func NewPaginator(hydrator Hydrator) *Paginator {
	return &Paginator{hydrator: hydrator}
}

// Page returns the window ids[offset : offset+limit) hydrated into detailed
// views, with hasNext/nextCursor describing the remainder.
//
// cursorToken empty means offset zero. A malformed token fails with
// cursor.ErrMalformedCursor. An empty source at offset zero fails with
// ErrNoArticlesFound so callers can distinguish "nothing exists for this
// view" from "paginated past the end" (which is an empty successful page).
//
// limit is a trusted precondition: the HTTP boundary validates 1-100 before
// calling. The paginator does not clamp.
func (p *Paginator) Page(ctx context.Context, ids []int64, userID int64, limit int, cursorToken string) (models.ArticlesPage, error) {
	offset := 0
	if cursorToken != "" {
		var err error
		offset, err = cursor.Decode(cursorToken)
		if err != nil {
			return models.ArticlesPage{}, err
		}
	}

	if len(ids) == 0 && offset == 0 {
		return models.ArticlesPage{}, ErrNoArticlesFound
	}

	// end wraps negative when a crafted cursor puts offset near the top
	// of the int range; treat that the same as past-the-end.
	end := offset + limit
	if end > len(ids) || end < 0 {
		end = len(ids)
	}

	var window []int64
	if offset < len(ids) {
		window = ids[offset:end]
	}

	articles := []models.DetailedArticleView{}
	if len(window) > 0 {
		var err error
		articles, err = p.hydrator.GetDetailedArticles(ctx, userID, window)
		if err != nil {
			return models.ArticlesPage{}, fmt.Errorf("hydrate %d articles: %w", len(window), err)
		}
	}

	hasNext := end < len(ids)
	page := models.ArticlesPage{
		Articles: articles,
		Pagination: models.PaginationInfo{
			Limit:   limit,
			HasNext: hasNext,
		},
	}
	if hasNext {
		token := cursor.Encode(end)
		page.Pagination.NextCursor = &token
	}

	return page, nil
}
