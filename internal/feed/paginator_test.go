// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package feed

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/newsup-io/newsup/internal/cursor"
	"github.com/newsup-io/newsup/internal/models"
)

// fakeHydrator turns each ID into a minimal view, failing on demand.
type fakeHydrator struct {
	err   error
	calls int
}

func (f *fakeHydrator) GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.DetailedArticleView, len(ids))
	for i, id := range ids {
		out[i] = models.DetailedArticleView{ID: id}
	}
	return out, nil
}

func pageIDs(page models.ArticlesPage) []int64 {
	ids := make([]int64, len(page.Articles))
	for i, a := range page.Articles {
		ids[i] = a.ID
	}
	return ids
}

func TestPage_EmptySourceAtOffsetZero(t *testing.T) {
	t.Parallel()

	p := NewPaginator(&fakeHydrator{})
	_, err := p.Page(context.Background(), []int64{}, 1, 10, "")
	if !errors.Is(err, ErrNoArticlesFound) {
		t.Fatalf("err = %v, want ErrNoArticlesFound", err)
	}
}

func TestPage_CursorContinuation(t *testing.T) {
	t.Parallel()

	ids := []int64{1, 2, 3, 4, 5}
	p := NewPaginator(&fakeHydrator{})
	ctx := context.Background()

	page1, err := p.Page(ctx, ids, 1, 2, "")
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if got := pageIDs(page1); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("page 1 = %v, want [1 2]", got)
	}
	if !page1.Pagination.HasNext || page1.Pagination.NextCursor == nil {
		t.Fatal("page 1 missing continuation cursor")
	}
	if off, err := cursor.Decode(*page1.Pagination.NextCursor); err != nil || off != 2 {
		t.Fatalf("page 1 cursor decodes to (%d, %v), want (2, nil)", off, err)
	}

	page2, err := p.Page(ctx, ids, 1, 2, *page1.Pagination.NextCursor)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if got := pageIDs(page2); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("page 2 = %v, want [3 4]", got)
	}
	if !page2.Pagination.HasNext || page2.Pagination.NextCursor == nil {
		t.Fatal("page 2 missing continuation cursor")
	}

	page3, err := p.Page(ctx, ids, 1, 2, *page2.Pagination.NextCursor)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if got := pageIDs(page3); len(got) != 1 || got[0] != 5 {
		t.Fatalf("page 3 = %v, want [5]", got)
	}
	if page3.Pagination.HasNext || page3.Pagination.NextCursor != nil {
		t.Fatal("page 3 claims a next page past the end")
	}
}

// Walking cursors from the start visits every ID exactly once, in order,
// for any limit.
func TestPage_Exhaustiveness(t *testing.T) {
	t.Parallel()

	source := make([]int64, 37)
	for i := range source {
		source[i] = int64(i + 100)
	}
	p := NewPaginator(&fakeHydrator{})
	ctx := context.Background()

	for _, limit := range []int{1, 2, 5, 36, 37, 100} {
		var walked []int64
		token := ""
		for {
			page, err := p.Page(ctx, source, 1, limit, token)
			if err != nil {
				t.Fatalf("limit %d: %v", limit, err)
			}
			walked = append(walked, pageIDs(page)...)
			if !page.Pagination.HasNext {
				if page.Pagination.NextCursor != nil {
					t.Fatalf("limit %d: hasNext=false with a cursor present", limit)
				}
				break
			}
			token = *page.Pagination.NextCursor
		}
		if len(walked) != len(source) {
			t.Fatalf("limit %d: walked %d ids, want %d", limit, len(walked), len(source))
		}
		for i, id := range source {
			if walked[i] != id {
				t.Fatalf("limit %d: walked[%d] = %d, want %d", limit, i, walked[i], id)
			}
		}
	}
}

func TestPage_MalformedCursor(t *testing.T) {
	t.Parallel()

	hydrator := &fakeHydrator{}
	p := NewPaginator(hydrator)

	_, err := p.Page(context.Background(), []int64{1, 2, 3}, 1, 2, "not-a-cursor")
	if !errors.Is(err, cursor.ErrMalformedCursor) {
		t.Fatalf("err = %v, want ErrMalformedCursor", err)
	}
	if hydrator.calls != 0 {
		t.Fatal("hydrator called despite malformed cursor")
	}
}

// Paginating past the end of a nonempty source is a successful empty page,
// not ErrNoArticlesFound.
func TestPage_OffsetPastEnd(t *testing.T) {
	t.Parallel()

	hydrator := &fakeHydrator{}
	p := NewPaginator(hydrator)

	page, err := p.Page(context.Background(), []int64{1, 2, 3}, 1, 10, cursor.Encode(50))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(page.Articles) != 0 {
		t.Fatalf("articles = %v, want empty", pageIDs(page))
	}
	if page.Pagination.HasNext || page.Pagination.NextCursor != nil {
		t.Fatal("past-the-end page claims a next page")
	}
	if hydrator.calls != 0 {
		t.Fatal("hydrator called for an empty window")
	}
}

func TestPage_HugeOffsetDoesNotWrap(t *testing.T) {
	t.Parallel()

	hydrator := &fakeHydrator{}
	p := NewPaginator(hydrator)

	// offset+limit would overflow int; the page must still read as past
	// the end, not as a continuation.
	page, err := p.Page(context.Background(), []int64{1, 2, 3}, 1, 100, cursor.Encode(math.MaxInt))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(page.Articles) != 0 {
		t.Fatalf("articles = %v, want empty", pageIDs(page))
	}
	if page.Pagination.HasNext || page.Pagination.NextCursor != nil {
		t.Fatal("overflowed offset claims a next page")
	}
	if hydrator.calls != 0 {
		t.Fatal("hydrator called for an empty window")
	}
}

func TestPage_HydrationErrorPropagates(t *testing.T) {
	t.Parallel()

	hydrateErr := errors.New("db down")
	p := NewPaginator(&fakeHydrator{err: hydrateErr})

	_, err := p.Page(context.Background(), []int64{1, 2}, 1, 2, "")
	if !errors.Is(err, hydrateErr) {
		t.Fatalf("err = %v, want wrapped hydration error", err)
	}
}

func TestPage_SinglePageExactFit(t *testing.T) {
	t.Parallel()

	p := NewPaginator(&fakeHydrator{})
	page, err := p.Page(context.Background(), []int64{1, 2, 3}, 1, 3, "")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if got := pageIDs(page); len(got) != 3 {
		t.Fatalf("page = %v, want all three ids", got)
	}
	if page.Pagination.HasNext || page.Pagination.NextCursor != nil {
		t.Fatal("exact-fit page claims a next page")
	}
	if page.Pagination.Limit != 3 {
		t.Fatalf("limit echoed as %d, want 3", page.Pagination.Limit)
	}
}
