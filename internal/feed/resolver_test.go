// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsup-io/newsup/internal/models"
)

// fakeStore implements Store with canned data and call accounting.
type fakeStore struct {
	candidates    []int64
	candidatesErr error
	liked         []int64
	scraped       []int64
	candidateCall int

	lastCreatedAfter time.Time
	lastViewedSince  time.Time

	hydrated map[int64]models.DetailedArticleView
}

func (f *fakeStore) GetCandidateArticleIDs(ctx context.Context, userID int64, createdAfter, viewedSince time.Time) ([]int64, error) {
	f.candidateCall++
	f.lastCreatedAfter = createdAfter
	f.lastViewedSince = viewedSince
	return f.candidates, f.candidatesErr
}

func (f *fakeStore) GetLikedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.liked, nil
}

func (f *fakeStore) GetScrapedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.scraped, nil
}

func (f *fakeStore) GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error) {
	out := make([]models.DetailedArticleView, 0, len(ids))
	for _, id := range ids {
		if v, ok := f.hydrated[id]; ok {
			out = append(out, v)
		} else {
			out = append(out, models.DetailedArticleView{ID: id})
		}
	}
	return out, nil
}

// fakeRanker returns its input reversed, counting calls.
type fakeRanker struct {
	calls int
	err   error
}

func (f *fakeRanker) Rank(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]int64, len(candidateIDs))
	for i, id := range candidateIDs {
		out[len(candidateIDs)-1-i] = id
	}
	return out, nil
}

// fakeScorer returns a fixed ranking.
type fakeScorer struct {
	calls  int
	result models.RankedIDList
	err    error
	since  time.Time
}

func (f *fakeScorer) Recompute(ctx context.Context, since time.Time, topN int) (models.RankedIDList, error) {
	f.calls++
	f.since = since
	return f.result, f.err
}

// fakeRecCache is an in-memory RecommendationCache.
type fakeRecCache struct {
	entries  map[int64]models.RankedIDList
	getErr   error
	setErr   error
	setCalls int
}

func newFakeRecCache() *fakeRecCache {
	return &fakeRecCache{entries: make(map[int64]models.RankedIDList)}
}

func (f *fakeRecCache) Get(ctx context.Context, userID int64) (models.RankedIDList, bool, error) {
	if f.getErr != nil {
		return models.RankedIDList{}, false, f.getErr
	}
	list, ok := f.entries[userID]
	return list, ok, nil
}

func (f *fakeRecCache) Set(ctx context.Context, userID int64, list models.RankedIDList) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[userID] = list
	return nil
}

func (f *fakeRecCache) Invalidate(ctx context.Context, userID int64) error {
	delete(f.entries, userID)
	return nil
}

// fakeHLCache is an in-memory HighlightCache.
type fakeHLCache struct {
	list     models.RankedIDList
	present  bool
	setCalls int
}

func (f *fakeHLCache) Get(ctx context.Context) (models.RankedIDList, bool, error) {
	return f.list, f.present, nil
}

func (f *fakeHLCache) Set(ctx context.Context, list models.RankedIDList) error {
	f.setCalls++
	f.list = list
	f.present = true
	return nil
}

func newTestResolver(store *fakeStore, ranker *fakeRanker, scorer *fakeScorer, rec *fakeRecCache, hl *fakeHLCache) *SourceResolver {
	return NewSourceResolver(store, ranker, scorer, rec, hl, DefaultResolverConfig(), zerolog.Nop())
}

// Cold cache: exactly one ranker call, exactly one cache write, and the
// ranker's output is returned.
func TestResolveRecommended_ColdCache(t *testing.T) {
	t.Parallel()

	store := &fakeStore{candidates: []int64{1, 2, 3}}
	ranker := &fakeRanker{}
	rec := newFakeRecCache()
	r := newTestResolver(store, ranker, &fakeScorer{}, rec, &fakeHLCache{})

	ids, fromCache, err := r.ResolveRecommended(context.Background(), 1)
	if err != nil {
		t.Fatalf("ResolveRecommended: %v", err)
	}
	if fromCache {
		t.Fatal("fromCache = true on a cold cache")
	}
	if ranker.calls != 1 {
		t.Fatalf("ranker called %d times, want exactly 1", ranker.calls)
	}
	if rec.setCalls != 1 {
		t.Fatalf("cache written %d times, want exactly 1", rec.setCalls)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 2 || ids[2] != 1 {
		t.Fatalf("ids = %v, want ranker output [3 2 1]", ids)
	}

	// The cached list matches what was returned.
	cached := rec.entries[1]
	for i := range ids {
		if cached.ArticleIDs[i] != ids[i] {
			t.Fatalf("cached[%d] = %d, want %d", i, cached.ArticleIDs[i], ids[i])
		}
	}
}

func TestResolveRecommended_WarmCacheSkipsRanker(t *testing.T) {
	t.Parallel()

	store := &fakeStore{candidates: []int64{1, 2, 3}}
	ranker := &fakeRanker{}
	rec := newFakeRecCache()
	rec.entries[1] = models.RankedIDList{ArticleIDs: []int64{9, 8}, LastUpdated: time.Now()}
	r := newTestResolver(store, ranker, &fakeScorer{}, rec, &fakeHLCache{})

	ids, fromCache, err := r.ResolveRecommended(context.Background(), 1)
	if err != nil {
		t.Fatalf("ResolveRecommended: %v", err)
	}
	if !fromCache {
		t.Fatal("fromCache = false on a warm cache")
	}
	if ranker.calls != 0 || store.candidateCall != 0 {
		t.Fatalf("warm cache still computed: ranker %d, candidates %d", ranker.calls, store.candidateCall)
	}
	if len(ids) != 2 || ids[0] != 9 {
		t.Fatalf("ids = %v, want cached [9 8]", ids)
	}
}

func TestResolveRecommended_CandidateWindows(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := newTestResolver(store, &fakeRanker{}, &fakeScorer{}, newFakeRecCache(), &fakeHLCache{})

	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	if _, _, err := r.ResolveRecommended(context.Background(), 1); err != nil {
		t.Fatalf("ResolveRecommended: %v", err)
	}

	if want := fixed.Add(-24 * time.Hour); !store.lastCreatedAfter.Equal(want) {
		t.Fatalf("createdAfter = %v, want %v (24h window)", store.lastCreatedAfter, want)
	}
	if want := fixed.Add(-30 * 24 * time.Hour); !store.lastViewedSince.Equal(want) {
		t.Fatalf("viewedSince = %v, want %v (30d window)", store.lastViewedSince, want)
	}
}

func TestResolveRecommended_RankerErrorNotCached(t *testing.T) {
	t.Parallel()

	rankErr := errors.New("backend down")
	rec := newFakeRecCache()
	r := newTestResolver(&fakeStore{candidates: []int64{1}}, &fakeRanker{err: rankErr}, &fakeScorer{}, rec, &fakeHLCache{})

	_, _, err := r.ResolveRecommended(context.Background(), 1)
	if !errors.Is(err, rankErr) {
		t.Fatalf("err = %v, want wrapped ranker error", err)
	}
	if rec.setCalls != 0 {
		t.Fatalf("cache written %d times after ranker failure, want 0", rec.setCalls)
	}
}

func TestResolveRecommended_CacheWriteFailureSurfaces(t *testing.T) {
	t.Parallel()

	setErr := errors.New("store unavailable")
	rec := newFakeRecCache()
	rec.setErr = setErr
	r := newTestResolver(&fakeStore{candidates: []int64{1}}, &fakeRanker{}, &fakeScorer{}, rec, &fakeHLCache{})

	_, _, err := r.ResolveRecommended(context.Background(), 1)
	if !errors.Is(err, setErr) {
		t.Fatalf("err = %v, want surfaced cache write failure", err)
	}
}

func TestResolveLikedScraped_Uncached(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: []int64{4, 2}, scraped: []int64{7}}
	r := newTestResolver(store, &fakeRanker{}, &fakeScorer{}, newFakeRecCache(), &fakeHLCache{})

	liked, err := r.ResolveLiked(context.Background(), 1)
	if err != nil || len(liked) != 2 || liked[0] != 4 {
		t.Fatalf("ResolveLiked = %v, %v; want [4 2]", liked, err)
	}

	scraped, err := r.ResolveScraped(context.Background(), 1)
	if err != nil || len(scraped) != 1 || scraped[0] != 7 {
		t.Fatalf("ResolveScraped = %v, %v; want [7]", scraped, err)
	}
}

func TestResolveHighlighted_MissRecomputesAndCaches(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{result: models.RankedIDList{
		ArticleIDs:  []int64{5, 1, 2},
		LastUpdated: time.Now().UTC(),
	}}
	hl := &fakeHLCache{}
	r := newTestResolver(&fakeStore{}, &fakeRanker{}, scorer, newFakeRecCache(), hl)

	fixed := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	ids, err := r.ResolveHighlighted(context.Background())
	if err != nil {
		t.Fatalf("ResolveHighlighted: %v", err)
	}
	if scorer.calls != 1 || hl.setCalls != 1 {
		t.Fatalf("scorer calls = %d, cache writes = %d; want 1 and 1", scorer.calls, hl.setCalls)
	}
	if len(ids) != 3 || ids[0] != 5 {
		t.Fatalf("ids = %v, want [5 1 2]", ids)
	}
	// The recompute window is anchored at the start of the previous day.
	if want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC); !scorer.since.Equal(want) {
		t.Fatalf("recompute since = %v, want %v", scorer.since, want)
	}
}

func TestResolveHighlighted_HitSkipsRecompute(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{}
	hl := &fakeHLCache{list: models.RankedIDList{ArticleIDs: []int64{3}}, present: true}
	r := newTestResolver(&fakeStore{}, &fakeRanker{}, scorer, newFakeRecCache(), hl)

	ids, err := r.ResolveHighlighted(context.Background())
	if err != nil || len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("ResolveHighlighted = %v, %v; want [3]", ids, err)
	}
	if scorer.calls != 0 {
		t.Fatalf("scorer called %d times on a cache hit, want 0", scorer.calls)
	}
}

// An empty recompute must not be committed to the cache.
func TestResolveHighlighted_EmptyRecomputeNotCached(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{result: models.RankedIDList{ArticleIDs: []int64{}}}
	hl := &fakeHLCache{}
	r := newTestResolver(&fakeStore{}, &fakeRanker{}, scorer, newFakeRecCache(), hl)

	ids, err := r.ResolveHighlighted(context.Background())
	if err != nil {
		t.Fatalf("ResolveHighlighted: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want empty", ids)
	}
	if hl.setCalls != 0 {
		t.Fatalf("empty result written to cache %d times, want 0", hl.setCalls)
	}
}

func TestResolve_DispatchesViews(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: []int64{1}, scraped: []int64{2}, candidates: []int64{3}}
	hl := &fakeHLCache{list: models.RankedIDList{ArticleIDs: []int64{4}}, present: true}
	r := newTestResolver(store, &fakeRanker{}, &fakeScorer{}, newFakeRecCache(), hl)

	tests := []struct {
		view View
		want int64
	}{
		{view: ViewLiked, want: 1},
		{view: ViewScraped, want: 2},
		{view: ViewRecommended, want: 3},
		{view: ViewHighlighted, want: 4},
	}
	for _, tt := range tests {
		ids, _, err := r.Resolve(context.Background(), tt.view, 1)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.view, err)
		}
		if len(ids) != 1 || ids[0] != tt.want {
			t.Fatalf("Resolve(%s) = %v, want [%d]", tt.view, ids, tt.want)
		}
	}

	if _, _, err := r.Resolve(context.Background(), View("bogus"), 1); err == nil {
		t.Fatal("Resolve(bogus) succeeded, want error")
	}
}
