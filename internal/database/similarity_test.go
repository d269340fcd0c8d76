// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"context"
	"testing"
	"time"
)

// vec builds an embedding with the given leading components, zero
// padded to the schema's dimensionality.
func vec(leading ...float32) []float32 {
	v := make([]float32, embeddingDim)
	copy(v, leading)
	return v
}

func TestRankBySimilarity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	seedArticles(t, db, 3, time.Now().UTC())

	// User points along the first axis. Article 1 is aligned, article 2
	// at 45 degrees, article 3 orthogonal.
	if err := db.UpsertUserEmbedding(ctx, 1, vec(1)); err != nil {
		t.Fatalf("UpsertUserEmbedding: %v", err)
	}
	for id, e := range map[int64][]float32{
		1: vec(1, 0),
		2: vec(1, 1),
		3: vec(0, 1),
	} {
		if err := db.UpsertArticleEmbedding(ctx, id, e); err != nil {
			t.Fatalf("UpsertArticleEmbedding(%d): %v", id, err)
		}
	}

	ranked, err := db.RankBySimilarity(ctx, 1, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("RankBySimilarity: %v", err)
	}
	want := []int64{1, 2, 3}
	if len(ranked) != len(want) {
		t.Fatalf("ranked = %v, want %v", ranked, want)
	}
	for i := range want {
		if ranked[i] != want[i] {
			t.Fatalf("ranked = %v, want %v", ranked, want)
		}
	}
}

func TestRankBySimilarity_NoUserEmbedding(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	seedArticles(t, db, 2, time.Now().UTC())

	if err := db.UpsertArticleEmbedding(ctx, 1, vec(1)); err != nil {
		t.Fatalf("UpsertArticleEmbedding: %v", err)
	}

	ranked, err := db.RankBySimilarity(ctx, 42, []int64{1, 2})
	if err != nil {
		t.Fatalf("RankBySimilarity: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("ranked = %v, want empty when the user has no embedding", ranked)
	}
}

func TestRankBySimilarity_SubsetWithEmbeddings(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	seedArticles(t, db, 3, time.Now().UTC())

	if err := db.UpsertUserEmbedding(ctx, 1, vec(1)); err != nil {
		t.Fatalf("UpsertUserEmbedding: %v", err)
	}
	// Only article 2 has an embedding.
	if err := db.UpsertArticleEmbedding(ctx, 2, vec(1)); err != nil {
		t.Fatalf("UpsertArticleEmbedding: %v", err)
	}

	ranked, err := db.RankBySimilarity(ctx, 1, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("RankBySimilarity: %v", err)
	}
	if len(ranked) != 1 || ranked[0] != 2 {
		t.Fatalf("ranked = %v, want [2]", ranked)
	}
}

func TestUpsertEmbedding_WrongDimension(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertUserEmbedding(ctx, 1, []float32{1, 2, 3}); err == nil {
		t.Fatal("UpsertUserEmbedding accepted a 3-dim vector")
	}
	if err := db.UpsertArticleEmbedding(ctx, 1, make([]float32, embeddingDim+1)); err == nil {
		t.Fatal("UpsertArticleEmbedding accepted an oversized vector")
	}
}
