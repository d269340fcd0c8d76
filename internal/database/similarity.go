// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/newsup-io/newsup/internal/metrics"
)

// RankBySimilarity orders candidateIDs by cosine similarity between the
// user's embedding and each article's embedding, most similar first.
//
// The result can be a strict subset of the candidates: articles without
// an embedding are absent, and when the user has no embedding at all
// the result is empty. Interpreting an empty result is the caller's
// concern (the similarity ranker falls back to the unranked candidate
// order).
func (db *DB) RankBySimilarity(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error) {
	if len(candidateIDs) == 0 {
		return []int64{}, nil
	}

	placeholders, args := inClause(candidateIDs)

	query := fmt.Sprintf(`
		SELECT ae.article_id
		FROM article_embeddings ae
		JOIN user_embeddings ue ON ue.user_id = ?
		WHERE ae.article_id IN (%s)
		ORDER BY array_cosine_similarity(ae.embedding, ue.embedding) DESC, ae.article_id`,
		placeholders)

	queryArgs := append([]interface{}{userID}, args...)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, queryArgs...)
	metrics.RecordDBQuery("rank_similarity", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("similarity query for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// UpsertUserEmbedding stores or replaces a user's embedding vector.
func (db *DB) UpsertUserEmbedding(ctx context.Context, userID int64, embedding []float32) error {
	if len(embedding) != embeddingDim {
		return fmt.Errorf("user embedding must have %d dimensions, got %d", embeddingDim, len(embedding))
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_embeddings (user_id, embedding, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)`, userID, embedding)
	if err != nil {
		return fmt.Errorf("upsert user embedding: %w", err)
	}
	return nil
}

// UpsertArticleEmbedding stores or replaces an article's embedding
// vector.
func (db *DB) UpsertArticleEmbedding(ctx context.Context, articleID int64, embedding []float32) error {
	if len(embedding) != embeddingDim {
		return fmt.Errorf("article embedding must have %d dimensions, got %d", embeddingDim, len(embedding))
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO article_embeddings (article_id, embedding)
		VALUES (?, ?)`, articleID, embedding)
	if err != nil {
		return fmt.Errorf("upsert article embedding: %w", err)
	}
	return nil
}
