// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"fmt"
)

// embeddingDim is the dimensionality of article and user embedding
// vectors. It must match the upstream embedding pipeline.
const embeddingDim = 256

// schemaStatements is applied in order at startup. All statements are
// idempotent.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_view_event_id START 1`,

	`CREATE TABLE IF NOT EXISTS sections (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		email VARCHAR NOT NULL UNIQUE,
		nickname VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS providers (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id BIGINT PRIMARY KEY,
		section_id BIGINT NOT NULL,
		title VARCHAR NOT NULL,
		summary VARCHAR NOT NULL,
		image_url VARCHAR,
		language VARCHAR NOT NULL DEFAULT 'en',
		created_at TIMESTAMP NOT NULL
	)`,

	// One article can be published by multiple providers, each under
	// its own URL.
	`CREATE TABLE IF NOT EXISTS article_providers (
		article_id BIGINT NOT NULL,
		provider_id BIGINT NOT NULL,
		url VARCHAR NOT NULL,
		PRIMARY KEY (article_id, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS article_keywords (
		article_id BIGINT NOT NULL,
		keyword VARCHAR NOT NULL,
		PRIMARY KEY (article_id, keyword)
	)`,

	`CREATE TABLE IF NOT EXISTS likes (
		user_id BIGINT NOT NULL,
		article_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, article_id)
	)`,

	`CREATE TABLE IF NOT EXISTS scraps (
		user_id BIGINT NOT NULL,
		article_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, article_id)
	)`,

	// Detail views are append-only events, not toggles.
	`CREATE TABLE IF NOT EXISTS view_events (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_view_event_id'),
		user_id BIGINT NOT NULL,
		article_id BIGINT NOT NULL,
		viewed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS user_section_preferences (
		user_id BIGINT NOT NULL,
		section_id BIGINT NOT NULL,
		preference INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, section_id)
	)`,

	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS article_embeddings (
		article_id BIGINT PRIMARY KEY,
		embedding FLOAT[%d] NOT NULL
	)`, embeddingDim),

	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_embeddings (
		user_id BIGINT PRIMARY KEY,
		embedding FLOAT[%d] NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, embeddingDim),
}

func (db *DB) initialize() error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
