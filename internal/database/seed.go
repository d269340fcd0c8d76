// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"fmt"
	"time"
)

// seedMockData inserts a small deterministic dataset for local
// development. Guarded by database.seed_mock_data; never enabled in
// production.
func (db *DB) seedMockData() error {
	now := time.Now().UTC()

	statements := []struct {
		query string
		args  [][]interface{}
	}{
		{
			query: `INSERT OR IGNORE INTO sections (id, name) VALUES (?, ?)`,
			args: [][]interface{}{
				{1, "politics"}, {2, "economy"}, {3, "technology"}, {4, "culture"},
			},
		},
		{
			query: `INSERT OR IGNORE INTO providers (id, name) VALUES (?, ?)`,
			args: [][]interface{}{
				{1, "The Daily Ledger"}, {2, "Wire Report"}, {3, "Tech Signal"},
			},
		},
		{
			query: `INSERT OR IGNORE INTO users (id, email, nickname) VALUES (?, ?, ?)`,
			args: [][]interface{}{
				{1, "dev@newsup.local", "dev"},
				{2, "reader@newsup.local", "reader"},
			},
		},
		{
			query: `INSERT OR IGNORE INTO articles (id, section_id, title, summary, image_url, language, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			args: [][]interface{}{
				{1, 3, "Chipmakers race to 2nm", "Foundries announce 2nm production timelines.", nil, "en", now.Add(-2 * time.Hour)},
				{2, 2, "Rates hold steady", "The central bank leaves rates unchanged.", nil, "en", now.Add(-4 * time.Hour)},
				{3, 1, "Budget talks stall", "Negotiations over the annual budget pause.", nil, "en", now.Add(-8 * time.Hour)},
				{4, 4, "Festival season opens", "City festivals return with record lineups.", nil, "en", now.Add(-26 * time.Hour)},
			},
		},
		{
			query: `INSERT OR IGNORE INTO article_providers (article_id, provider_id, url) VALUES (?, ?, ?)`,
			args: [][]interface{}{
				{1, 3, "https://techsignal.example/2nm"},
				{2, 1, "https://ledger.example/rates"},
				{2, 2, "https://wire.example/rates-hold"},
				{3, 2, "https://wire.example/budget"},
				{4, 1, "https://ledger.example/festivals"},
			},
		},
		{
			query: `INSERT OR IGNORE INTO article_keywords (article_id, keyword) VALUES (?, ?)`,
			args: [][]interface{}{
				{1, "semiconductors"}, {1, "manufacturing"},
				{2, "interest-rates"}, {2, "central-bank"},
				{3, "budget"}, {4, "festival"},
			},
		},
	}

	for _, stmt := range statements {
		for _, args := range stmt.args {
			if _, err := db.conn.Exec(stmt.query, args...); err != nil {
				return fmt.Errorf("seed statement failed: %w", err)
			}
		}
	}
	return nil
}
