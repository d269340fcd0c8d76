// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
	"github.com/newsup-io/newsup/internal/ranking"
)

// ErrArticleNotFound indicates an engagement write referenced an
// article that does not exist.
var ErrArticleNotFound = errors.New("article not found")

// GetEngagementSince returns scrap, like, and detail-view counts for
// every article created at or after since. Articles without any
// engagement are included with zero counts so the scorer sees the whole
// batch.
func (db *DB) GetEngagementSince(ctx context.Context, since time.Time) ([]ranking.EngagementCount, error) {
	const query = `
		SELECT a.id,
		       (SELECT COUNT(*) FROM scraps s WHERE s.article_id = a.id) AS scraps,
		       (SELECT COUNT(*) FROM likes l WHERE l.article_id = a.id) AS likes,
		       (SELECT COUNT(*) FROM view_events v WHERE v.article_id = a.id) AS views
		FROM articles a
		WHERE a.created_at >= ?
		ORDER BY a.id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, since)
	metrics.RecordDBQuery("engagement_since", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query engagement counts: %w", err)
	}
	defer rows.Close()

	counts := []ranking.EngagementCount{}
	for rows.Next() {
		var c ranking.EngagementCount
		if err := rows.Scan(&c.ArticleID, &c.Scraps, &c.Likes, &c.DetailViews); err != nil {
			return nil, fmt.Errorf("scan engagement count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ToggleLike flips the user's like on an article, returning the new
// state.
func (db *DB) ToggleLike(ctx context.Context, userID, articleID int64) (bool, error) {
	return db.toggleEngagement(ctx, "likes", "toggle_like", userID, articleID)
}

// ToggleScrap flips the user's scrap on an article, returning the new
// state.
func (db *DB) ToggleScrap(ctx context.Context, userID, articleID int64) (bool, error) {
	return db.toggleEngagement(ctx, "scraps", "toggle_scrap", userID, articleID)
}

func (db *DB) toggleEngagement(ctx context.Context, table, operation string, userID, articleID int64) (bool, error) {
	start := time.Now()
	active, err := db.doToggle(ctx, table, userID, articleID)
	metrics.RecordDBQuery(operation, time.Since(start), err)
	return active, err
}

func (db *DB) doToggle(ctx context.Context, table string, userID, articleID int64) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := articleExists(ctx, tx, articleID); err != nil {
		return false, err
	}

	var exists bool
	checkQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = ? AND article_id = ?)`, table)
	if err := tx.QueryRowContext(ctx, checkQuery, userID, articleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s state: %w", table, err)
	}

	if exists {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND article_id = ?`, table)
		if _, err := tx.ExecContext(ctx, deleteQuery, userID, articleID); err != nil {
			return false, fmt.Errorf("remove %s: %w", table, err)
		}
	} else {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (user_id, article_id) VALUES (?, ?)`, table)
		if _, err := tx.ExecContext(ctx, insertQuery, userID, articleID); err != nil {
			return false, fmt.Errorf("insert %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return !exists, nil
}

// RecordViewEvent appends a detail-view event. Unlike likes and scraps,
// repeated views accumulate.
func (db *DB) RecordViewEvent(ctx context.Context, userID, articleID int64) error {
	start := time.Now()
	err := db.recordView(ctx, userID, articleID)
	metrics.RecordDBQuery("record_view", time.Since(start), err)
	return err
}

func (db *DB) recordView(ctx context.Context, userID, articleID int64) error {
	if err := articleExists(ctx, db.conn, articleID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO view_events (user_id, article_id) VALUES (?, ?)`, userID, articleID)
	if err != nil {
		return fmt.Errorf("insert view event: %w", err)
	}
	return nil
}

// ReplaceSectionPreferences replaces the user's section weights
// wholesale in one transaction.
func (db *DB) ReplaceSectionPreferences(ctx context.Context, userID int64, prefs []models.SectionPreference) error {
	start := time.Now()
	err := db.replacePreferences(ctx, userID, prefs)
	metrics.RecordDBQuery("replace_preferences", time.Since(start), err)
	return err
}

func (db *DB) replacePreferences(ctx context.Context, userID int64, prefs []models.SectionPreference) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preference replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_section_preferences WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	for _, pref := range prefs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_section_preferences (user_id, section_id, preference) VALUES (?, ?, ?)`,
			userID, pref.SectionID, pref.Preference); err != nil {
			return fmt.Errorf("insert preference for section %d: %w", pref.SectionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preference replace: %w", err)
	}
	return nil
}

// GetSectionPreferences returns the user's stored section weights.
func (db *DB) GetSectionPreferences(ctx context.Context, userID int64) ([]models.SectionPreference, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT section_id, preference FROM user_section_preferences WHERE user_id = ? ORDER BY section_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	prefs := []models.SectionPreference{}
	for rows.Next() {
		var p models.SectionPreference
		if err := rows.Scan(&p.SectionID, &p.Preference); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func articleExists(ctx context.Context, q queryRower, articleID int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE id = ?)`, articleID).Scan(&exists); err != nil {
		return fmt.Errorf("check article %d: %w", articleID, err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrArticleNotFound, articleID)
	}
	return nil
}
