// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
)

// GetCandidateArticleIDs returns IDs of articles created after
// createdAfter that the user has not detail-viewed since viewedSince,
// newest first.
func (db *DB) GetCandidateArticleIDs(ctx context.Context, userID int64, createdAfter, viewedSince time.Time) ([]int64, error) {
	const query = `
		SELECT a.id
		FROM articles a
		WHERE a.created_at > ?
		  AND a.id NOT IN (
			SELECT ve.article_id
			FROM view_events ve
			WHERE ve.user_id = ? AND ve.viewed_at > ?
		  )
		ORDER BY a.created_at DESC, a.id DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, createdAfter, userID, viewedSince)
	metrics.RecordDBQuery("candidate_articles", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query candidate articles: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetLikedArticleIDs returns the user's liked article IDs, most recent
// like first.
func (db *DB) GetLikedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return db.engagementIDs(ctx, "likes", "liked_articles", userID)
}

// GetScrapedArticleIDs returns the user's scraped article IDs, most
// recent scrap first.
func (db *DB) GetScrapedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return db.engagementIDs(ctx, "scraps", "scraped_articles", userID)
}

func (db *DB) engagementIDs(ctx context.Context, table, operation string, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT article_id
		FROM %s
		WHERE user_id = ?
		ORDER BY created_at DESC, article_id DESC`, table)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery(operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", operation, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetDetailedArticles hydrates ids into detailed views in the order of
// ids. IDs without a matching article are skipped.
func (db *DB) GetDetailedArticles(ctx context.Context, userID int64, ids []int64) ([]models.DetailedArticleView, error) {
	if len(ids) == 0 {
		return []models.DetailedArticleView{}, nil
	}

	placeholders, args := inClause(ids)

	query := fmt.Sprintf(`
		SELECT a.id, a.title, a.summary, COALESCE(a.image_url, ''), a.language, a.created_at,
		       s.id, s.name,
		       (SELECT COUNT(*) FROM likes l WHERE l.article_id = a.id),
		       (SELECT COUNT(*) FROM scraps sc WHERE sc.article_id = a.id),
		       EXISTS (SELECT 1 FROM likes l WHERE l.article_id = a.id AND l.user_id = ?),
		       EXISTS (SELECT 1 FROM scraps sc WHERE sc.article_id = a.id AND sc.user_id = ?)
		FROM articles a
		JOIN sections s ON s.id = a.section_id
		WHERE a.id IN (%s)`, placeholders)

	queryArgs := append([]interface{}{userID, userID}, args...)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, queryArgs...)
	metrics.RecordDBQuery("detailed_articles", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query detailed articles: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*models.DetailedArticleView, len(ids))
	for rows.Next() {
		var v models.DetailedArticleView
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Summary, &v.ImageURL, &v.Language, &v.CreatedAt,
			&v.Section.ID, &v.Section.Name,
			&v.LikeCount, &v.ScrapCount, &v.IsLiked, &v.IsScraped,
		); err != nil {
			return nil, fmt.Errorf("scan detailed article: %w", err)
		}
		v.Providers = []string{}
		v.Keywords = []string{}
		byID[v.ID] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detailed articles: %w", err)
	}

	if err := db.attachProviders(ctx, placeholders, args, byID); err != nil {
		return nil, err
	}
	if err := db.attachKeywords(ctx, placeholders, args, byID); err != nil {
		return nil, err
	}

	// Reassemble in input order, dropping missing IDs.
	out := make([]models.DetailedArticleView, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (db *DB) attachProviders(ctx context.Context, placeholders string, args []interface{}, byID map[int64]*models.DetailedArticleView) error {
	query := fmt.Sprintf(`
		SELECT ap.article_id, p.name
		FROM article_providers ap
		JOIN providers p ON p.id = ap.provider_id
		WHERE ap.article_id IN (%s)
		ORDER BY ap.article_id, p.name`, placeholders)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query article providers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return fmt.Errorf("scan article provider: %w", err)
		}
		if v, ok := byID[articleID]; ok {
			v.Providers = append(v.Providers, name)
		}
	}
	return rows.Err()
}

func (db *DB) attachKeywords(ctx context.Context, placeholders string, args []interface{}, byID map[int64]*models.DetailedArticleView) error {
	query := fmt.Sprintf(`
		SELECT article_id, keyword
		FROM article_keywords
		WHERE article_id IN (%s)
		ORDER BY article_id, keyword`, placeholders)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query article keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var keyword string
		if err := rows.Scan(&articleID, &keyword); err != nil {
			return fmt.Errorf("scan article keyword: %w", err)
		}
		if v, ok := byID[articleID]; ok {
			v.Keywords = append(v.Keywords, keyword)
		}
	}
	return rows.Err()
}

// FeedRow is one entry of the legacy chronological feed, carrying the
// keyset used to build the continuation cursor.
type FeedRow struct {
	ID        int64
	CreatedAt time.Time
}

// GetFeedPage returns up to limit articles strictly older than the
// (beforeCreatedAt, beforeID) keyset, newest first. A zero
// beforeCreatedAt means the first page.
func (db *DB) GetFeedPage(ctx context.Context, beforeCreatedAt time.Time, beforeID int64, limit int) ([]FeedRow, error) {
	var (
		query string
		args  []interface{}
	)
	if beforeCreatedAt.IsZero() {
		query = `
			SELECT id, created_at FROM articles
			ORDER BY created_at DESC, id DESC
			LIMIT ?`
		args = []interface{}{limit}
	} else {
		query = `
			SELECT id, created_at FROM articles
			WHERE created_at < ? OR (created_at = ? AND id < ?)
			ORDER BY created_at DESC, id DESC
			LIMIT ?`
		args = []interface{}{beforeCreatedAt, beforeCreatedAt, beforeID, limit}
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("feed_page", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query feed page: %w", err)
	}
	defer rows.Close()

	out := make([]FeedRow, 0, limit)
	for rows.Next() {
		var row FeedRow
		if err := rows.Scan(&row.ID, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// scanIDs drains a single-column int64 result set.
func scanIDs(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}

// inClause builds "?, ?, ?" placeholders and the matching args for ids.
func inClause(ids []int64) (string, []interface{}) {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}
