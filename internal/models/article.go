// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package models

import "time"

// Section is an editorial section an article belongs to.
type Section struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Article is the core article row as stored, without per-user state.
type Article struct {
	ID        int64     `json:"id"`
	SectionID int64     `json:"sectionId"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// DetailedArticleView is the read-only projection served to clients. It joins
// an article's core fields with its section, originating providers, keywords,
// and the requesting user's like/scrap state plus aggregate counts.
//
// This projection is never mutated by the feed engine; like/scrap/view-event
// writes happen through their own endpoints.
type DetailedArticleView struct {
	ID        int64     `json:"id"`
	Section   Section   `json:"section"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`

	Providers []string `json:"providers"`
	Keywords  []string `json:"keywords"`

	IsLiked    bool  `json:"isLiked"`
	IsScraped  bool  `json:"isScraped"`
	LikeCount  int64 `json:"likeCount"`
	ScrapCount int64 `json:"scrapCount"`
}

// RankedIDList is an ordered sequence of article IDs where position encodes
// rank, plus the time the ranking was produced. It is the unit cached under
// both the per-user recommendation key and the global highlight key, and is
// always overwritten wholesale (no partial update).
type RankedIDList struct {
	ArticleIDs  []int64   `json:"articleIds"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SectionPreference is a user's stated weighting for a section.
type SectionPreference struct {
	SectionID  int64 `json:"sectionId"`
	Preference int   `json:"preference"`
}
