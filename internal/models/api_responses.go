// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package models

import "time"

// APIResponse is the standard envelope for all JSON endpoints.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error payload inside an APIResponse.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PaginationInfo describes the cursor state of a returned page.
type PaginationInfo struct {
	Limit      int     `json:"limit"`
	HasNext    bool    `json:"hasNext"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// ArticlesPage is one page of hydrated articles plus its continuation state.
type ArticlesPage struct {
	Articles   []DetailedArticleView `json:"articles"`
	Pagination PaginationInfo        `json:"pagination"`
}
