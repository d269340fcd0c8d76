// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package database

import (
	"github.com/newsup-io/newsup/internal/feed"
	"github.com/newsup-io/newsup/internal/ranking"
)

// Compile-time checks that *DB satisfies the feed engine contracts.
var (
	_ feed.Store                = (*DB)(nil)
	_ feed.Hydrator             = (*DB)(nil)
	_ ranking.SimilarityBackend = (*DB)(nil)
	_ ranking.EngagementSource  = (*DB)(nil)
)
