// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package config loads and validates the Newsup configuration from
// layered sources: built-in defaults, an optional YAML file, then
// environment variables.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Feed      FeedConfig      `koanf:"feed"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP. Zero
	// disables rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	// Path is the database file. Empty means in-memory.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	SeedMockData bool `koanf:"seed_mock_data"`
}

// CacheConfig configures the Badger-backed ranked-list cache.
type CacheConfig struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	RecommendationTTL time.Duration `koanf:"recommendation_ttl"`
	HighlightTTL      time.Duration `koanf:"highlight_ttl"`
}

// FeedConfig tunes feed resolution and pagination.
type FeedConfig struct {
	// MaxPageSize caps the client-supplied limit parameter. The limit
	// itself is required on every paginated request.
	MaxPageSize int `koanf:"max_page_size"`

	CandidateWindow time.Duration `koanf:"candidate_window"`
	ViewedWindow    time.Duration `koanf:"viewed_window"`
	HighlightTopN   int           `koanf:"highlight_top_n"`
}

// SchedulerConfig configures the daily highlight recompute job.
type SchedulerConfig struct {
	Enabled bool `koanf:"enabled"`

	// ExecutionTimeout bounds a single recompute run.
	ExecutionTimeout time.Duration `koanf:"execution_timeout"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
