// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package cachestore holds the ranked-ID-list caches on top of BadgerDB.
//
// The store owns the serialized bytes; this package owns the interpretation:
// key formats, payload schema, and TTL policy. Expiry is enforced by the
// store itself (badger entry TTL), never by application-side timestamp
// checks. Values are JSON of the form
//
//	{"articleIds": [int...], "lastUpdated": ISO8601}
//
// and are validated on read: a payload that does not match the schema fails
// explicitly instead of being treated as a miss.
package cachestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/newsup-io/newsup/internal/metrics"
	"github.com/newsup-io/newsup/internal/models"
)

// ErrCacheStore indicates the cache backend failed on read or write. It is
// propagated to the caller, never swallowed into a silent cache miss: a
// failed write must not silently serve stale-forever data.
var ErrCacheStore = errors.New("cache store failure")

// Store wraps a badger database with the ranked-list payload codec. The
// *badger.DB lifecycle (open/close) is owned by the process entry point,
// not by this type.
type Store struct {
	db *badger.DB
}

// New wraps an already-open badger database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Open opens a badger database at path with logging routed away from
// badger's default stderr logger. inMemory is used by tests.
func Open(path string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(nil)
	if inMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	return db, nil
}

// cachedListProbe mirrors the payload with pointer fields so schema drift
// (missing or renamed fields) is detected on read.
type cachedListProbe struct {
	ArticleIDs  *[]int64   `json:"articleIds"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// GetList reads and decodes the ranked list stored under key. A missing or
// expired key returns found=false with no error; backend failures and
// payloads that fail schema validation return a wrapped ErrCacheStore.
func (s *Store) GetList(key string) (models.RankedIDList, bool, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.RankedIDList{}, false, nil
	}
	if err != nil {
		metrics.CacheStoreErrors.WithLabelValues("get").Inc()
		return models.RankedIDList{}, false, fmt.Errorf("%w: get %q: %w", ErrCacheStore, key, err)
	}

	var probe cachedListProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		metrics.CacheStoreErrors.WithLabelValues("get").Inc()
		return models.RankedIDList{}, false, fmt.Errorf("%w: decode %q: %w", ErrCacheStore, key, err)
	}
	if probe.ArticleIDs == nil || probe.LastUpdated == nil {
		metrics.CacheStoreErrors.WithLabelValues("get").Inc()
		return models.RankedIDList{}, false, fmt.Errorf("%w: decode %q: payload does not match ranked-list schema", ErrCacheStore, key)
	}

	return models.RankedIDList{
		ArticleIDs:  *probe.ArticleIDs,
		LastUpdated: *probe.LastUpdated,
	}, true, nil
}

// SetList overwrites the list under key wholesale with the given TTL.
func (s *Store) SetList(key string, list models.RankedIDList, ttl time.Duration) error {
	if list.ArticleIDs == nil {
		list.ArticleIDs = []int64{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrCacheStore, key, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		metrics.CacheStoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%w: set %q: %w", ErrCacheStore, key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		metrics.CacheStoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("%w: delete %q: %w", ErrCacheStore, key, err)
	}
	return nil
}
