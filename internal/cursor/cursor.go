// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package cursor implements the opaque pagination tokens handed to clients.
//
// Two distinct token schemes live here and must stay distinct:
//
//   - The ranked-list cursor: base64url of {"idx": N}. It addresses an offset
//     into a materialized ranked ID list (recommendations, likes, scraps,
//     highlights).
//   - The legacy feed cursor: base64url of {"createdAt": ISO8601, "id": N}.
//     It addresses a keyset position in a live table scan of the global
//     article feed, tie-broken by ID.
//
// Both round-trip losslessly. Malformed input fails decoding with
// ErrMalformedCursor; tokens are never clamped or guessed.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ErrMalformedCursor indicates a token that could not be decoded. Surfaced to
// clients as a 400; never retried.
var ErrMalformedCursor = errors.New("malformed cursor")

// pageCursor is the wire shape of a ranked-list cursor.
type pageCursor struct {
	Idx int `json:"idx"`
}

// pageCursorProbe mirrors pageCursor with a pointer field so a missing or
// null "idx" is distinguishable from offset zero.
type pageCursorProbe struct {
	Idx *int `json:"idx"`
}

// Encode produces an opaque token for an offset into a ranked ID list.
// Encoding is deterministic and reversible: Decode(Encode(k)) == k.
func Encode(offset int) string {
	data, err := json.Marshal(pageCursor{Idx: offset})
	if err != nil {
		// A struct of one int cannot fail to marshal.
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// Decode parses a ranked-list cursor token back into an offset.
// It fails with ErrMalformedCursor on non-base64 input, non-JSON payloads,
// a missing or non-numeric "idx" field, and negative offsets.
func Decode(token string) (int, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid base64: %w", ErrMalformedCursor, err)
	}

	var probe pageCursorProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("%w: invalid JSON: %w", ErrMalformedCursor, err)
	}
	if probe.Idx == nil {
		return 0, fmt.Errorf("%w: missing idx field", ErrMalformedCursor)
	}
	if *probe.Idx < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrMalformedCursor, *probe.Idx)
	}

	return *probe.Idx, nil
}

// FeedCursor is the keyset position used by the legacy global feed. It pins
// the (createdAt, id) pair of the last row of the previous page.
type FeedCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        int64     `json:"id"`
}

// feedCursorProbe distinguishes absent fields from zero values on decode.
type feedCursorProbe struct {
	CreatedAt *time.Time `json:"createdAt"`
	ID        *int64     `json:"id"`
}

// EncodeFeed produces an opaque token for a legacy feed position.
func EncodeFeed(c FeedCursor) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeFeed parses a legacy feed cursor token. Both fields are required;
// a payload missing either fails with ErrMalformedCursor.
func DecodeFeed(token string) (FeedCursor, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: invalid base64: %w", ErrMalformedCursor, err)
	}

	var probe feedCursorProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return FeedCursor{}, fmt.Errorf("%w: invalid JSON: %w", ErrMalformedCursor, err)
	}
	if probe.CreatedAt == nil {
		return FeedCursor{}, fmt.Errorf("%w: missing createdAt field", ErrMalformedCursor)
	}
	if probe.ID == nil {
		return FeedCursor{}, fmt.Errorf("%w: missing id field", ErrMalformedCursor)
	}

	return FeedCursor{CreatedAt: *probe.CreatedAt, ID: *probe.ID}, nil
}
