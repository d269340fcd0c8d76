// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type identityKey struct{}

// Identity resolves the calling user from the X-User-ID header set by
// the gateway in front of this service. Requests without a valid header
// are rejected before reaching a handler.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","error":{"code":"UNAUTHENTICATED","message":"missing or invalid X-User-ID header"}}`))
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user ID, or 0 if the
// request did not pass through Identity.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(identityKey{}).(int64); ok {
		return id
	}
	return 0
}
