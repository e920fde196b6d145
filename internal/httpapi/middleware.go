// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/game"
)

type callerKey struct{}

// contextWithCaller stores the authenticated player in the context.
func contextWithCaller(ctx context.Context, player *game.Player) context.Context {
	return context.WithValue(ctx, callerKey{}, player)
}

// callerFromContext returns the authenticated player, if any.
func callerFromContext(ctx context.Context) (*game.Player, bool) {
	player, ok := ctx.Value(callerKey{}).(*game.Player)
	return player, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// withAuth resolves the bearer token to a player and stores it in the
// request context. A deleted account fails with 404 even when the token
// is still valid.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}
		player, err := s.auth.Identify(r.Context(), token)
		if err != nil {
			// A valid token for a deleted account maps to 404 here.
			writeDomainError(w, err, "User")
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithCaller(r.Context(), player)))
	})
}

// withAdmin is withAuth plus the admin gate for mutating routes.
func (s *Server) withAdmin(next http.HandlerFunc) http.Handler {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := callerFromContext(r.Context())
		decision := auth.Authorize(
			auth.Caller{ID: caller.ID, IsAdmin: caller.IsAdmin},
			ulid.ULID{},
			actionForMethod(r.Method),
		)
		if decision != auth.Allow {
			writeError(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next(w, r)
	})
}

func actionForMethod(method string) auth.Action {
	switch method {
	case http.MethodPost:
		return auth.ActionCreate
	case http.MethodPut:
		return auth.ActionUpdate
	case http.MethodDelete:
		return auth.ActionDelete
	default:
		return auth.ActionRead
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request logging and, when metrics are
// configured, the request counter and latency histogram. The route label
// is the registered pattern, not the raw URL, so label cardinality stays
// bounded.
func (s *Server) instrument(pattern string, next http.Handler) http.Handler {
	route := pattern
	if _, rest, found := strings.Cut(pattern, " "); found {
		route = rest
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.RecordRequest(r.Method, route, strconv.Itoa(rec.status), elapsed)
		}
		slog.LogAttrs(r.Context(), slog.LevelInfo, "request handled",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", rec.status),
			slog.Duration("duration", elapsed),
		)
	})
}

// recoverPanics converts handler panics into the fixed 500 body.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				slog.Error("panic in handler",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
