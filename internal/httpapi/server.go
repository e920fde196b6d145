// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/game"
	"github.com/questlog/questlog/internal/observability"
)

// Server serves the QuestLog REST API.
type Server struct {
	addr    string
	game    *game.Service
	auth    *auth.Service
	metrics *observability.Metrics

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an API server. metrics may be nil when the
// observability server is disabled.
func NewServer(addr string, gameSvc *game.Service, authSvc *auth.Service, metrics *observability.Metrics) (*Server, error) {
	if gameSvc == nil {
		return nil, oops.Code("API_SERVER_INVALID").Errorf("game service is required")
	}
	if authSvc == nil {
		return nil, oops.Code("API_SERVER_INVALID").Errorf("auth service is required")
	}
	return &Server{
		addr:    addr,
		game:    gameSvc,
		auth:    authSvc,
		metrics: metrics,
	}, nil
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, s.instrument(pattern, h))
	}
	public := func(pattern string, h http.HandlerFunc) {
		handle(pattern, h)
	}
	authed := func(pattern string, h http.HandlerFunc) {
		handle(pattern, s.withAuth(h))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		handle(pattern, s.withAdmin(h))
	}

	public("POST /auth/register", s.handleRegister)
	public("POST /auth/login", s.handleLogin)
	public("POST /auth/refresh", s.handleRefresh)
	authed("GET /auth/me", s.handleMe)

	authed("GET /api/players", s.handleListPlayers)
	public("POST /api/players", s.handleCreatePlayer)
	authed("GET /api/players/{id}", s.handleGetPlayer)
	authed("PUT /api/players/{id}", s.handleUpdatePlayer)
	authed("DELETE /api/players/{id}", s.handleDeletePlayer)

	authed("GET /api/quests", s.handleListQuests)
	admin("POST /api/quests", s.handleCreateQuest)
	authed("GET /api/quests/{id}", s.handleGetQuest)
	admin("PUT /api/quests/{id}", s.handleUpdateQuest)
	admin("DELETE /api/quests/{id}", s.handleDeleteQuest)

	authed("GET /api/skills", s.handleListSkills)
	admin("POST /api/skills", s.handleCreateSkill)
	authed("GET /api/skills/{id}", s.handleGetSkill)
	admin("PUT /api/skills/{id}", s.handleUpdateSkill)
	admin("DELETE /api/skills/{id}", s.handleDeleteSkill)

	admin("POST /api/skills/{id}/players/{playerID}", s.handleAttachSkillToPlayer)
	admin("DELETE /api/skills/{id}/players/{playerID}", s.handleDetachSkillFromPlayer)
	admin("POST /api/skills/{id}/quests/{questID}", s.handleAttachSkillToQuest)
	admin("DELETE /api/skills/{id}/quests/{questID}", s.handleDetachSkillFromQuest)

	authed("GET /api/progress/{id}", s.handleProgress)

	// Everything else falls through to the fixed 404 body.
	handle("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeRouteNotFound(w)
	}))

	return recoverPanics(mux)
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after startup; the channel is closed when
// the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server, waiting for in-flight
// requests to finish within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty when not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
