// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"net/http"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/game"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.game.ListPlayers(r.Context())
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}
	writeData(w, http.StatusOK, newPlayerSummaries(players))
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	detail, err := s.game.PlayerDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}
	writeData(w, http.StatusOK, newPlayerView(detail))
}

type createPlayerRequest struct {
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	Password  string `json:"password"`
}

// handleCreatePlayer is the registration-style public endpoint. Accounts
// created without a password cannot log in until one is set.
func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.ClassName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, class_name")
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = s.auth.HashPassword(req.Password)
		if err != nil {
			writeDomainError(w, err, "Player")
			return
		}
	}

	player, err := s.game.CreatePlayer(r.Context(), game.CreatePlayerInput{
		Name:         req.Name,
		ClassName:    req.ClassName,
		Level:        req.Level,
		XP:           req.XP,
		PasswordHash: hash,
	})
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	writeData(w, http.StatusCreated, map[string]any{
		"message": "Player created successfully",
		"id":      player.ID.String(),
	})
}

type updatePlayerRequest struct {
	Name      *string `json:"name"`
	ClassName *string `json:"class_name"`
	Level     *int    `json:"level"`
	XP        *int    `json:"xp"`
}

func (r updatePlayerRequest) empty() bool {
	return r.Name == nil && r.ClassName == nil && r.Level == nil && r.XP == nil
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}

	target, err := s.game.GetPlayer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	caller, _ := callerFromContext(r.Context())
	decision := auth.Authorize(
		auth.Caller{ID: caller.ID, IsAdmin: caller.IsAdmin},
		target.ID,
		auth.ActionUpdate,
	)
	if decision != auth.Allow {
		writeError(w, http.StatusForbidden, "You are not authorized to update this player")
		return
	}

	var req updatePlayerRequest
	if err := decodeJSON(r, &req); err != nil || req.empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if _, err := s.game.UpdatePlayer(r.Context(), id, game.UpdatePlayerInput{
		Name:      req.Name,
		ClassName: req.ClassName,
		Level:     req.Level,
		XP:        req.XP,
	}); err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	detail, err := s.game.PlayerDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"message": "Player updated successfully",
		"player":  newPlayerView(detail),
	})
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}

	target, err := s.game.GetPlayer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	caller, _ := callerFromContext(r.Context())
	decision := auth.Authorize(
		auth.Caller{ID: caller.ID, IsAdmin: caller.IsAdmin},
		target.ID,
		auth.ActionDelete,
	)
	if decision != auth.Allow {
		writeError(w, http.StatusForbidden, "You are not authorized to delete this player")
		return
	}

	if err := s.game.DeletePlayer(r.Context(), id); err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"message": "Player deleted successfully"})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	progress, err := s.game.Progress(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}
	writeData(w, http.StatusOK, newProgressView(progress))
}
