// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/questlog/questlog/internal/game"
)

func (s *Server) handleListQuests(w http.ResponseWriter, r *http.Request) {
	quests, err := s.game.ListQuests(r.Context())
	if err != nil {
		writeDomainError(w, err, "Quest")
		return
	}
	writeData(w, http.StatusOK, newQuestSummaries(quests))
}

func (s *Server) handleGetQuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Quest not found")
		return
	}
	detail, err := s.game.QuestDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Quest")
		return
	}
	writeData(w, http.StatusOK, newQuestView(detail))
}

type createQuestRequest struct {
	Title    string  `json:"title"`
	XP       *int    `json:"xp"`
	Summary  string  `json:"summary"`
	PlayerID *string `json:"player_id"`
}

func (s *Server) handleCreateQuest(w http.ResponseWriter, r *http.Request) {
	var req createQuestRequest
	if err := decodeJSON(r, &req); err != nil || req.Title == "" || req.XP == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: title, xp")
		return
	}

	ownerID, ok := parseOwnerID(req.PlayerID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Player not found")
		return
	}

	quest, err := s.game.CreateQuest(r.Context(), req.Title, *req.XP, req.Summary, ownerID)
	if err != nil {
		// A missing owner is a bad request here, not a missing quest.
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Player not found")
			return
		}
		writeDomainError(w, err, "Quest")
		return
	}

	writeData(w, http.StatusCreated, map[string]any{
		"message": "Quest created successfully",
		"id":      quest.ID.String(),
	})
}

type updateQuestRequest struct {
	Title    *string `json:"title"`
	XP       *int    `json:"xp"`
	Summary  *string `json:"summary"`
	PlayerID *string `json:"player_id"`
}

func (r updateQuestRequest) empty() bool {
	return r.Title == nil && r.XP == nil && r.Summary == nil && r.PlayerID == nil
}

func (s *Server) handleUpdateQuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Quest not found")
		return
	}

	if _, err := s.game.GetQuest(r.Context(), id); err != nil {
		writeDomainError(w, err, "Quest")
		return
	}

	var req updateQuestRequest
	if err := decodeJSON(r, &req); err != nil || req.empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	in := game.UpdateQuestInput{
		Title:   req.Title,
		XP:      req.XP,
		Summary: req.Summary,
	}
	if req.PlayerID != nil {
		ownerID, ok := parseOwnerID(req.PlayerID)
		if !ok {
			writeError(w, http.StatusBadRequest, "Player not found")
			return
		}
		in.OwnerID = ownerID
	}

	if _, err := s.game.UpdateQuest(r.Context(), id, in); err != nil {
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Player not found")
			return
		}
		writeDomainError(w, err, "Quest")
		return
	}

	detail, err := s.game.QuestDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Quest")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"message": "Quest updated successfully",
		"quest":   newQuestView(detail),
	})
}

func (s *Server) handleDeleteQuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Quest not found")
		return
	}
	if err := s.game.DeleteQuest(r.Context(), id); err != nil {
		writeDomainError(w, err, "Quest")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Quest deleted successfully"})
}

// parseOwnerID parses an optional player id from a request. A nil input
// means unassigned.
func parseOwnerID(raw *string) (*ulid.ULID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := ulid.Parse(*raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
