// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/questlog/questlog/internal/game"
)

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.game.ListSkills(r.Context())
	if err != nil {
		writeDomainError(w, err, "Skill")
		return
	}
	writeData(w, http.StatusOK, newSkillSummaries(skills))
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	detail, err := s.game.SkillDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Skill")
		return
	}
	writeData(w, http.StatusOK, newSkillView(detail))
}

type createSkillRequest struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req createSkillRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: name")
		return
	}

	skill, err := s.game.CreateSkill(r.Context(), req.Name, req.Level)
	if err != nil {
		writeDomainError(w, err, "Skill")
		return
	}

	writeData(w, http.StatusCreated, map[string]any{
		"message": "Skill created successfully",
		"id":      skill.ID.String(),
	})
}

type updateSkillRequest struct {
	Name  *string `json:"name"`
	Level *int    `json:"level"`
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}

	if _, err := s.game.GetSkill(r.Context(), id); err != nil {
		writeDomainError(w, err, "Skill")
		return
	}

	var req updateSkillRequest
	if err := decodeJSON(r, &req); err != nil || (req.Name == nil && req.Level == nil) {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if _, err := s.game.UpdateSkill(r.Context(), id, game.UpdateSkillInput{
		Name:  req.Name,
		Level: req.Level,
	}); err != nil {
		writeDomainError(w, err, "Skill")
		return
	}

	detail, err := s.game.SkillDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Skill")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"message": "Skill updated successfully",
		"skill":   newSkillView(detail),
	})
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathULID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	if err := s.game.DeleteSkill(r.Context(), id); err != nil {
		writeDomainError(w, err, "Skill")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Skill deleted successfully"})
}

// linkIDs parses the skill id plus the named counterpart id from the path.
func linkIDs(w http.ResponseWriter, r *http.Request, name string) (skillID, otherID ulid.ULID, ok bool) {
	sid, sok := pathULID(r, "id")
	oid, ook := pathULID(r, name)
	if !sok || !ook {
		writeError(w, http.StatusNotFound, "Resource not found")
		return skillID, otherID, false
	}
	return sid, oid, true
}

func (s *Server) handleAttachSkillToPlayer(w http.ResponseWriter, r *http.Request) {
	skillID, playerID, ok := linkIDs(w, r, "playerID")
	if !ok {
		return
	}
	if err := s.game.AttachSkillToPlayer(r.Context(), skillID, playerID); err != nil {
		writeDomainError(w, err, "Resource")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Skill attached successfully"})
}

func (s *Server) handleDetachSkillFromPlayer(w http.ResponseWriter, r *http.Request) {
	skillID, playerID, ok := linkIDs(w, r, "playerID")
	if !ok {
		return
	}
	if err := s.game.DetachSkillFromPlayer(r.Context(), skillID, playerID); err != nil {
		writeDomainError(w, err, "Resource")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Skill detached successfully"})
}

func (s *Server) handleAttachSkillToQuest(w http.ResponseWriter, r *http.Request) {
	skillID, questID, ok := linkIDs(w, r, "questID")
	if !ok {
		return
	}
	if err := s.game.AttachSkillToQuest(r.Context(), skillID, questID); err != nil {
		writeDomainError(w, err, "Resource")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Skill attached successfully"})
}

func (s *Server) handleDetachSkillFromQuest(w http.ResponseWriter, r *http.Request) {
	skillID, questID, ok := linkIDs(w, r, "questID")
	if !ok {
		return
	}
	if err := s.game.DetachSkillFromQuest(r.Context(), skillID, questID); err != nil {
		writeDomainError(w, err, "Resource")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "Skill detached successfully"})
}
