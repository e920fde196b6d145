// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"net/http"

	"github.com/questlog/questlog/internal/auth"
)

type registerRequest struct {
	Name      string `json:"name"`
	Password  string `json:"password"`
	ClassName string `json:"class_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, password")
		return
	}

	_, err := s.auth.Register(r.Context(), auth.RegisterInput{
		Name:      req.Name,
		Password:  req.Password,
		ClassName: req.ClassName,
	})
	if err != nil {
		writeDomainError(w, err, "Player")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
	})
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	IsAdmin   bool   `json:"is_admin"`
}

type loginResponse struct {
	Success      bool      `json:"success"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         loginUser `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	player, pair, err := s.auth.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordLogin("failed")
		}
		writeDomainError(w, err, "Player")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordLogin("ok")
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:      true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: loginUser{
			ID:        player.ID.String(),
			Name:      player.Name,
			ClassName: player.ClassName,
			IsAdmin:   player.IsAdmin,
		},
	})
}

// handleRefresh exchanges a refresh token, carried as the bearer token,
// for a fresh access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing Authorization header")
		return
	}

	accessToken, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		writeDomainError(w, err, "User")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

type meUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	IsAdmin   bool   `json:"is_admin"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": meUser{
			ID:        caller.ID.String(),
			Name:      caller.Name,
			ClassName: caller.ClassName,
			Level:     caller.Level,
			XP:        caller.XP,
			IsAdmin:   caller.IsAdmin,
		},
	})
}
