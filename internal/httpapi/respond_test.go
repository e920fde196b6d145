// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/game"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        oops.Code("X").Wrap(game.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "Player not found",
		},
		{
			name:       "conflict",
			err:        oops.Code("X").Wrap(game.ErrConflict),
			wantStatus: http.StatusBadRequest,
			wantError:  "Username already exists",
		},
		{
			name:       "invalid credentials",
			err:        oops.Code("X").Wrap(auth.ErrInvalidCredentials),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "invalid token",
			err:        oops.Code("X").Wrap(auth.ErrInvalidToken),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid or expired token",
		},
		{
			name:       "forbidden",
			err:        oops.Code("X").Wrap(auth.ErrForbidden),
			wantStatus: http.StatusForbidden,
			wantError:  "Admin privileges required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err, "Player")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}

	t.Run("validation passes through the message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeDomainError(rec, oops.Errorf("quest xp cannot be negative: %w", game.ErrValidation), "Quest")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "quest xp cannot be negative")
		assert.NotContains(t, rec.Body.String(), "validation failed")
	})

	t.Run("bare validation sentinel gets a generic message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeDomainError(rec, game.ErrValidation, "Quest")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid input")
	})

	t.Run("unknown errors reduce to the fixed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeDomainError(rec, errors.New("pool exhausted"), "Player")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "pool exhausted")
	})
}
