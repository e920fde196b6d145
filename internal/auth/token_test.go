// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package auth

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewTokenService(nil, time.Hour)
		assert.Error(t, err)
	})

	t.Run("defaults TTL when non-positive", func(t *testing.T) {
		svc, err := NewTokenService([]byte("secret"), 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultAccessTTL, svc.accessTTL)
	})
}

func TestAccessToken(t *testing.T) {
	svc := newTestTokenService(t)
	playerID := ulid.Make()

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.IssueAccessToken(playerID)
		require.NoError(t, err)

		got, err := svc.VerifyAccess(token)
		require.NoError(t, err)
		assert.Equal(t, playerID, got)
	})

	t.Run("rejected after expiry", func(t *testing.T) {
		token, err := svc.IssueAccessToken(playerID)
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err = svc.VerifyAccess(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejected with wrong secret", func(t *testing.T) {
		other, err := NewTokenService([]byte("other-secret"), time.Hour)
		require.NoError(t, err)

		token, err := other.IssueAccessToken(playerID)
		require.NoError(t, err)

		_, err = svc.VerifyAccess(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := svc.IssueRefreshToken(playerID)
		require.NoError(t, err)

		_, err = svc.VerifyAccess(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.VerifyAccess("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshToken(t *testing.T) {
	svc := newTestTokenService(t)
	playerID := ulid.Make()

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.IssueRefreshToken(playerID)
		require.NoError(t, err)

		got, err := svc.VerifyRefresh(token)
		require.NoError(t, err)
		assert.Equal(t, playerID, got)
	})

	t.Run("does not expire", func(t *testing.T) {
		token, err := svc.IssueRefreshToken(playerID)
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
		defer func() { svc.now = time.Now }()

		got, err := svc.VerifyRefresh(token)
		require.NoError(t, err)
		assert.Equal(t, playerID, got)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		token, err := svc.IssueAccessToken(playerID)
		require.NoError(t, err)

		_, err = svc.VerifyRefresh(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
