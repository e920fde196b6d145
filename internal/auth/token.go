// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultAccessTTL is the access token lifetime when none is configured.
const DefaultAccessTTL = time.Hour

// Token type claim values.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims carries the JWT claims QuestLog issues and verifies.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
// A non-positive accessTTL falls back to DefaultAccessTTL.
func NewTokenService(secret []byte, accessTTL time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_INVALID_SECRET").Errorf("signing secret cannot be empty")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	return &TokenService{
		secret:    secret,
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// IssueAccessToken signs a short-lived access token for the player.
func (s *TokenService) IssueAccessToken(playerID ulid.ULID) (string, error) {
	now := s.now()
	claims := Claims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_SIGN_FAILED").Wrap(err)
	}

	return signed, nil
}

// IssueRefreshToken signs a refresh token for the player. Refresh tokens
// carry no expiry claim and remain valid until the signing secret rotates.
func (s *TokenService) IssueRefreshToken(playerID ulid.ULID) (string, error) {
	claims := Claims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  playerID.String(),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_SIGN_FAILED").Wrap(err)
	}

	return signed, nil
}

// VerifyAccess parses a token string and returns the subject player ID.
// Any failure, including an expired token, a bad signature, or a refresh
// token presented as an access token, is reported as ErrInvalidToken.
func (s *TokenService) VerifyAccess(tokenString string) (ulid.ULID, error) {
	return s.verify(tokenString, tokenTypeAccess)
}

// VerifyRefresh parses a token string and returns the subject player ID.
// Access tokens are rejected here so a short-lived token cannot mint
// new credentials.
func (s *TokenService) VerifyRefresh(tokenString string) (ulid.ULID, error) {
	return s.verify(tokenString, tokenTypeRefresh)
}

func (s *TokenService) verify(tokenString, wantType string) (ulid.ULID, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, oops.Code("AUTH_INVALID_TOKEN").Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
	}

	if claims.TokenType != wantType {
		return ulid.ULID{}, oops.Code("AUTH_INVALID_TOKEN").
			With("token_type", claims.TokenType).
			Wrap(ErrInvalidToken)
	}

	playerID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
	}

	return playerID, nil
}
