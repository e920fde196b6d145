// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/questlog/questlog/internal/game"
)

// PlayerStore is the slice of the player repository the auth service needs.
type PlayerStore interface {
	Create(ctx context.Context, player *game.Player) error
	Get(ctx context.Context, id ulid.ULID) (*game.Player, error)
	GetByName(ctx context.Context, name string) (*game.Player, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// Service handles player registration, login, and token refresh.
type Service struct {
	players PlayerStore
	hasher  PasswordHasher
	tokens  *TokenService

	// dummyHash is verified against when login targets an unknown
	// player, so lookups and misses take comparable time.
	dummyHash string
}

// NewService creates an auth service.
func NewService(players PlayerStore, hasher PasswordHasher, tokens *TokenService) (*Service, error) {
	if players == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("player store cannot be nil")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher cannot be nil")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token service cannot be nil")
	}

	dummyHash, err := hasher.Hash("questlog-dummy-password")
	if err != nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Wrap(err)
	}

	return &Service{
		players:   players,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
	}, nil
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name      string
	Password  string
	ClassName string
}

// Register creates a new player account with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*game.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, oops.Code("AUTH_REGISTER_INVALID").
			Wrapf(game.ErrValidation, "name is required")
	}
	if input.Password == "" {
		return nil, oops.Code("AUTH_REGISTER_INVALID").
			Wrapf(game.ErrValidation, "password is required")
	}

	exists, err := s.players.ExistsByName(ctx, name)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("name", name).Wrap(err)
	}
	if exists {
		return nil, oops.Code("AUTH_NAME_TAKEN").With("name", name).
			Wrapf(game.ErrConflict, "player name %q is already taken", name)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").Wrap(err)
	}

	player, err := game.NewPlayer(name, input.ClassName, false, hash)
	if err != nil {
		return nil, err
	}

	if err := s.players.Create(ctx, player); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("name", name).Wrap(err)
	}

	return player, nil
}

// HashPassword hashes a plaintext password for storage. Used when an
// account is created outside the registration flow.
func (s *Service) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials and issues an access and refresh token pair.
func (s *Service) Login(ctx context.Context, name, password string) (*game.Player, TokenPair, error) {
	player, err := s.players.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			// Burn a hash verification so unknown names are not
			// distinguishable by response time.
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, TokenPair{}, oops.Code("AUTH_LOGIN_FAILED").
				Wrap(ErrInvalidCredentials)
		}
		return nil, TokenPair{}, oops.Code("AUTH_LOGIN_FAILED").Wrap(err)
	}

	ok, err := s.hasher.Verify(password, player.PasswordHash)
	if err != nil || !ok {
		return nil, TokenPair{}, oops.Code("AUTH_LOGIN_FAILED").
			Wrap(ErrInvalidCredentials)
	}

	access, err := s.tokens.IssueAccessToken(player.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(player.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return player, TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	playerID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	// The account may have been deleted since the token was issued.
	if _, err := s.players.Get(ctx, playerID); err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return "", oops.Code("AUTH_REFRESH_FAILED").Wrap(ErrInvalidToken)
		}
		return "", oops.Code("AUTH_REFRESH_FAILED").Wrap(err)
	}

	return s.tokens.IssueAccessToken(playerID)
}

// Identify resolves an access token to the player it was issued for.
func (s *Service) Identify(ctx context.Context, accessToken string) (*game.Player, error) {
	playerID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	// An account deleted after the token was issued surfaces as not found,
	// not as a bad token.
	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, oops.Code("AUTH_IDENTIFY_FAILED").Wrap(err)
	}

	return player, nil
}
