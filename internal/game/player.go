// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package game

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Player name constraints.
const (
	MinPlayerNameLength = 1
	MaxPlayerNameLength = 100
	MaxClassNameLength  = 50
)

// DefaultClassName is assigned when registration omits a class.
const DefaultClassName = "Adventurer"

// Player represents a player account. The name is globally unique.
type Player struct {
	ID           ulid.ULID
	Name         string
	ClassName    string
	Level        int
	XP           int
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlayerDetail is the detailed projection of a player including its
// skill and quest collections. Summary projections omit the collections.
type PlayerDetail struct {
	Player Player
	Skills []*Skill
	Quests []*Quest
}

// NewPlayer creates a validated Player. The password hash may be empty for
// accounts created without credentials; such accounts cannot log in until a
// password is set.
func NewPlayer(name, className string, isAdmin bool, passwordHash string) (*Player, error) {
	if className == "" {
		className = DefaultClassName
	}
	if err := ValidatePlayerName(name); err != nil {
		return nil, err
	}
	if len(className) > MaxClassNameLength {
		return nil, oops.Code("PLAYER_INVALID_CLASS").
			With("max", MaxClassNameLength).
			Errorf("player class name must be at most %d characters: %w", MaxClassNameLength, ErrValidation)
	}

	now := time.Now().UTC()
	return &Player{
		ID:           ulid.Make(),
		Name:         name,
		ClassName:    className,
		Level:        1,
		XP:           0,
		IsAdmin:      isAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidatePlayerName validates a player name against rules.
func ValidatePlayerName(name string) error {
	if name == "" {
		return oops.Code("PLAYER_INVALID_NAME").
			Errorf("player name cannot be empty: %w", ErrValidation)
	}
	if len(name) > MaxPlayerNameLength {
		return oops.Code("PLAYER_INVALID_NAME").
			With("max", MaxPlayerNameLength).
			Errorf("player name must be at most %d characters: %w", MaxPlayerNameLength, ErrValidation)
	}
	return nil
}

// PlayerRepository manages player persistence.
type PlayerRepository interface {
	// Create stores a new player. Returns ErrConflict if the name is taken.
	Create(ctx context.Context, player *Player) error

	// Get retrieves a player by ID.
	Get(ctx context.Context, id ulid.ULID) (*Player, error)

	// GetByName retrieves a player by name (case-insensitive).
	GetByName(ctx context.Context, name string) (*Player, error)

	// List returns all players. Order is unspecified.
	List(ctx context.Context) ([]*Player, error)

	// Update persists changes to an existing player.
	Update(ctx context.Context, player *Player) error

	// Delete removes a player and its skill links. Owned quests are the
	// caller's responsibility; Service.DeletePlayer removes them in the
	// same transaction.
	Delete(ctx context.Context, id ulid.ULID) error

	// ExistsByName checks if a player with the given name exists
	// (case-insensitive).
	ExistsByName(ctx context.Context, name string) (bool, error)
}
