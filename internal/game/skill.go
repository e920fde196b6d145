// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package game

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxSkillNameLength bounds skill names.
const MaxSkillNameLength = 100

// Skill represents a skill that players hold and quests exercise.
// Skills participate in unordered many-to-many links with both.
type Skill struct {
	ID        ulid.ULID
	Name      string
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SkillDetail is the detailed projection of a skill including the names of
// linked players and the titles of linked quests.
type SkillDetail struct {
	Skill   Skill
	Players []*Player
	Quests  []*Quest
}

// NewSkill creates a validated Skill. A non-positive level defaults to 1.
func NewSkill(name string, level int) (*Skill, error) {
	if name == "" {
		return nil, oops.Code("SKILL_INVALID_NAME").
			Errorf("skill name cannot be empty: %w", ErrValidation)
	}
	if len(name) > MaxSkillNameLength {
		return nil, oops.Code("SKILL_INVALID_NAME").
			With("max", MaxSkillNameLength).
			Errorf("skill name must be at most %d characters: %w", MaxSkillNameLength, ErrValidation)
	}
	if level <= 0 {
		level = 1
	}

	now := time.Now().UTC()
	return &Skill{
		ID:        ulid.Make(),
		Name:      name,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SkillRepository manages skill persistence and the association links
// between skills and players/quests. Links are sets: attaching an existing
// pair is a no-op, and link rows vanish with either endpoint.
type SkillRepository interface {
	// Create stores a new skill.
	Create(ctx context.Context, skill *Skill) error

	// Get retrieves a skill by ID.
	Get(ctx context.Context, id ulid.ULID) (*Skill, error)

	// List returns all skills. Order is unspecified.
	List(ctx context.Context) ([]*Skill, error)

	// ListByPlayer returns the skills linked to a player.
	ListByPlayer(ctx context.Context, playerID ulid.ULID) ([]*Skill, error)

	// ListByQuest returns the skills linked to a quest.
	ListByQuest(ctx context.Context, questID ulid.ULID) ([]*Skill, error)

	// ListPlayers returns the players linked to a skill.
	ListPlayers(ctx context.Context, skillID ulid.ULID) ([]*Player, error)

	// ListQuests returns the quests linked to a skill.
	ListQuests(ctx context.Context, skillID ulid.ULID) ([]*Quest, error)

	// Update persists changes to an existing skill.
	Update(ctx context.Context, skill *Skill) error

	// Delete removes a skill and all of its links.
	Delete(ctx context.Context, id ulid.ULID) error

	// AttachToPlayer links a skill to a player.
	AttachToPlayer(ctx context.Context, skillID, playerID ulid.ULID) error

	// DetachFromPlayer removes the link between a skill and a player.
	DetachFromPlayer(ctx context.Context, skillID, playerID ulid.ULID) error

	// AttachToQuest links a skill to a quest.
	AttachToQuest(ctx context.Context, skillID, questID ulid.ULID) error

	// DetachFromQuest removes the link between a skill and a quest.
	DetachFromQuest(ctx context.Context, skillID, questID ulid.ULID) error
}

// Transactor runs a function inside a storage transaction. Repository
// methods invoked with the resulting context participate in the same
// transaction; the transaction commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
