// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package game

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxQuestTitleLength bounds quest titles.
const MaxQuestTitleLength = 150

// Quest represents a quest with an xp reward. A quest may be unassigned;
// OwnerID is nil until the quest is attached to a player.
type Quest struct {
	ID        ulid.ULID
	Title     string
	XP        int
	Summary   string
	OwnerID   *ulid.ULID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuestDetail is the detailed projection of a quest including its skills
// and, when assigned, the owning player's id and name.
type QuestDetail struct {
	Quest  Quest
	Skills []*Skill
	Owner  *Player
}

// NewQuest creates a validated Quest. The owner is optional.
func NewQuest(title string, xp int, summary string, ownerID *ulid.ULID) (*Quest, error) {
	if title == "" {
		return nil, oops.Code("QUEST_INVALID_TITLE").
			Errorf("quest title cannot be empty: %w", ErrValidation)
	}
	if len(title) > MaxQuestTitleLength {
		return nil, oops.Code("QUEST_INVALID_TITLE").
			With("max", MaxQuestTitleLength).
			Errorf("quest title must be at most %d characters: %w", MaxQuestTitleLength, ErrValidation)
	}
	if xp < 0 {
		return nil, oops.Code("QUEST_INVALID_XP").
			With("xp", xp).
			Errorf("quest xp cannot be negative: %w", ErrValidation)
	}

	now := time.Now().UTC()
	return &Quest{
		ID:        ulid.Make(),
		Title:     title,
		XP:        xp,
		Summary:   summary,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Progress summarizes a player's quest completion.
type Progress struct {
	PlayerName  string
	TotalQuests int
	TotalXP     int
	Level       int
}

// QuestRepository manages quest persistence.
type QuestRepository interface {
	// Create stores a new quest.
	Create(ctx context.Context, quest *Quest) error

	// Get retrieves a quest by ID.
	Get(ctx context.Context, id ulid.ULID) (*Quest, error)

	// List returns all quests. Order is unspecified.
	List(ctx context.Context) ([]*Quest, error)

	// ListByOwner returns the quests owned by a player.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Quest, error)

	// Update persists changes to an existing quest.
	Update(ctx context.Context, quest *Quest) error

	// Delete removes a quest and its skill links.
	Delete(ctx context.Context, id ulid.ULID) error

	// DeleteByOwner removes all quests owned by a player, including their
	// skill links. Participates in any transaction carried by ctx.
	DeleteByOwner(ctx context.Context, ownerID ulid.ULID) error

	// OwnerProgress returns the count of quests owned by a player and the
	// sum of their xp rewards. Both are zero for a player with no quests.
	OwnerProgress(ctx context.Context, ownerID ulid.ULID) (count, totalXP int, err error)
}
