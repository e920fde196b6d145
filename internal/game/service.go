// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package game

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service coordinates domain operations across the repositories.
type Service struct {
	players PlayerRepository
	quests  QuestRepository
	skills  SkillRepository
	tx      Transactor
}

// NewService creates a new Service. All dependencies are required.
func NewService(players PlayerRepository, quests QuestRepository, skills SkillRepository, tx Transactor) (*Service, error) {
	if players == nil {
		return nil, oops.Code("GAME_SERVICE_INVALID").Errorf("players repository is required")
	}
	if quests == nil {
		return nil, oops.Code("GAME_SERVICE_INVALID").Errorf("quests repository is required")
	}
	if skills == nil {
		return nil, oops.Code("GAME_SERVICE_INVALID").Errorf("skills repository is required")
	}
	if tx == nil {
		return nil, oops.Code("GAME_SERVICE_INVALID").Errorf("transactor is required")
	}
	return &Service{players: players, quests: quests, skills: skills, tx: tx}, nil
}

// CreatePlayerInput carries the fields accepted at player creation.
type CreatePlayerInput struct {
	Name         string
	ClassName    string
	Level        int
	XP           int
	IsAdmin      bool
	PasswordHash string
}

// UpdatePlayerInput carries a partial player update. Nil fields are left
// unchanged; last write wins at the field level.
type UpdatePlayerInput struct {
	Name      *string
	ClassName *string
	Level     *int
	XP        *int
}

// UpdateQuestInput carries a partial quest update.
type UpdateQuestInput struct {
	Title   *string
	XP      *int
	Summary *string
	OwnerID *ulid.ULID
}

// UpdateSkillInput carries a partial skill update.
type UpdateSkillInput struct {
	Name  *string
	Level *int
}

// CreatePlayer validates and stores a new player. The name must be unique.
func (s *Service) CreatePlayer(ctx context.Context, in CreatePlayerInput) (*Player, error) {
	player, err := NewPlayer(in.Name, in.ClassName, in.IsAdmin, in.PasswordHash)
	if err != nil {
		return nil, err
	}
	if in.Level > 0 {
		player.Level = in.Level
	}
	if in.XP > 0 {
		player.XP = in.XP
	}

	taken, err := s.players.ExistsByName(ctx, player.Name)
	if err != nil {
		return nil, oops.Code("PLAYER_CREATE_FAILED").With("name", player.Name).Wrap(err)
	}
	if taken {
		return nil, oops.Code("PLAYER_NAME_TAKEN").
			With("name", player.Name).
			Errorf("player name %q is already taken: %w", player.Name, ErrConflict)
	}

	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// GetPlayer returns a player by ID.
func (s *Service) GetPlayer(ctx context.Context, id ulid.ULID) (*Player, error) {
	return s.players.Get(ctx, id)
}

// GetPlayerByName returns a player by name (case-insensitive).
func (s *Service) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	return s.players.GetByName(ctx, name)
}

// PlayerDetail returns a player with its skill and quest collections.
func (s *Service) PlayerDetail(ctx context.Context, id ulid.ULID) (*PlayerDetail, error) {
	player, err := s.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	skills, err := s.skills.ListByPlayer(ctx, id)
	if err != nil {
		return nil, oops.Code("PLAYER_DETAIL_FAILED").With("id", id.String()).Wrap(err)
	}
	quests, err := s.quests.ListByOwner(ctx, id)
	if err != nil {
		return nil, oops.Code("PLAYER_DETAIL_FAILED").With("id", id.String()).Wrap(err)
	}
	return &PlayerDetail{Player: *player, Skills: skills, Quests: quests}, nil
}

// ListPlayers returns all players as summary entities.
func (s *Service) ListPlayers(ctx context.Context) ([]*Player, error) {
	return s.players.List(ctx)
}

// UpdatePlayer applies a partial update to a player.
func (s *Service) UpdatePlayer(ctx context.Context, id ulid.ULID, in UpdatePlayerInput) (*Player, error) {
	player, err := s.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != player.Name {
		if err := ValidatePlayerName(*in.Name); err != nil {
			return nil, err
		}
		taken, err := s.players.ExistsByName(ctx, *in.Name)
		if err != nil {
			return nil, oops.Code("PLAYER_UPDATE_FAILED").With("id", id.String()).Wrap(err)
		}
		if taken {
			return nil, oops.Code("PLAYER_NAME_TAKEN").
				With("name", *in.Name).
				Errorf("player name %q is already taken: %w", *in.Name, ErrConflict)
		}
		player.Name = *in.Name
	}
	if in.ClassName != nil {
		player.ClassName = *in.ClassName
	}
	if in.Level != nil {
		player.Level = *in.Level
	}
	if in.XP != nil {
		player.XP = *in.XP
	}
	player.UpdatedAt = time.Now().UTC()

	if err := s.players.Update(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// DeletePlayer removes a player, its skill links, and all quests it owns.
// The whole cascade runs in one transaction: either everything is removed
// or nothing is. Skills shared with the player survive; only the link rows
// go away.
func (s *Service) DeletePlayer(ctx context.Context, id ulid.ULID) error {
	// Probe first so a missing player reports ErrNotFound instead of an
	// empty transaction.
	if _, err := s.players.Get(ctx, id); err != nil {
		return err
	}

	return s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.quests.DeleteByOwner(ctx, id); err != nil {
			return oops.Code("PLAYER_DELETE_FAILED").With("id", id.String()).Wrap(err)
		}
		if err := s.players.Delete(ctx, id); err != nil {
			return oops.Code("PLAYER_DELETE_FAILED").With("id", id.String()).Wrap(err)
		}
		return nil
	})
}

// CreateQuest validates and stores a new quest.
func (s *Service) CreateQuest(ctx context.Context, title string, xp int, summary string, ownerID *ulid.ULID) (*Quest, error) {
	quest, err := NewQuest(title, xp, summary, ownerID)
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		if _, err := s.players.Get(ctx, *ownerID); err != nil {
			return nil, oops.Code("QUEST_INVALID_OWNER").With("owner_id", ownerID.String()).Wrap(err)
		}
	}
	if err := s.quests.Create(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// GetQuest returns a quest by ID.
func (s *Service) GetQuest(ctx context.Context, id ulid.ULID) (*Quest, error) {
	return s.quests.Get(ctx, id)
}

// QuestDetail returns a quest with its skills and owner, when assigned.
func (s *Service) QuestDetail(ctx context.Context, id ulid.ULID) (*QuestDetail, error) {
	quest, err := s.quests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	skills, err := s.skills.ListByQuest(ctx, id)
	if err != nil {
		return nil, oops.Code("QUEST_DETAIL_FAILED").With("id", id.String()).Wrap(err)
	}
	detail := &QuestDetail{Quest: *quest, Skills: skills}
	if quest.OwnerID != nil {
		owner, err := s.players.Get(ctx, *quest.OwnerID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, oops.Code("QUEST_DETAIL_FAILED").With("id", id.String()).Wrap(err)
		}
		detail.Owner = owner
	}
	return detail, nil
}

// ListQuests returns all quests as summary entities.
func (s *Service) ListQuests(ctx context.Context) ([]*Quest, error) {
	return s.quests.List(ctx)
}

// UpdateQuest applies a partial update to a quest.
func (s *Service) UpdateQuest(ctx context.Context, id ulid.ULID, in UpdateQuestInput) (*Quest, error) {
	quest, err := s.quests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, oops.Code("QUEST_INVALID_TITLE").
				Errorf("quest title cannot be empty: %w", ErrValidation)
		}
		quest.Title = *in.Title
	}
	if in.XP != nil {
		if *in.XP < 0 {
			return nil, oops.Code("QUEST_INVALID_XP").
				With("xp", *in.XP).
				Errorf("quest xp cannot be negative: %w", ErrValidation)
		}
		quest.XP = *in.XP
	}
	if in.Summary != nil {
		quest.Summary = *in.Summary
	}
	if in.OwnerID != nil {
		if _, err := s.players.Get(ctx, *in.OwnerID); err != nil {
			return nil, oops.Code("QUEST_INVALID_OWNER").With("owner_id", in.OwnerID.String()).Wrap(err)
		}
		quest.OwnerID = in.OwnerID
	}
	quest.UpdatedAt = time.Now().UTC()

	if err := s.quests.Update(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// DeleteQuest removes a quest and its skill links.
func (s *Service) DeleteQuest(ctx context.Context, id ulid.ULID) error {
	return s.quests.Delete(ctx, id)
}

// CreateSkill validates and stores a new skill.
func (s *Service) CreateSkill(ctx context.Context, name string, level int) (*Skill, error) {
	skill, err := NewSkill(name, level)
	if err != nil {
		return nil, err
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// GetSkill returns a skill by ID.
func (s *Service) GetSkill(ctx context.Context, id ulid.ULID) (*Skill, error) {
	return s.skills.Get(ctx, id)
}

// SkillDetail returns a skill with its linked players and quests.
func (s *Service) SkillDetail(ctx context.Context, id ulid.ULID) (*SkillDetail, error) {
	skill, err := s.skills.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := s.skills.ListPlayers(ctx, id)
	if err != nil {
		return nil, oops.Code("SKILL_DETAIL_FAILED").With("id", id.String()).Wrap(err)
	}
	quests, err := s.skills.ListQuests(ctx, id)
	if err != nil {
		return nil, oops.Code("SKILL_DETAIL_FAILED").With("id", id.String()).Wrap(err)
	}
	return &SkillDetail{Skill: *skill, Players: players, Quests: quests}, nil
}

// ListSkills returns all skills as summary entities.
func (s *Service) ListSkills(ctx context.Context) ([]*Skill, error) {
	return s.skills.List(ctx)
}

// UpdateSkill applies a partial update to a skill.
func (s *Service) UpdateSkill(ctx context.Context, id ulid.ULID, in UpdateSkillInput) (*Skill, error) {
	skill, err := s.skills.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, oops.Code("SKILL_INVALID_NAME").
				Errorf("skill name cannot be empty: %w", ErrValidation)
		}
		skill.Name = *in.Name
	}
	if in.Level != nil {
		if *in.Level <= 0 {
			return nil, oops.Code("SKILL_INVALID_LEVEL").
				With("level", *in.Level).
				Errorf("skill level must be positive: %w", ErrValidation)
		}
		skill.Level = *in.Level
	}
	skill.UpdatedAt = time.Now().UTC()

	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// DeleteSkill removes a skill and all of its links.
func (s *Service) DeleteSkill(ctx context.Context, id ulid.ULID) error {
	return s.skills.Delete(ctx, id)
}

// AttachSkillToPlayer links a skill to a player. Both must exist.
func (s *Service) AttachSkillToPlayer(ctx context.Context, skillID, playerID ulid.ULID) error {
	if _, err := s.skills.Get(ctx, skillID); err != nil {
		return err
	}
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return err
	}
	return s.skills.AttachToPlayer(ctx, skillID, playerID)
}

// AttachSkillToQuest links a skill to a quest. Both must exist.
func (s *Service) AttachSkillToQuest(ctx context.Context, skillID, questID ulid.ULID) error {
	if _, err := s.skills.Get(ctx, skillID); err != nil {
		return err
	}
	if _, err := s.quests.Get(ctx, questID); err != nil {
		return err
	}
	return s.skills.AttachToQuest(ctx, skillID, questID)
}

// DetachSkillFromPlayer removes the link between a skill and a player.
func (s *Service) DetachSkillFromPlayer(ctx context.Context, skillID, playerID ulid.ULID) error {
	if _, err := s.skills.Get(ctx, skillID); err != nil {
		return err
	}
	return s.skills.DetachFromPlayer(ctx, skillID, playerID)
}

// DetachSkillFromQuest removes the link between a skill and a quest.
func (s *Service) DetachSkillFromQuest(ctx context.Context, skillID, questID ulid.ULID) error {
	if _, err := s.skills.Get(ctx, skillID); err != nil {
		return err
	}
	return s.skills.DetachFromQuest(ctx, skillID, questID)
}

// Progress returns a player's progress summary: the number of owned quests
// and the sum of their xp rewards. The sum over zero quests is 0.
func (s *Service) Progress(ctx context.Context, playerID ulid.ULID) (*Progress, error) {
	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	count, totalXP, err := s.quests.OwnerProgress(ctx, playerID)
	if err != nil {
		return nil, oops.Code("PROGRESS_FAILED").With("player_id", playerID.String()).Wrap(err)
	}
	return &Progress{
		PlayerName:  player.Name,
		TotalQuests: count,
		TotalXP:     totalXP,
		Level:       player.Level,
	}, nil
}
