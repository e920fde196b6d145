// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

// Package memory provides in-memory implementations of the game
// repositories for testing and lightweight deployments. Data is lost
// when the process restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/questlog/questlog/internal/game"
)

// link is a join-table row keyed on both sides.
type link struct {
	left  ulid.ULID // player or quest
	right ulid.ULID // skill
}

// Store holds all game entities in memory. The repository and transactor
// views returned by Players, Quests, Skills, and Transactor share its
// state and lock.
type Store struct {
	mu           sync.RWMutex
	players      map[ulid.ULID]game.Player
	quests       map[ulid.ULID]game.Quest
	skills       map[ulid.ULID]game.Skill
	playerSkills map[link]struct{}
	questSkills  map[link]struct{}
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		players:      make(map[ulid.ULID]game.Player),
		quests:       make(map[ulid.ULID]game.Quest),
		skills:       make(map[ulid.ULID]game.Skill),
		playerSkills: make(map[link]struct{}),
		questSkills:  make(map[link]struct{}),
	}
}

// Players returns the player repository view of the store.
func (s *Store) Players() *PlayerRepository { return &PlayerRepository{store: s} }

// Quests returns the quest repository view of the store.
func (s *Store) Quests() *QuestRepository { return &QuestRepository{store: s} }

// Skills returns the skill repository view of the store.
func (s *Store) Skills() *SkillRepository { return &SkillRepository{store: s} }

// Transactor returns a game.Transactor over the store. In-memory
// operations apply immediately, so it only serializes fn against other
// writers; a failed fn does not roll back.
func (s *Store) Transactor() *Transactor { return &Transactor{} }

// Transactor trivially satisfies game.Transactor for in-memory use.
type Transactor struct{}

// InTransaction calls fn with the unmodified context.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// PlayerRepository implements game.PlayerRepository in memory.
type PlayerRepository struct {
	store *Store
}

// Create stores a new player.
func (r *PlayerRepository) Create(_ context.Context, player *game.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.players {
		if strings.EqualFold(p.Name, player.Name) {
			return oops.Code("PLAYER_NAME_TAKEN").With("name", player.Name).Wrap(game.ErrConflict)
		}
	}
	r.store.players[player.ID] = *player
	return nil
}

// Get retrieves a player by ID.
func (r *PlayerRepository) Get(_ context.Context, id ulid.ULID) (*game.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[id]
	if !ok {
		return nil, oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return &p, nil
}

// GetByName retrieves a player by name, matched case-insensitively.
func (r *PlayerRepository) GetByName(_ context.Context, name string) (*game.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.players {
		if strings.EqualFold(p.Name, name) {
			player := p
			return &player, nil
		}
	}
	return nil, oops.Code("PLAYER_NOT_FOUND").With("name", name).Wrap(game.ErrNotFound)
}

// List returns all players sorted by name.
func (r *PlayerRepository) List(_ context.Context) ([]*game.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	players := make([]*game.Player, 0, len(r.store.players))
	for _, p := range r.store.players {
		player := p
		players = append(players, &player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

// Update persists changes to an existing player.
func (r *PlayerRepository) Update(_ context.Context, player *game.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[player.ID]; !ok {
		return oops.Code("PLAYER_NOT_FOUND").With("id", player.ID.String()).Wrap(game.ErrNotFound)
	}
	for id, p := range r.store.players {
		if id != player.ID && strings.EqualFold(p.Name, player.Name) {
			return oops.Code("PLAYER_NAME_TAKEN").With("name", player.Name).Wrap(game.ErrConflict)
		}
	}
	r.store.players[player.ID] = *player
	return nil
}

// Delete removes a player and its skill links.
func (r *PlayerRepository) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[id]; !ok {
		return oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	delete(r.store.players, id)
	for l := range r.store.playerSkills {
		if l.left == id {
			delete(r.store.playerSkills, l)
		}
	}
	return nil
}

// ExistsByName checks if a player with the given name exists.
func (r *PlayerRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.players {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// QuestRepository implements game.QuestRepository in memory.
type QuestRepository struct {
	store *Store
}

// Create stores a new quest.
func (r *QuestRepository) Create(_ context.Context, quest *game.Quest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.quests[quest.ID] = *quest
	return nil
}

// Get retrieves a quest by ID.
func (r *QuestRepository) Get(_ context.Context, id ulid.ULID) (*game.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q, ok := r.store.quests[id]
	if !ok {
		return nil, oops.Code("QUEST_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return &q, nil
}

// List returns all quests sorted by title.
func (r *QuestRepository) List(_ context.Context) ([]*game.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	quests := make([]*game.Quest, 0, len(r.store.quests))
	for _, q := range r.store.quests {
		quest := q
		quests = append(quests, &quest)
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].Title < quests[j].Title })
	return quests, nil
}

// ListByOwner returns the quests owned by a player, sorted by title.
func (r *QuestRepository) ListByOwner(_ context.Context, ownerID ulid.ULID) ([]*game.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	quests := make([]*game.Quest, 0)
	for _, q := range r.store.quests {
		if q.OwnerID != nil && *q.OwnerID == ownerID {
			quest := q
			quests = append(quests, &quest)
		}
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].Title < quests[j].Title })
	return quests, nil
}

// Update persists changes to an existing quest.
func (r *QuestRepository) Update(_ context.Context, quest *game.Quest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.quests[quest.ID]; !ok {
		return oops.Code("QUEST_NOT_FOUND").With("id", quest.ID.String()).Wrap(game.ErrNotFound)
	}
	r.store.quests[quest.ID] = *quest
	return nil
}

// Delete removes a quest and its skill links.
func (r *QuestRepository) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.quests[id]; !ok {
		return oops.Code("QUEST_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	r.deleteLocked(id)
	return nil
}

// DeleteByOwner removes all quests owned by a player, including their
// skill links. Zero quests is not an error.
func (r *QuestRepository) DeleteByOwner(_ context.Context, ownerID ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, q := range r.store.quests {
		if q.OwnerID != nil && *q.OwnerID == ownerID {
			r.deleteLocked(id)
		}
	}
	return nil
}

// deleteLocked removes a quest and its links. Caller holds the write lock.
func (r *QuestRepository) deleteLocked(id ulid.ULID) {
	delete(r.store.quests, id)
	for l := range r.store.questSkills {
		if l.left == id {
			delete(r.store.questSkills, l)
		}
	}
}

// OwnerProgress returns the count of quests owned by a player and the sum
// of their xp rewards.
func (r *QuestRepository) OwnerProgress(_ context.Context, ownerID ulid.ULID) (count, totalXP int, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, q := range r.store.quests {
		if q.OwnerID != nil && *q.OwnerID == ownerID {
			count++
			totalXP += q.XP
		}
	}
	return count, totalXP, nil
}

// SkillRepository implements game.SkillRepository in memory.
type SkillRepository struct {
	store *Store
}

// Create stores a new skill.
func (r *SkillRepository) Create(_ context.Context, skill *game.Skill) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.skills[skill.ID] = *skill
	return nil
}

// Get retrieves a skill by ID.
func (r *SkillRepository) Get(_ context.Context, id ulid.ULID) (*game.Skill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.skills[id]
	if !ok {
		return nil, oops.Code("SKILL_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return &s, nil
}

// List returns all skills sorted by name.
func (r *SkillRepository) List(_ context.Context) ([]*game.Skill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	skills := make([]*game.Skill, 0, len(r.store.skills))
	for _, s := range r.store.skills {
		skill := s
		skills = append(skills, &skill)
	}
	sortSkills(skills)
	return skills, nil
}

// ListByPlayer returns the skills linked to a player, sorted by name.
func (r *SkillRepository) ListByPlayer(_ context.Context, playerID ulid.ULID) ([]*game.Skill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	skills := make([]*game.Skill, 0)
	for l := range r.store.playerSkills {
		if l.left != playerID {
			continue
		}
		if s, ok := r.store.skills[l.right]; ok {
			skill := s
			skills = append(skills, &skill)
		}
	}
	sortSkills(skills)
	return skills, nil
}

// ListByQuest returns the skills linked to a quest, sorted by name.
func (r *SkillRepository) ListByQuest(_ context.Context, questID ulid.ULID) ([]*game.Skill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	skills := make([]*game.Skill, 0)
	for l := range r.store.questSkills {
		if l.left != questID {
			continue
		}
		if s, ok := r.store.skills[l.right]; ok {
			skill := s
			skills = append(skills, &skill)
		}
	}
	sortSkills(skills)
	return skills, nil
}

// ListPlayers returns the players linked to a skill, sorted by name.
func (r *SkillRepository) ListPlayers(_ context.Context, skillID ulid.ULID) ([]*game.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	players := make([]*game.Player, 0)
	for l := range r.store.playerSkills {
		if l.right != skillID {
			continue
		}
		if p, ok := r.store.players[l.left]; ok {
			player := p
			players = append(players, &player)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

// ListQuests returns the quests linked to a skill, sorted by title.
func (r *SkillRepository) ListQuests(_ context.Context, skillID ulid.ULID) ([]*game.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	quests := make([]*game.Quest, 0)
	for l := range r.store.questSkills {
		if l.right != skillID {
			continue
		}
		if q, ok := r.store.quests[l.left]; ok {
			quest := q
			quests = append(quests, &quest)
		}
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].Title < quests[j].Title })
	return quests, nil
}

// Update persists changes to an existing skill.
func (r *SkillRepository) Update(_ context.Context, skill *game.Skill) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.skills[skill.ID]; !ok {
		return oops.Code("SKILL_NOT_FOUND").With("id", skill.ID.String()).Wrap(game.ErrNotFound)
	}
	r.store.skills[skill.ID] = *skill
	return nil
}

// Delete removes a skill and all of its links.
func (r *SkillRepository) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.skills[id]; !ok {
		return oops.Code("SKILL_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	delete(r.store.skills, id)
	for l := range r.store.playerSkills {
		if l.right == id {
			delete(r.store.playerSkills, l)
		}
	}
	for l := range r.store.questSkills {
		if l.right == id {
			delete(r.store.questSkills, l)
		}
	}
	return nil
}

// AttachToPlayer links a skill to a player. Linking twice is a no-op.
func (r *SkillRepository) AttachToPlayer(_ context.Context, skillID, playerID ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.playerSkills[link{left: playerID, right: skillID}] = struct{}{}
	return nil
}

// DetachFromPlayer removes the link between a skill and a player.
func (r *SkillRepository) DetachFromPlayer(_ context.Context, skillID, playerID ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := link{left: playerID, right: skillID}
	if _, ok := r.store.playerSkills[l]; !ok {
		return oops.Code("SKILL_LINK_NOT_FOUND").Wrap(game.ErrNotFound)
	}
	delete(r.store.playerSkills, l)
	return nil
}

// AttachToQuest links a skill to a quest. Linking twice is a no-op.
func (r *SkillRepository) AttachToQuest(_ context.Context, skillID, questID ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.questSkills[link{left: questID, right: skillID}] = struct{}{}
	return nil
}

// DetachFromQuest removes the link between a skill and a quest.
func (r *SkillRepository) DetachFromQuest(_ context.Context, skillID, questID ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := link{left: questID, right: skillID}
	if _, ok := r.store.questSkills[l]; !ok {
		return oops.Code("SKILL_LINK_NOT_FOUND").Wrap(game.ErrNotFound)
	}
	delete(r.store.questSkills, l)
	return nil
}

func sortSkills(skills []*game.Skill) {
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
}

// Compile-time interface checks.
var (
	_ game.PlayerRepository = (*PlayerRepository)(nil)
	_ game.QuestRepository  = (*QuestRepository)(nil)
	_ game.SkillRepository  = (*SkillRepository)(nil)
	_ game.Transactor       = (*Transactor)(nil)
)
