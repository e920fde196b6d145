// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/questlog/questlog/internal/game"
)

// SkillRepository implements game.SkillRepository using PostgreSQL. The
// player_skills and quest_skills join tables carry the many-to-many links.
type SkillRepository struct {
	pool poolIface
}

// NewSkillRepository creates a new PostgreSQL skill repository.
func NewSkillRepository(pool poolIface) *SkillRepository {
	return &SkillRepository{pool: pool}
}

const skillColumns = `id, name, level, created_at, updated_at`

// Create persists a new skill.
// Callers must validate the skill before calling this method.
func (r *SkillRepository) Create(ctx context.Context, skill *game.Skill) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO skills (id, name, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, skill.ID.String(), skill.Name, skill.Level, skill.CreatedAt, skill.UpdatedAt)
	if err != nil {
		return oops.Code("SKILL_CREATE_FAILED").With("id", skill.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a skill by ID.
func (r *SkillRepository) Get(ctx context.Context, id ulid.ULID) (*game.Skill, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+skillColumns+`
		FROM skills WHERE id = $1
	`, id.String())
	skill, err := scanSkillRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SKILL_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SKILL_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return skill, nil
}

// List returns all skills ordered by name.
func (r *SkillRepository) List(ctx context.Context) ([]*game.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+skillColumns+`
		FROM skills ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("SKILL_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// ListByPlayer returns the skills linked to a player, ordered by name.
func (r *SkillRepository) ListByPlayer(ctx context.Context, playerID ulid.ULID) ([]*game.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, s.level, s.created_at, s.updated_at
		FROM skills s
		JOIN player_skills ps ON ps.skill_id = s.id
		WHERE ps.player_id = $1
		ORDER BY s.name
	`, playerID.String())
	if err != nil {
		return nil, oops.Code("SKILL_QUERY_FAILED").With("player_id", playerID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// ListByQuest returns the skills linked to a quest, ordered by name.
func (r *SkillRepository) ListByQuest(ctx context.Context, questID ulid.ULID) ([]*game.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, s.level, s.created_at, s.updated_at
		FROM skills s
		JOIN quest_skills qs ON qs.skill_id = s.id
		WHERE qs.quest_id = $1
		ORDER BY s.name
	`, questID.String())
	if err != nil {
		return nil, oops.Code("SKILL_QUERY_FAILED").With("quest_id", questID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// ListPlayers returns the players linked to a skill, ordered by name.
func (r *SkillRepository) ListPlayers(ctx context.Context, skillID ulid.ULID) ([]*game.Player, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.class_name, p.level, p.xp, p.is_admin,
		       p.password_hash, p.created_at, p.updated_at
		FROM players p
		JOIN player_skills ps ON ps.player_id = p.id
		WHERE ps.skill_id = $1
		ORDER BY p.name
	`, skillID.String())
	if err != nil {
		return nil, oops.Code("SKILL_QUERY_FAILED").With("skill_id", skillID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// ListQuests returns the quests linked to a skill, ordered by title.
func (r *SkillRepository) ListQuests(ctx context.Context, skillID ulid.ULID) ([]*game.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.title, q.xp, q.summary, q.owner_id, q.created_at, q.updated_at
		FROM quests q
		JOIN quest_skills qs ON qs.quest_id = q.id
		WHERE qs.skill_id = $1
		ORDER BY q.title
	`, skillID.String())
	if err != nil {
		return nil, oops.Code("SKILL_QUERY_FAILED").With("skill_id", skillID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanQuests(rows)
}

// Update modifies an existing skill.
// Callers must validate the skill before calling this method.
func (r *SkillRepository) Update(ctx context.Context, skill *game.Skill) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE skills SET name = $2, level = $3, updated_at = $4
		WHERE id = $1
	`, skill.ID.String(), skill.Name, skill.Level, skill.UpdatedAt)
	if err != nil {
		return oops.Code("SKILL_UPDATE_FAILED").With("id", skill.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SKILL_NOT_FOUND").With("id", skill.ID.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// Delete removes a skill. Join-table rows go with it via ON DELETE CASCADE.
func (r *SkillRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("SKILL_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SKILL_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// AttachToPlayer links a skill to a player. Linking twice is a no-op.
func (r *SkillRepository) AttachToPlayer(ctx context.Context, skillID, playerID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO player_skills (player_id, skill_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, playerID.String(), skillID.String())
	if err != nil {
		return oops.Code("SKILL_ATTACH_FAILED").
			With("skill_id", skillID.String()).
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return nil
}

// DetachFromPlayer removes the link between a skill and a player.
func (r *SkillRepository) DetachFromPlayer(ctx context.Context, skillID, playerID ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM player_skills WHERE player_id = $1 AND skill_id = $2
	`, playerID.String(), skillID.String())
	if err != nil {
		return oops.Code("SKILL_DETACH_FAILED").
			With("skill_id", skillID.String()).
			With("player_id", playerID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SKILL_LINK_NOT_FOUND").
			With("skill_id", skillID.String()).
			With("player_id", playerID.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// AttachToQuest links a skill to a quest. Linking twice is a no-op.
func (r *SkillRepository) AttachToQuest(ctx context.Context, skillID, questID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quest_skills (quest_id, skill_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, questID.String(), skillID.String())
	if err != nil {
		return oops.Code("SKILL_ATTACH_FAILED").
			With("skill_id", skillID.String()).
			With("quest_id", questID.String()).
			Wrap(err)
	}
	return nil
}

// DetachFromQuest removes the link between a skill and a quest.
func (r *SkillRepository) DetachFromQuest(ctx context.Context, skillID, questID ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM quest_skills WHERE quest_id = $1 AND skill_id = $2
	`, questID.String(), skillID.String())
	if err != nil {
		return oops.Code("SKILL_DETACH_FAILED").
			With("skill_id", skillID.String()).
			With("quest_id", questID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SKILL_LINK_NOT_FOUND").
			With("skill_id", skillID.String()).
			With("quest_id", questID.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// scanSkillRow scans a single skill from a row.
func scanSkillRow(row pgx.Row) (*game.Skill, error) {
	var skill game.Skill
	var idStr string

	err := row.Scan(&idStr, &skill.Name, &skill.Level, &skill.CreatedAt, &skill.UpdatedAt)
	if err != nil {
		return nil, err
	}

	skill.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SKILL_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}

	return &skill, nil
}

func scanSkills(rows pgx.Rows) ([]*game.Skill, error) {
	skills := make([]*game.Skill, 0)
	for rows.Next() {
		skill, err := scanSkillRow(rows)
		if err != nil {
			return nil, oops.Code("SKILL_SCAN_FAILED").Wrap(err)
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("SKILL_ITERATE_FAILED").Wrap(err)
	}

	return skills, nil
}

// Compile-time interface check.
var _ game.SkillRepository = (*SkillRepository)(nil)
