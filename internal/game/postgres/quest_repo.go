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

// QuestRepository implements game.QuestRepository using PostgreSQL.
type QuestRepository struct {
	pool poolIface
}

// NewQuestRepository creates a new PostgreSQL quest repository.
func NewQuestRepository(pool poolIface) *QuestRepository {
	return &QuestRepository{pool: pool}
}

const questColumns = `id, title, xp, summary, owner_id, created_at, updated_at`

// Create persists a new quest.
// Callers must validate the quest before calling this method.
func (r *QuestRepository) Create(ctx context.Context, quest *game.Quest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quests (id, title, xp, summary, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, quest.ID.String(), quest.Title, quest.XP, quest.Summary,
		ulidToStringPtr(quest.OwnerID), quest.CreatedAt, quest.UpdatedAt)
	if err != nil {
		return oops.Code("QUEST_CREATE_FAILED").With("id", quest.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a quest by ID.
func (r *QuestRepository) Get(ctx context.Context, id ulid.ULID) (*game.Quest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+questColumns+`
		FROM quests WHERE id = $1
	`, id.String())
	quest, err := scanQuestRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("QUEST_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("QUEST_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return quest, nil
}

// List returns all quests ordered by title.
func (r *QuestRepository) List(ctx context.Context) ([]*game.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questColumns+`
		FROM quests ORDER BY title
	`)
	if err != nil {
		return nil, oops.Code("QUEST_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close()

	return scanQuests(rows)
}

// ListByOwner returns the quests owned by a player, ordered by title.
func (r *QuestRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*game.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questColumns+`
		FROM quests WHERE owner_id = $1 ORDER BY title
	`, ownerID.String())
	if err != nil {
		return nil, oops.Code("QUEST_QUERY_FAILED").With("owner_id", ownerID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanQuests(rows)
}

// Update modifies an existing quest.
// Callers must validate the quest before calling this method.
func (r *QuestRepository) Update(ctx context.Context, quest *game.Quest) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE quests
		SET title = $2, xp = $3, summary = $4, owner_id = $5, updated_at = $6
		WHERE id = $1
	`, quest.ID.String(), quest.Title, quest.XP, quest.Summary,
		ulidToStringPtr(quest.OwnerID), quest.UpdatedAt)
	if err != nil {
		return oops.Code("QUEST_UPDATE_FAILED").With("id", quest.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("QUEST_NOT_FOUND").With("id", quest.ID.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// Delete removes a quest. The quest_skills rows go with it via
// ON DELETE CASCADE.
func (r *QuestRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quests WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("QUEST_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("QUEST_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// DeleteByOwner removes all quests owned by a player. Zero rows is not an
// error. Participates in any transaction carried by ctx.
func (r *QuestRepository) DeleteByOwner(ctx context.Context, ownerID ulid.ULID) error {
	_, err := execerFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM quests WHERE owner_id = $1`, ownerID.String())
	if err != nil {
		return oops.Code("QUEST_DELETE_FAILED").With("owner_id", ownerID.String()).Wrap(err)
	}
	return nil
}

// OwnerProgress returns the count of quests owned by a player and the sum
// of their xp rewards.
func (r *QuestRepository) OwnerProgress(ctx context.Context, ownerID ulid.ULID) (count, totalXP int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(xp), 0)
		FROM quests WHERE owner_id = $1
	`, ownerID.String()).Scan(&count, &totalXP)
	if err != nil {
		return 0, 0, oops.Code("QUEST_PROGRESS_FAILED").With("owner_id", ownerID.String()).Wrap(err)
	}
	return count, totalXP, nil
}

// scanQuestRow scans a single quest from a row.
func scanQuestRow(row pgx.Row) (*game.Quest, error) {
	var quest game.Quest
	var idStr string
	var ownerIDStr *string

	err := row.Scan(
		&idStr, &quest.Title, &quest.XP, &quest.Summary,
		&ownerIDStr, &quest.CreatedAt, &quest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	quest.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("QUEST_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}
	quest.OwnerID, err = parseOptionalULID(ownerIDStr, "owner_id")
	if err != nil {
		return nil, err
	}

	return &quest, nil
}

func scanQuests(rows pgx.Rows) ([]*game.Quest, error) {
	quests := make([]*game.Quest, 0)
	for rows.Next() {
		quest, err := scanQuestRow(rows)
		if err != nil {
			return nil, oops.Code("QUEST_SCAN_FAILED").Wrap(err)
		}
		quests = append(quests, quest)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("QUEST_ITERATE_FAILED").Wrap(err)
	}

	return quests, nil
}

// Compile-time interface check.
var _ game.QuestRepository = (*QuestRepository)(nil)
