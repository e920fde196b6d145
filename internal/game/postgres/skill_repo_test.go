// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/game"
)

func skillRowColumns() []string {
	return []string{"id", "name", "level", "created_at", "updated_at"}
}

func TestSkillRepository_Get(t *testing.T) {
	id := ulid.Make()
	now := time.Now().UTC()

	t.Run("retrieves existing skill", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM skills WHERE id =`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(skillRowColumns()).
				AddRow(id.String(), "Swordsmanship", 2, now, now))

		repo := NewSkillRepository(mock)
		got, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Swordsmanship", got.Name)
		assert.Equal(t, 2, got.Level)
	})

	t.Run("missing skill maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM skills WHERE id =`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(skillRowColumns()))

		repo := NewSkillRepository(mock)
		_, err := repo.Get(context.Background(), id)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestSkillRepository_ListByPlayer(t *testing.T) {
	playerID := ulid.Make()
	now := time.Now().UTC()

	mock := newMockPool(t)
	mock.ExpectQuery(`JOIN player_skills`).
		WithArgs(playerID.String()).
		WillReturnRows(pgxmock.NewRows(skillRowColumns()).
			AddRow(ulid.Make().String(), "Archery", 1, now, now).
			AddRow(ulid.Make().String(), "Stealth", 3, now, now))

	repo := NewSkillRepository(mock)
	got, err := repo.ListByPlayer(context.Background(), playerID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Archery", got[0].Name)
}

func TestSkillRepository_ListQuests(t *testing.T) {
	skillID := ulid.Make()
	now := time.Now().UTC()

	mock := newMockPool(t)
	mock.ExpectQuery(`JOIN quest_skills`).
		WithArgs(skillID.String()).
		WillReturnRows(pgxmock.NewRows(questRowColumns()).
			AddRow(ulid.Make().String(), "Slay the Dragon", 500, "", (*string)(nil), now, now))

	repo := NewSkillRepository(mock)
	got, err := repo.ListQuests(context.Background(), skillID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Slay the Dragon", got[0].Title)
}

func TestSkillRepository_AttachToPlayer(t *testing.T) {
	skillID := ulid.Make()
	playerID := ulid.Make()

	t.Run("inserts link", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO player_skills`).
			WithArgs(playerID.String(), skillID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewSkillRepository(mock)
		require.NoError(t, repo.AttachToPlayer(context.Background(), skillID, playerID))
	})

	t.Run("duplicate link is a no-op", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO player_skills`).
			WithArgs(playerID.String(), skillID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		repo := NewSkillRepository(mock)
		require.NoError(t, repo.AttachToPlayer(context.Background(), skillID, playerID))
	})
}

func TestSkillRepository_DetachFromPlayer(t *testing.T) {
	skillID := ulid.Make()
	playerID := ulid.Make()

	t.Run("removes link", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM player_skills`).
			WithArgs(playerID.String(), skillID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewSkillRepository(mock)
		require.NoError(t, repo.DetachFromPlayer(context.Background(), skillID, playerID))
	})

	t.Run("missing link maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM player_skills`).
			WithArgs(playerID.String(), skillID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewSkillRepository(mock)
		err := repo.DetachFromPlayer(context.Background(), skillID, playerID)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestSkillRepository_AttachToQuest(t *testing.T) {
	skillID := ulid.Make()
	questID := ulid.Make()

	mock := newMockPool(t)
	mock.ExpectExec(`INSERT INTO quest_skills`).
		WithArgs(questID.String(), skillID.String()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSkillRepository(mock)
	require.NoError(t, repo.AttachToQuest(context.Background(), skillID, questID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSkillRepository_Delete(t *testing.T) {
	id := ulid.Make()

	t.Run("missing skill maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM skills WHERE id =`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewSkillRepository(mock)
		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}
