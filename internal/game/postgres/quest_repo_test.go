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

func questRowColumns() []string {
	return []string{"id", "title", "xp", "summary", "owner_id", "created_at", "updated_at"}
}

func TestQuestRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	ownerID := ulid.Make()
	quest := &game.Quest{
		ID:        ulid.Make(),
		Title:     "Slay the Dragon",
		XP:        500,
		Summary:   "A big one.",
		OwnerID:   &ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("successful insert", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO quests`).
			WithArgs(quest.ID.String(), "Slay the Dragon", 500, "A big one.",
				ulidToStringPtr(&ownerID), now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewQuestRepository(mock)
		require.NoError(t, repo.Create(context.Background(), quest))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unowned quest inserts null owner", func(t *testing.T) {
		unowned := &game.Quest{ID: ulid.Make(), Title: "Open Bounty", CreatedAt: now, UpdatedAt: now}
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO quests`).
			WithArgs(unowned.ID.String(), "Open Bounty", 0, "", (*string)(nil), now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewQuestRepository(mock)
		require.NoError(t, repo.Create(context.Background(), unowned))
	})
}

func TestQuestRepository_Get(t *testing.T) {
	id := ulid.Make()
	ownerID := ulid.Make()
	now := time.Now().UTC()

	t.Run("retrieves existing quest", func(t *testing.T) {
		ownerStr := ownerID.String()
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM quests WHERE id =`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(questRowColumns()).
				AddRow(id.String(), "Slay the Dragon", 500, "A big one.", &ownerStr, now, now))

		repo := NewQuestRepository(mock)
		got, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, 500, got.XP)
		require.NotNil(t, got.OwnerID)
		assert.Equal(t, ownerID, *got.OwnerID)
	})

	t.Run("null owner scans to nil", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM quests WHERE id =`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(questRowColumns()).
				AddRow(id.String(), "Open Bounty", 0, "", (*string)(nil), now, now))

		repo := NewQuestRepository(mock)
		got, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, got.OwnerID)
	})

	t.Run("missing quest maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .+ FROM quests WHERE id =`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(questRowColumns()))

		repo := NewQuestRepository(mock)
		_, err := repo.Get(context.Background(), id)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestQuestRepository_ListByOwner(t *testing.T) {
	ownerID := ulid.Make()
	ownerStr := ownerID.String()
	now := time.Now().UTC()

	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT .+ FROM quests WHERE owner_id =`).
		WithArgs(ownerID.String()).
		WillReturnRows(pgxmock.NewRows(questRowColumns()).
			AddRow(ulid.Make().String(), "First", 100, "", &ownerStr, now, now).
			AddRow(ulid.Make().String(), "Second", 200, "", &ownerStr, now, now))

	repo := NewQuestRepository(mock)
	got, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
}

func TestQuestRepository_Update(t *testing.T) {
	now := time.Now().UTC()
	quest := &game.Quest{ID: ulid.Make(), Title: "Renamed", XP: 50, UpdatedAt: now}

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE quests`).
			WithArgs(quest.ID.String(), "Renamed", 50, "", (*string)(nil), now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewQuestRepository(mock)
		err := repo.Update(context.Background(), quest)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestQuestRepository_Delete(t *testing.T) {
	id := ulid.Make()

	t.Run("successful delete", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM quests WHERE id =`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewQuestRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("missing quest maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM quests WHERE id =`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewQuestRepository(mock)
		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestQuestRepository_DeleteByOwner(t *testing.T) {
	ownerID := ulid.Make()

	t.Run("zero rows is not an error", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM quests WHERE owner_id =`).
			WithArgs(ownerID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewQuestRepository(mock)
		require.NoError(t, repo.DeleteByOwner(context.Background(), ownerID))
	})

	t.Run("runs on the transaction carried by ctx", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM quests WHERE owner_id =`).
			WithArgs(ownerID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectCommit()

		repo := NewQuestRepository(mock)
		tx := NewTransactor(mock)
		err := tx.InTransaction(context.Background(), func(ctx context.Context) error {
			return repo.DeleteByOwner(ctx, ownerID)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuestRepository_OwnerProgress(t *testing.T) {
	ownerID := ulid.Make()

	t.Run("aggregates count and xp", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(xp\), 0\)`).
			WithArgs(ownerID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(3, 750))

		repo := NewQuestRepository(mock)
		count, totalXP, err := repo.OwnerProgress(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, 750, totalXP)
	})

	t.Run("no quests yields zeros", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(xp\), 0\)`).
			WithArgs(ownerID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(0, 0))

		repo := NewQuestRepository(mock)
		count, totalXP, err := repo.OwnerProgress(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, totalXP)
	})
}
