// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package memory_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/game"
	"github.com/questlog/questlog/internal/game/memory"
)

func TestPlayerRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		store := memory.New()
		repo := store.Players()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, player))

		got, err := repo.Get(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, player.Name, got.Name)
	})

	t.Run("name lookup is case-insensitive", func(t *testing.T) {
		store := memory.New()
		repo := store.Players()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, player))

		got, err := repo.GetByName(ctx, "TESTER")
		require.NoError(t, err)
		assert.Equal(t, player.ID, got.ID)

		exists, err := repo.ExistsByName(ctx, "tester")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		store := memory.New()
		repo := store.Players()

		first, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := game.NewPlayer("tester", "", false, "hash")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, second), game.ErrConflict)
	})

	t.Run("mutating a returned player does not leak into the store", func(t *testing.T) {
		store := memory.New()
		repo := store.Players()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, player))

		got, err := repo.Get(ctx, player.ID)
		require.NoError(t, err)
		got.Name = "Mutated"

		again, err := repo.Get(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tester", again.Name)
	})

	t.Run("delete removes skill links", func(t *testing.T) {
		store := memory.New()
		players := store.Players()
		skills := store.Skills()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, players.Create(ctx, player))

		skill, err := game.NewSkill("Archery", 1)
		require.NoError(t, err)
		require.NoError(t, skills.Create(ctx, skill))
		require.NoError(t, skills.AttachToPlayer(ctx, skill.ID, player.ID))

		require.NoError(t, players.Delete(ctx, player.ID))

		linked, err := skills.ListPlayers(ctx, skill.ID)
		require.NoError(t, err)
		assert.Empty(t, linked)
	})

	t.Run("missing player maps to ErrNotFound", func(t *testing.T) {
		store := memory.New()
		_, err := store.Players().Get(ctx, ulid.Make())
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestQuestRepository(t *testing.T) {
	ctx := context.Background()

	newOwnedQuest := func(t *testing.T, store *memory.Store, ownerID ulid.ULID, title string, xp int) *game.Quest {
		t.Helper()
		quest, err := game.NewQuest(title, xp, "", &ownerID)
		require.NoError(t, err)
		require.NoError(t, store.Quests().Create(ctx, quest))
		return quest
	}

	t.Run("list by owner", func(t *testing.T) {
		store := memory.New()
		ownerID := ulid.Make()
		otherID := ulid.Make()

		newOwnedQuest(t, store, ownerID, "Bravo", 100)
		newOwnedQuest(t, store, ownerID, "Alpha", 50)
		newOwnedQuest(t, store, otherID, "Other", 10)

		got, err := store.Quests().ListByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Alpha", got[0].Title)
		assert.Equal(t, "Bravo", got[1].Title)
	})

	t.Run("owner progress aggregates count and xp", func(t *testing.T) {
		store := memory.New()
		ownerID := ulid.Make()

		newOwnedQuest(t, store, ownerID, "First", 100)
		newOwnedQuest(t, store, ownerID, "Second", 250)

		count, totalXP, err := store.Quests().OwnerProgress(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 350, totalXP)
	})

	t.Run("delete by owner removes quests and their links", func(t *testing.T) {
		store := memory.New()
		ownerID := ulid.Make()

		quest := newOwnedQuest(t, store, ownerID, "Doomed", 10)

		skill, err := game.NewSkill("Stealth", 1)
		require.NoError(t, err)
		require.NoError(t, store.Skills().Create(ctx, skill))
		require.NoError(t, store.Skills().AttachToQuest(ctx, skill.ID, quest.ID))

		require.NoError(t, store.Quests().DeleteByOwner(ctx, ownerID))

		_, err = store.Quests().Get(ctx, quest.ID)
		assert.ErrorIs(t, err, game.ErrNotFound)

		linked, err := store.Skills().ListQuests(ctx, skill.ID)
		require.NoError(t, err)
		assert.Empty(t, linked)
	})

	t.Run("delete by owner with no quests is a no-op", func(t *testing.T) {
		store := memory.New()
		assert.NoError(t, store.Quests().DeleteByOwner(ctx, ulid.Make()))
	})
}

func TestSkillRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("attach and detach player links", func(t *testing.T) {
		store := memory.New()
		skills := store.Skills()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, store.Players().Create(ctx, player))

		skill, err := game.NewSkill("Archery", 1)
		require.NoError(t, err)
		require.NoError(t, skills.Create(ctx, skill))

		require.NoError(t, skills.AttachToPlayer(ctx, skill.ID, player.ID))
		// Attaching twice is a no-op.
		require.NoError(t, skills.AttachToPlayer(ctx, skill.ID, player.ID))

		got, err := skills.ListByPlayer(ctx, player.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Archery", got[0].Name)

		require.NoError(t, skills.DetachFromPlayer(ctx, skill.ID, player.ID))
		assert.ErrorIs(t, skills.DetachFromPlayer(ctx, skill.ID, player.ID), game.ErrNotFound)
	})

	t.Run("deleting a skill removes all links", func(t *testing.T) {
		store := memory.New()
		skills := store.Skills()

		player, err := game.NewPlayer("Tester", "", false, "hash")
		require.NoError(t, err)
		require.NoError(t, store.Players().Create(ctx, player))

		quest, err := game.NewQuest("Hunt", 10, "", nil)
		require.NoError(t, err)
		require.NoError(t, store.Quests().Create(ctx, quest))

		skill, err := game.NewSkill("Tracking", 2)
		require.NoError(t, err)
		require.NoError(t, skills.Create(ctx, skill))
		require.NoError(t, skills.AttachToPlayer(ctx, skill.ID, player.ID))
		require.NoError(t, skills.AttachToQuest(ctx, skill.ID, quest.ID))

		require.NoError(t, skills.Delete(ctx, skill.ID))

		bySkill, err := skills.ListByPlayer(ctx, player.ID)
		require.NoError(t, err)
		assert.Empty(t, bySkill)

		byQuest, err := skills.ListByQuest(ctx, quest.ID)
		require.NoError(t, err)
		assert.Empty(t, byQuest)
	})
}
