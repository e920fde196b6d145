// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

// Package game contains the QuestLog domain types and logic.
//
// # Domain Types
//
// Domain types (Player, Quest, Skill) should be created using their
// respective constructors:
//   - NewPlayer - creates a Player with validated name and class
//   - NewQuest - creates a Quest with validated title and xp reward
//   - NewSkill - creates a Skill with validated name
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Service
//
// Service coordinates entity operations across the repositories: CRUD with
// partial-update semantics, the player/quest/skill association links, the
// cascading player delete, and the per-player progress summary. Mutations
// that touch more than one table run inside a Transactor.
package game
