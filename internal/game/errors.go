// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package game

import "errors"

// Sentinel errors for the domain layer. Repositories and the Service wrap
// these with oops context; callers match them with errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned when input is missing or malformed.
	ErrValidation = errors.New("validation failed")
)
