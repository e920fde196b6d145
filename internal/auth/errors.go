// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when a login fails. The same error
	// covers unknown names and wrong passwords so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token fails to decode: bad
	// signature, malformed payload, wrong class, or expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is returned when a valid identity lacks the privilege
	// for the requested action.
	ErrForbidden = errors.New("forbidden")
)
