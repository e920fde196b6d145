// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

// Package auth provides authentication and authorization primitives for
// QuestLog.
//
// Three concerns live here:
//   - PasswordHasher - one-way salted password hashing (argon2id)
//   - TokenService - signed access/refresh tokens bound to a player id
//   - Authorize - the pure admin-or-owner permission decision
//
// Service ties the first two to the player store for the register, login,
// refresh, and whoami flows. There is no token revocation: a compromised
// access token stays valid until expiry, and a refresh token indefinitely.
// That is a documented limitation of the token model, not something the
// service quietly works around.
package auth
