// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/questlog/questlog/internal/game"
)

// PlayerRepository implements game.PlayerRepository using PostgreSQL.
type PlayerRepository struct {
	pool poolIface
}

// NewPlayerRepository creates a new PostgreSQL player repository.
func NewPlayerRepository(pool poolIface) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

const playerColumns = `id, name, class_name, level, xp, is_admin, password_hash, created_at, updated_at`

// Create persists a new player.
// Callers must validate the player before calling this method.
func (r *PlayerRepository) Create(ctx context.Context, player *game.Player) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO players (id, name, class_name, level, xp, is_admin, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, player.ID.String(), player.Name, player.ClassName, player.Level, player.XP,
		player.IsAdmin, player.PasswordHash, player.CreatedAt, player.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PLAYER_NAME_TAKEN").With("name", player.Name).Wrap(game.ErrConflict)
		}
		return oops.Code("PLAYER_CREATE_FAILED").With("id", player.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a player by ID.
func (r *PlayerRepository) Get(ctx context.Context, id ulid.ULID) (*game.Player, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1
	`, id.String())
	player, err := scanPlayerRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAYER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return player, nil
}

// GetByName retrieves a player by name, matched case-insensitively.
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*game.Player, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE LOWER(name) = LOWER($1)
	`, name)
	player, err := scanPlayerRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").With("name", name).Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAYER_GET_FAILED").With("name", name).Wrap(err)
	}
	return player, nil
}

// List returns all players ordered by name.
func (r *PlayerRepository) List(ctx context.Context) ([]*game.Player, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("PLAYER_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Update modifies an existing player.
// Callers must validate the player before calling this method.
func (r *PlayerRepository) Update(ctx context.Context, player *game.Player) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE players
		SET name = $2, class_name = $3, level = $4, xp = $5, is_admin = $6,
		    password_hash = $7, updated_at = $8
		WHERE id = $1
	`, player.ID.String(), player.Name, player.ClassName, player.Level, player.XP,
		player.IsAdmin, player.PasswordHash, player.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PLAYER_NAME_TAKEN").With("name", player.Name).Wrap(game.ErrConflict)
		}
		return oops.Code("PLAYER_UPDATE_FAILED").With("id", player.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").With("id", player.ID.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// Delete removes a player and its skill links. The player_skills rows go
// with it via ON DELETE CASCADE. Participates in any transaction carried
// by ctx.
func (r *PlayerRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := execerFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM players WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("PLAYER_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// ExistsByName checks if a player with the given name exists, matched
// case-insensitively.
func (r *PlayerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM players WHERE LOWER(name) = LOWER($1))
	`, name).Scan(&exists)
	if err != nil {
		return false, oops.Code("PLAYER_EXISTS_FAILED").With("name", name).Wrap(err)
	}
	return exists, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// scanPlayerRow scans a single player from a row.
func scanPlayerRow(row pgx.Row) (*game.Player, error) {
	var player game.Player
	var idStr string

	err := row.Scan(
		&idStr, &player.Name, &player.ClassName, &player.Level, &player.XP,
		&player.IsAdmin, &player.PasswordHash, &player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	player.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PLAYER_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}

	return &player, nil
}

func scanPlayers(rows pgx.Rows) ([]*game.Player, error) {
	players := make([]*game.Player, 0)
	for rows.Next() {
		player, err := scanPlayerRow(rows)
		if err != nil {
			return nil, oops.Code("PLAYER_SCAN_FAILED").Wrap(err)
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("PLAYER_ITERATE_FAILED").Wrap(err)
	}

	return players, nil
}

// Compile-time interface check.
var _ game.PlayerRepository = (*PlayerRepository)(nil)
