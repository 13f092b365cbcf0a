package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fentashot/casino/internal/http-server/handlers/mysql"
	"github.com/fentashot/casino/internal/http-server/model"
)

type SeedRepository struct {
	dbhandler mysql.Handler
}

func NewSeedRepository(dbhandler mysql.Handler) *SeedRepository {
	return &SeedRepository{dbhandler: dbhandler}
}

// ActiveSeedForShare reads the active seed under a shared lock so an
// in-flight spin cannot observe a half-rotated seed table. Returns
// nil when no seed is active.
func (repo *SeedRepository) ActiveSeedForShare(tx *sql.Tx) (*model.ServerSeed, error) {
	const op = "repository.seed.ActiveSeedForShare"

	const query = "SELECT id, secret, hash, created_at FROM server_seeds WHERE active = 1 LIMIT 1 FOR SHARE"

	seed := &model.ServerSeed{Active: true}

	err := tx.QueryRow(query).Scan(&seed.ID, &seed.Secret, &seed.Hash, &seed.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seed, nil
}

// LockActive takes an exclusive lock on the active seed row, if any,
// serializing rotation against concurrent spins and rotations. With no
// active row there is nothing to lock; there the unique index on
// active is what rejects the loser of a rotation race.
func (repo *SeedRepository) LockActive(tx *sql.Tx) error {
	const op = "repository.seed.LockActive"

	const query = "SELECT id FROM server_seeds WHERE active = 1 FOR UPDATE"

	var id string

	err := tx.QueryRow(query).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeactivateActive retires the active seed. The column holds 1 or
// NULL, never 0, so the unique index on it only ever sees one non-NULL
// value.
func (repo *SeedRepository) DeactivateActive(tx *sql.Tx) error {
	const op = "repository.seed.DeactivateActive"

	const query = "UPDATE server_seeds SET active = NULL WHERE active = 1"

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveSeed inserts a seed. The unique index on active makes a second
// concurrent active insert fail with a duplicate key, which covers the
// empty-table case where LockActive had no row to lock.
func (repo *SeedRepository) SaveSeed(tx *sql.Tx, seed model.ServerSeed) error {
	const op = "repository.seed.SaveSeed"

	const query = "INSERT INTO server_seeds(id, secret, hash, active, created_at) VALUES(?, ?, ?, ?, ?)"

	var active interface{}
	if seed.Active {
		active = 1
	}

	if _, err := tx.Exec(query, seed.ID, seed.Secret, seed.Hash, active, seed.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *SeedRepository) ActiveSeedHash() (string, error) {
	const op = "repository.seed.ActiveSeedHash"

	const query = "SELECT hash FROM server_seeds WHERE active = 1 LIMIT 1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var hash string

	err = row.Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return hash, nil
}

func (repo *SeedRepository) FindSeedByID(id string) (*model.ServerSeed, error) {
	const op = "repository.seed.FindSeedByID"

	const query = "SELECT id, secret, hash, COALESCE(active, 0), created_at, revealed_at FROM server_seeds WHERE id = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seed := &model.ServerSeed{}

	err = row.Scan(&seed.ID, &seed.Secret, &seed.Hash, &seed.Active, &seed.CreatedAt, &seed.RevealedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seed, nil
}

func (repo *SeedRepository) MarkRevealed(id string, revealedAt time.Time) error {
	const op = "repository.seed.MarkRevealed"

	const query = "UPDATE server_seeds SET revealed_at = ? WHERE id = ?"

	if _, err := repo.dbhandler.PrepareAndExecute(query, revealedAt, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListSeeds never selects secrets; the seed rotation panel only shows
// hashes and lifecycle timestamps.
func (repo *SeedRepository) ListSeeds() ([]model.ServerSeed, error) {
	const op = "repository.seed.ListSeeds"

	const query = "SELECT id, hash, COALESCE(active, 0), created_at, revealed_at FROM server_seeds ORDER BY created_at DESC"

	rows, err := repo.dbhandler.PrepareAndQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var seeds []model.ServerSeed

	for rows.Next() {
		var seed model.ServerSeed

		if err = rows.Scan(&seed.ID, &seed.Hash, &seed.Active, &seed.CreatedAt, &seed.RevealedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		seeds = append(seeds, seed)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seeds, nil
}
