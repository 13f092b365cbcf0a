package seed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/http-server/model"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/lib/random"
)

const secretBytes = 32

const hashCacheKey = "active_seed_hash"

var (
	ErrNoActiveSeed    = errors.New("no active server seed")
	ErrSeedNotFound    = errors.New("seed not found")
	ErrSeedStillActive = errors.New("seed is still active")
)

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=Store
type Store interface {
	LockActive(tx *sql.Tx) error
	DeactivateActive(tx *sql.Tx) error
	SaveSeed(tx *sql.Tx, seed model.ServerSeed) error
	ActiveSeedHash() (string, error)
	FindSeedByID(id string) (*model.ServerSeed, error)
	MarkRevealed(id string, revealedAt time.Time) error
	ListSeeds() ([]model.ServerSeed, error)
}

type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Manager owns the Active -> Inactive -> Revealed seed lifecycle.
type Manager struct {
	store Store
	tx    TxRunner
	cache *cache.Cache
	log   *slog.Logger
}

func NewManager(store Store, tx TxRunner, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		tx:    tx,
		cache: cache.New(5*time.Minute, 10*time.Minute),
		log:   log,
	}
}

// Rotate deactivates the current active seed and activates a fresh
// one in a single transaction. The active row is locked first so a
// spin can never read a half-rotated seed table; when the table is
// empty and there is no row to lock, the unique index on the active
// column fails the second of two racing inserts and that rotation
// rolls back whole.
func (m *Manager) Rotate(ctx context.Context) (*model.ServerSeed, error) {
	const op = "seed.Manager.Rotate"

	secret, err := random.NewHexSecret(secretBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sum := sha256.Sum256([]byte(secret))

	newSeed := model.ServerSeed{
		ID:        uuid.New().String(),
		Secret:    secret,
		Hash:      hex.EncodeToString(sum[:]),
		Active:    true,
		CreatedAt: time.Now(),
	}

	err = m.tx.WithinTransaction(ctx, func(tx *sql.Tx) error {
		if err := m.store.LockActive(tx); err != nil {
			return err
		}

		if err := m.store.DeactivateActive(tx); err != nil {
			return err
		}

		return m.store.SaveSeed(tx, newSeed)
	})
	if err != nil {
		m.log.Error("seed rotation failed", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.cache.Set(hashCacheKey, newSeed.Hash, cache.DefaultExpiration)

	m.log.Info("server seed rotated", sl.String("seed_id", newSeed.ID))

	return &newSeed, nil
}

// Reveal exposes a seed secret, permitted only once the seed is
// inactive. This is the trust anchor: while a seed is live the house
// can never show (or alter) it.
func (m *Manager) Reveal(seedID string) (*model.ServerSeed, error) {
	const op = "seed.Manager.Reveal"

	found, err := m.store.FindSeedByID(seedID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if found == nil {
		return nil, ErrSeedNotFound
	}

	if found.Active {
		return nil, ErrSeedStillActive
	}

	now := time.Now()

	if err = m.store.MarkRevealed(seedID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	found.RevealedAt = &now

	m.log.Info("server seed revealed", sl.String("seed_id", seedID))

	return found, nil
}

// ActiveHash returns the public commitment of the active seed. The
// hash is public and process-local rotation refreshes the cache, so a
// short TTL is safe.
func (m *Manager) ActiveHash() (string, error) {
	const op = "seed.Manager.ActiveHash"

	if cached, found := m.cache.Get(hashCacheKey); found {
		return cached.(string), nil
	}

	hash, err := m.store.ActiveSeedHash()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if hash == "" {
		return "", ErrNoActiveSeed
	}

	m.cache.Set(hashCacheKey, hash, cache.DefaultExpiration)

	return hash, nil
}

func (m *Manager) List() ([]model.ServerSeed, error) {
	const op = "seed.Manager.List"

	seeds, err := m.store.ListSeeds()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seeds, nil
}
