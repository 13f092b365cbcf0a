package seed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/http-server/model"
)

// fakeStore enforces the same rule as the unique index on the active
// column: inserting a second active seed fails.
type fakeStore struct {
	mu        sync.Mutex
	seeds     []model.ServerSeed
	failSave  bool
	lockCalls int
	saveCount int
}

func (s *fakeStore) LockActive(_ *sql.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockCalls++

	return nil
}

func (s *fakeStore) DeactivateActive(_ *sql.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.seeds {
		s.seeds[i].Active = false
	}

	return nil
}

func (s *fakeStore) SaveSeed(_ *sql.Tx, seed model.ServerSeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSave {
		return errors.New("insert failed")
	}

	if seed.Active {
		for _, existing := range s.seeds {
			if existing.Active {
				return errors.New("duplicate entry for key 'uniq_active'")
			}
		}
	}

	s.seeds = append(s.seeds, seed)
	s.saveCount++

	return nil
}

func (s *fakeStore) ActiveSeedHash() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seed := range s.seeds {
		if seed.Active {
			return seed.Hash, nil
		}
	}

	return "", nil
}

func (s *fakeStore) FindSeedByID(id string) (*model.ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seed := range s.seeds {
		if seed.ID == id {
			found := seed

			return &found, nil
		}
	}

	return nil, nil
}

func (s *fakeStore) MarkRevealed(id string, revealedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.seeds {
		if s.seeds[i].ID == id {
			at := revealedAt
			s.seeds[i].RevealedAt = &at

			return nil
		}
	}

	return errors.New("seed not found")
}

func (s *fakeStore) ListSeeds() ([]model.ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ServerSeed, len(s.seeds))
	copy(out, s.seeds)

	return out, nil
}

func (s *fakeStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0

	for _, seed := range s.seeds {
		if seed.Active {
			active++
		}
	}

	return active
}

// fakeTx runs the callback without a database. A failing callback
// stands in for a rolled-back transaction, so the fake store must not
// be mutated before the failure point.
type fakeTx struct{}

func (fakeTx) WithinTransaction(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRotateActivatesExactlyOneSeed(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, fakeTx{}, discardLogger())

	first, err := manager.Rotate(context.Background())
	assert.NoError(t, err)
	assert.True(t, first.Active)

	second, err := manager.Rotate(context.Background())
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Secret, second.Secret)

	assert.Equal(t, 1, store.activeCount())
	assert.Equal(t, 2, store.lockCalls)
}

func TestRotateHashCommitsToSecret(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, fakeTx{}, discardLogger())

	rotated, err := manager.Rotate(context.Background())
	assert.NoError(t, err)

	sum := sha256.Sum256([]byte(rotated.Secret))
	assert.Equal(t, hex.EncodeToString(sum[:]), rotated.Hash)

	// secretBytes random bytes, hex encoded.
	assert.Len(t, rotated.Secret, secretBytes*2)
}

func TestRotateFailureKeepsNothing(t *testing.T) {
	store := &fakeStore{failSave: true}
	manager := NewManager(store, fakeTx{}, discardLogger())

	_, err := manager.Rotate(context.Background())
	assert.Error(t, err)
	assert.Zero(t, store.saveCount)

	_, err = manager.ActiveHash()
	assert.ErrorIs(t, err, ErrNoActiveSeed)
}

func TestRotateConcurrentFromEmptyTable(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, fakeTx{}, discardLogger())

	// Starting from an empty table there is no active row to lock, so
	// racing rotations reach the insert together. The single-active
	// rule must hold regardless of interleaving: losers fail whole,
	// they never stack a second active seed.
	const rotations = 8

	var wg sync.WaitGroup

	results := make(chan error, rotations)

	for i := 0; i < rotations; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := manager.Rotate(context.Background())
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	succeeded := 0

	for err := range results {
		if err == nil {
			succeeded++
		}
	}

	assert.GreaterOrEqual(t, succeeded, 1)
	assert.Equal(t, 1, store.activeCount())
	assert.Equal(t, succeeded, store.saveCount)
}

func TestActiveHashServedFromCacheAfterRotate(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, fakeTx{}, discardLogger())

	rotated, err := manager.Rotate(context.Background())
	assert.NoError(t, err)

	// Drop the store rows: a cached hash must still be served.
	store.seeds = nil

	hash, err := manager.ActiveHash()
	assert.NoError(t, err)
	assert.Equal(t, rotated.Hash, hash)
}

func TestActiveHashWithoutSeed(t *testing.T) {
	manager := NewManager(&fakeStore{}, fakeTx{}, discardLogger())

	_, err := manager.ActiveHash()
	assert.ErrorIs(t, err, ErrNoActiveSeed)
}

func TestRevealRequiresInactiveSeed(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, fakeTx{}, discardLogger())

	rotated, err := manager.Rotate(context.Background())
	assert.NoError(t, err)

	_, err = manager.Reveal(rotated.ID)
	assert.ErrorIs(t, err, ErrSeedStillActive)

	// Rotating retires the first seed; now it may be revealed.
	_, err = manager.Rotate(context.Background())
	assert.NoError(t, err)

	revealed, err := manager.Reveal(rotated.ID)
	assert.NoError(t, err)
	assert.Equal(t, rotated.Secret, revealed.Secret)
	assert.NotNil(t, revealed.RevealedAt)
	assert.NotNil(t, store.seeds[0].RevealedAt)
}

func TestRevealUnknownSeed(t *testing.T) {
	manager := NewManager(&fakeStore{}, fakeTx{}, discardLogger())

	_, err := manager.Reveal("b1b2c3d4-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrSeedNotFound)
}
