package spin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/provably_fair"
	"github.com/fentashot/casino/internal/http-server/handlers/roulette/bet"
	"github.com/fentashot/casino/internal/http-server/handlers/roulette/settle"
	"github.com/fentashot/casino/internal/http-server/handlers/seed"
	"github.com/fentashot/casino/internal/http-server/model"
	"github.com/fentashot/casino/internal/lib/logger/sl"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// InvalidNonceError reports the nonce the server expected so the
// caller can resynchronize and retry.
type InvalidNonceError struct {
	Expected int64
	Received int64
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("invalid nonce: expected %d, received %d", e.Expected, e.Received)
}

// InvalidBetError rejects the whole request; there is no partial
// acceptance of a bet list.
type InvalidBetError struct {
	Index int
	Err   error
}

func (e *InvalidBetError) Error() string {
	return fmt.Sprintf("invalid bet at index %d: %v", e.Index, e.Err)
}

func (e *InvalidBetError) Unwrap() error { return e.Err }

type SeedSource interface {
	ActiveSeedForShare(tx *sql.Tx) (*model.ServerSeed, error)
	FindSeedByID(id string) (*model.ServerSeed, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=SpinStore
type SpinStore interface {
	FindSpinByIdempotencyKey(tx *sql.Tx, key string) (*model.Spin, error)
	SaveSpin(tx *sql.Tx, spin model.Spin) error
	SaveSpinBet(tx *sql.Tx, spinBet model.SpinBet) error
	BetsBySpinID(tx *sql.Tx, spinID string) ([]model.SpinBet, error)
}

type LedgerStore interface {
	LockLedger(tx *sql.Tx, userID string, startingBalance int64) (*model.UserBalance, error)
	ApplySettlement(tx *sql.Tx, userID string, stake, win, nonce int64) error
	CreateUserBalanceTransaction(tx *sql.Tx, userID string, value int64,
		balanceType config.BalanceType, game config.Game) error
}

type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Request is one spin submission. The nonce is server-enforced and
// mandatory; the idempotency key is caller-supplied and optional —
// two independent guards, kept separate.
type Request struct {
	ClientSeed     string      `json:"client_seed" validate:"required,min=1"`
	Nonce          int64       `json:"nonce" validate:"required,min=1"`
	IdempotencyKey string      `json:"idempotency_key,omitempty" validate:"omitempty,min=16,max=64"`
	Bets           []model.Bet `json:"bets" validate:"required,min=1"`
}

type Result struct {
	Spin           model.Spin
	Bets           []model.SpinBet
	NewBalance     int64
	ServerSeedHash string
	Replayed       bool
}

type Orchestrator struct {
	seeds           SeedSource
	spins           SpinStore
	ledgers         LedgerStore
	tx              TxRunner
	startingBalance int64
	log             *slog.Logger
}

func NewOrchestrator(
	seeds SeedSource,
	spins SpinStore,
	ledgers LedgerStore,
	tx TxRunner,
	startingBalance int64,
	log *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		seeds:           seeds,
		spins:           spins,
		ledgers:         ledgers,
		tx:              tx,
		startingBalance: startingBalance,
		log:             log,
	}
}

// HandleSpin settles one spin request in a single transaction: either
// the spin row, all bet rows and the ledger update land together, or
// none of them do and the client may retry with the same nonce.
func (o *Orchestrator) HandleSpin(ctx context.Context, userID string, req Request) (*Result, error) {
	const op = "spin.Orchestrator.HandleSpin"

	var result *Result

	err := o.tx.WithinTransaction(ctx, func(tx *sql.Tx) error {
		replayed, err := o.replayFromIdempotencyKey(tx, userID, req.IdempotencyKey)
		if err != nil {
			return err
		}

		if replayed != nil {
			result = replayed

			return nil
		}

		activeSeed, err := o.seeds.ActiveSeedForShare(tx)
		if err != nil {
			return err
		}

		if activeSeed == nil {
			return seed.ErrNoActiveSeed
		}

		for i, b := range req.Bets {
			if err = bet.Validate(b); err != nil {
				return &InvalidBetError{Index: i, Err: err}
			}
		}

		var totalStake int64
		for _, b := range req.Bets {
			totalStake += b.Amount
		}

		ledger, err := o.ledgers.LockLedger(tx, userID, o.startingBalance)
		if err != nil {
			return err
		}

		if ledger.Balance < totalStake {
			return ErrInsufficientFunds
		}

		if expected := ledger.LastNonce + 1; req.Nonce != expected {
			return &InvalidNonceError{Expected: expected, Received: req.Nonce}
		}

		outcome, err := provably_fair.Spin(provably_fair.Data{
			ServerSeedHex: activeSeed.Secret,
			ClientSeed:    req.ClientSeed,
			Nonce:         req.Nonce,
		})
		if err != nil {
			return err
		}

		settlement := settle.Settle(req.Bets, outcome)

		spinModel := model.Spin{
			ID:             uuid.New().String(),
			UserID:         userID,
			ServerSeedID:   activeSeed.ID,
			ClientSeed:     req.ClientSeed,
			Nonce:          req.Nonce,
			Hmac:           outcome.Hmac,
			Number:         outcome.Number,
			Color:          outcome.Color,
			TotalBet:       settlement.TotalStake,
			TotalWin:       settlement.TotalWin,
			IdempotencyKey: req.IdempotencyKey,
			CreatedAt:      time.Now(),
		}

		if err = o.spins.SaveSpin(tx, spinModel); err != nil {
			return err
		}

		spinBets := make([]model.SpinBet, 0, len(settlement.Results))
		for _, betResult := range settlement.Results {
			spinBet := model.SpinBet{
				ID:        uuid.New().String(),
				SpinID:    spinModel.ID,
				Bet:       betResult.Bet,
				Win:       betResult.Winnings,
				CreatedAt: spinModel.CreatedAt,
			}

			if err = o.spins.SaveSpinBet(tx, spinBet); err != nil {
				return err
			}

			spinBets = append(spinBets, spinBet)
		}

		if err = o.ledgers.ApplySettlement(tx, userID, settlement.TotalStake, settlement.TotalWin, req.Nonce); err != nil {
			return err
		}

		if err = o.ledgers.CreateUserBalanceTransaction(tx, userID,
			settlement.TotalStake, config.Outcome, config.Roulette); err != nil {
			return err
		}

		if settlement.TotalWin > 0 {
			if err = o.ledgers.CreateUserBalanceTransaction(tx, userID,
				settlement.TotalWin, config.Income, config.Roulette); err != nil {
				return err
			}
		}

		result = &Result{
			Spin:           spinModel,
			Bets:           spinBets,
			NewBalance:     ledger.Balance - settlement.TotalStake + settlement.TotalWin,
			ServerSeedHash: activeSeed.Hash,
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// replayFromIdempotencyKey returns the stored outcome of a previous
// spin with the same key, untouched: no recomputation, no balance
// mutation. Nil when the key is unknown or absent.
func (o *Orchestrator) replayFromIdempotencyKey(tx *sql.Tx, userID, key string) (*Result, error) {
	if key == "" {
		return nil, nil
	}

	existing, err := o.spins.FindSpinByIdempotencyKey(tx, key)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, nil
	}

	bets, err := o.spins.BetsBySpinID(tx, existing.ID)
	if err != nil {
		return nil, err
	}

	ledger, err := o.ledgers.LockLedger(tx, userID, o.startingBalance)
	if err != nil {
		return nil, err
	}

	usedSeed, err := o.seeds.FindSeedByID(existing.ServerSeedID)
	if err != nil {
		return nil, err
	}

	var hash string
	if usedSeed != nil {
		hash = usedSeed.Hash
	}

	o.log.Info("idempotent replay",
		sl.String("spin_id", existing.ID),
		sl.String("idempotency_key", key))

	return &Result{
		Spin:           *existing,
		Bets:           bets,
		NewBalance:     ledger.Balance,
		ServerSeedHash: hash,
		Replayed:       true,
	}, nil
}
