package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/mysql"
	"github.com/fentashot/casino/internal/http-server/model"
)

type UserBalanceRepository struct {
	dbhandler mysql.Handler
}

func NewUserBalanceRepository(dbhandler mysql.Handler) *UserBalanceRepository {
	return &UserBalanceRepository{dbhandler: dbhandler}
}

// LockLedger reads the ledger row under an exclusive lock, creating it
// with the starting balance on first use. Concurrent spins from the
// same user serialize on this lock, so the nonce and balance checks
// always run against a fresh row.
func (repo *UserBalanceRepository) LockLedger(tx *sql.Tx, userID string, startingBalance int64) (*model.UserBalance, error) {
	const op = "repository.user_balance.LockLedger"

	const query = "SELECT user_id, balance, last_nonce, updated_at FROM user_balances WHERE user_id = ? FOR UPDATE"

	ledger := &model.UserBalance{}

	err := tx.QueryRow(query, userID).Scan(&ledger.UserID, &ledger.Balance, &ledger.LastNonce, &ledger.UpdatedAt)
	if err == nil {
		return ledger, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()

	const insert = "INSERT INTO user_balances(user_id, balance, last_nonce, updated_at) VALUES(?, ?, 0, ?)"

	if _, err = tx.Exec(insert, userID, startingBalance, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &model.UserBalance{
		UserID:    userID,
		Balance:   startingBalance,
		LastNonce: 0,
		UpdatedAt: &now,
	}, nil
}

// ApplySettlement debits the stake, credits the win and advances the
// nonce in one statement.
func (repo *UserBalanceRepository) ApplySettlement(tx *sql.Tx, userID string, stake, win, nonce int64) error {
	const op = "repository.user_balance.ApplySettlement"

	const query = "UPDATE user_balances SET balance = balance - ? + ?, last_nonce = ?, updated_at = ? WHERE user_id = ?"

	if _, err := tx.Exec(query, stake, win, nonce, time.Now(), userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *UserBalanceRepository) CreateUserBalanceTransaction(
	tx *sql.Tx,
	userID string,
	value int64,
	balanceType config.BalanceType,
	game config.Game,
) error {
	const op = "repository.user_balance.CreateUserBalanceTransaction"

	now := time.Now()

	const query = "INSERT INTO user_balance_transactions(user_id, value, type, module, created_at, updated_at)" +
		" VALUES(?, ?, ?, ?, ?, ?)"

	if _, err := tx.Exec(query, userID, value, balanceType, game, now, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AdjustBalance applies an administrative balance change and records
// it in the transaction log.
func (repo *UserBalanceRepository) AdjustBalance(tx *sql.Tx, userID string, delta int64) error {
	const op = "repository.user_balance.AdjustBalance"

	const query = "UPDATE user_balances SET balance = balance + ?, updated_at = ? WHERE user_id = ?"

	if _, err := tx.Exec(query, delta, time.Now(), userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := repo.CreateUserBalanceTransaction(tx, userID, delta, config.Adjustment, config.Roulette); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *UserBalanceRepository) FindUserBalanceByID(userID string) (*model.UserBalance, error) {
	const op = "repository.user_balance.FindUserBalanceByID"

	const query = "SELECT user_id, balance, last_nonce, updated_at FROM user_balances WHERE user_id = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ledger := &model.UserBalance{}

	err = row.Scan(&ledger.UserID, &ledger.Balance, &ledger.LastNonce, &ledger.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ledger, nil
}
