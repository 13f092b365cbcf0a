package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/mysql"
	"github.com/fentashot/casino/internal/http-server/model"
)

type SpinRepository struct {
	dbhandler mysql.Handler
}

func NewSpinRepository(dbhandler mysql.Handler) *SpinRepository {
	return &SpinRepository{dbhandler: dbhandler}
}

// FindSpinByIdempotencyKey looks up a previously settled spin inside
// the same transaction as the settlement write, closing the
// read-then-write race window on client retries.
func (repo *SpinRepository) FindSpinByIdempotencyKey(tx *sql.Tx, key string) (*model.Spin, error) {
	const op = "repository.spin.FindSpinByIdempotencyKey"

	const query = "SELECT id, user_id, server_seed_id, client_seed, nonce, hmac, number, color," +
		" total_bet, total_win, created_at" +
		" FROM spins WHERE idempotency_key = ?"

	spin := &model.Spin{IdempotencyKey: key}

	err := tx.QueryRow(query, key).Scan(
		&spin.ID,
		&spin.UserID,
		&spin.ServerSeedID,
		&spin.ClientSeed,
		&spin.Nonce,
		&spin.Hmac,
		&spin.Number,
		&spin.Color,
		&spin.TotalBet,
		&spin.TotalWin,
		&spin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return spin, nil
}

func (repo *SpinRepository) SaveSpin(tx *sql.Tx, spin model.Spin) error {
	const op = "repository.spin.SaveSpin"

	const query = "INSERT INTO spins(id, user_id, server_seed_id, client_seed, nonce, hmac, number, color," +
		" total_bet, total_win, idempotency_key, created_at)" +
		" VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	var key interface{}
	if spin.IdempotencyKey != "" {
		key = spin.IdempotencyKey
	}

	_, err := tx.Exec(query,
		spin.ID,
		spin.UserID,
		spin.ServerSeedID,
		spin.ClientSeed,
		spin.Nonce,
		spin.Hmac,
		spin.Number,
		string(spin.Color),
		spin.TotalBet,
		spin.TotalWin,
		key,
		spin.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *SpinRepository) SaveSpinBet(tx *sql.Tx, spinBet model.SpinBet) error {
	const op = "repository.spin.SaveSpinBet"

	const query = "INSERT INTO spin_bets(id, spin_id, type, numbers, choice, color, amount, win, created_at)" +
		" VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)"

	numbers, err := json.Marshal(spinBet.Bet.Numbers)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(query,
		spinBet.ID,
		spinBet.SpinID,
		string(spinBet.Bet.Type),
		string(numbers),
		spinBet.Bet.Choice,
		spinBet.Bet.Color,
		spinBet.Bet.Amount,
		spinBet.Win,
		spinBet.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *SpinRepository) BetsBySpinID(tx *sql.Tx, spinID string) ([]model.SpinBet, error) {
	const op = "repository.spin.BetsBySpinID"

	const query = "SELECT id, spin_id, type, numbers, choice, color, amount, win, created_at" +
		" FROM spin_bets WHERE spin_id = ?"

	rows, err := tx.Query(query, spinID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanSpinBets(rows, op)
}

type SpinWithBets struct {
	Spin model.Spin      `json:"spin"`
	Bets []model.SpinBet `json:"bets"`
}

func (repo *SpinRepository) HistoryByUser(userID string, limit, offset int) ([]SpinWithBets, error) {
	const op = "repository.spin.HistoryByUser"

	const query = "SELECT id, user_id, server_seed_id, client_seed, nonce, hmac, number, color," +
		" total_bet, total_win, created_at" +
		" FROM spins WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?"

	rows, err := repo.dbhandler.PrepareAndQuery(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var history []SpinWithBets

	for rows.Next() {
		var spin model.Spin

		err = rows.Scan(
			&spin.ID,
			&spin.UserID,
			&spin.ServerSeedID,
			&spin.ClientSeed,
			&spin.Nonce,
			&spin.Hmac,
			&spin.Number,
			&spin.Color,
			&spin.TotalBet,
			&spin.TotalWin,
			&spin.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		history = append(history, SpinWithBets{Spin: spin})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range history {
		bets, err := repo.betsBySpinID(history[i].Spin.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		history[i].Bets = bets
	}

	return history, nil
}

func (repo *SpinRepository) betsBySpinID(spinID string) ([]model.SpinBet, error) {
	const op = "repository.spin.betsBySpinID"

	const query = "SELECT id, spin_id, type, numbers, choice, color, amount, win, created_at" +
		" FROM spin_bets WHERE spin_id = ?"

	rows, err := repo.dbhandler.PrepareAndQuery(query, spinID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanSpinBets(rows, op)
}

func scanSpinBets(rows *sql.Rows, op string) ([]model.SpinBet, error) {
	var bets []model.SpinBet

	for rows.Next() {
		var (
			spinBet model.SpinBet
			betType string
			numbers string
		)

		err := rows.Scan(
			&spinBet.ID,
			&spinBet.SpinID,
			&betType,
			&numbers,
			&spinBet.Bet.Choice,
			&spinBet.Bet.Color,
			&spinBet.Bet.Amount,
			&spinBet.Win,
			&spinBet.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		spinBet.Bet.Type = config.BetType(betType)

		if err = json.Unmarshal([]byte(numbers), &spinBet.Bet.Numbers); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bets = append(bets, spinBet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bets, nil
}
