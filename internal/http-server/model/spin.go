package model

import (
	"time"

	"github.com/fentashot/casino/internal/config"
)

// Spin is the immutable record of one settled spin.
type Spin struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	ServerSeedID   string       `json:"server_seed_id"`
	ClientSeed     string       `json:"client_seed"`
	Nonce          int64        `json:"nonce"`
	Hmac           string       `json:"hmac"`
	Number         int          `json:"number"`
	Color          config.Color `json:"color"`
	TotalBet       int64        `json:"total_bet"`
	TotalWin       int64        `json:"total_win"`
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
