package model

import (
	"time"

	"github.com/fentashot/casino/internal/config"
)

// Bet is one wager on a spin. Numbers-based kinds carry Numbers;
// choice kinds carry Choice, except red_black which carries Color.
// Amount is in cents.
type Bet struct {
	Type    config.BetType `json:"type"`
	Numbers []int          `json:"numbers,omitempty"`
	Choice  string         `json:"choice,omitempty"`
	Color   string         `json:"color,omitempty"`
	Amount  int64          `json:"amount"`
}

// SpinBet is the persisted row for one bet with its individual win.
type SpinBet struct {
	ID        string    `json:"id"`
	SpinID    string    `json:"spin_id"`
	Bet       Bet       `json:"bet"`
	Win       int64     `json:"win"`
	CreatedAt time.Time `json:"created_at"`
}
