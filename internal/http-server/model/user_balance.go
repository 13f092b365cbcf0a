package model

import "time"

// UserBalance is the per-user ledger row. LastNonce increases by
// exactly one per accepted spin; Balance is in cents and changes only
// inside the spin transaction or via an administrative adjustment.
type UserBalance struct {
	UserID    string     `json:"user_id"`
	Balance   int64      `json:"balance"`
	LastNonce int64      `json:"last_nonce"`
	UpdatedAt *time.Time `json:"updated_at"`
}
