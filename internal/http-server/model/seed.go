package model

import "time"

// ServerSeed is the house commitment for provably-fair spins. Exactly
// one seed is active at a time; Secret may be exposed only after the
// seed has been deactivated and revealed.
type ServerSeed struct {
	ID         string     `json:"id"`
	Secret     string     `json:"-"`
	Hash       string     `json:"hash"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	RevealedAt *time.Time `json:"revealed_at,omitempty"`
}
