package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewHexSecret returns a hex string backed by size bytes of
// crypto/rand entropy.
func NewHexSecret(size int) (string, error) {
	const op = "random.NewHexSecret"

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return hex.EncodeToString(buf), nil
}
