package provably_fair

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/fentashot/casino/internal/config"
)

// Data is the full input of one spin. All entropy originates from the
// server secret; given the revealed secret anyone can recompute the
// outcome.
type Data struct {
	ServerSeedHex string
	ClientSeed    string
	Nonce         int64
}

type Result struct {
	Number int          `json:"number"`
	Color  config.Color `json:"color"`
	Hmac   string       `json:"hmac"`
}

// Hmac computes HMAC-SHA256(key = bytes(serverSeedHex),
// message = "clientSeed:nonce") as a hex digest.
func Hmac(data Data) (string, error) {
	const op = "provably_fair.Hmac"

	key, err := hex.DecodeString(data.ServerSeedHex)
	if err != nil {
		return "", fmt.Errorf("%s: server seed is not hex: %w", op, err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(fmt.Sprintf("%s:%d", data.ClientSeed, data.Nonce)))

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Spin maps the digest onto a pocket: the first 4 digest bytes as a
// big-endian uint32, mod 37. Deterministic for a given Data.
func Spin(data Data) (*Result, error) {
	const op = "provably_fair.Spin"

	digest, err := Hmac(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	number, err := numberFromDigest(digest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		Number: number,
		Color:  config.ColorOf(number),
		Hmac:   digest,
	}, nil
}

// Verify recomputes a spin from a revealed secret and reports whether
// it reproduces the published hmac and number.
func Verify(data Data, wantHmac string, wantNumber int) (bool, error) {
	const op = "provably_fair.Verify"

	res, err := Spin(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.Hmac == wantHmac && res.Number == wantNumber, nil
}

func numberFromDigest(digest string) (int, error) {
	raw, err := hex.DecodeString(digest[:8])
	if err != nil {
		return 0, err
	}

	value := binary.BigEndian.Uint32(raw)

	return int(value % config.PocketCount), nil
}
