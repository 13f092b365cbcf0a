package provably_fair

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fentashot/casino/internal/config"
)

var testSecret = strings.Repeat("aa", 32)

func TestSpinGoldenVectors(t *testing.T) {
	cases := []struct {
		name       string
		clientSeed string
		nonce      int64
		wantNumber int
		wantColor  config.Color
		wantHmac   string
	}{
		{
			name:       "Seed1Nonce1",
			clientSeed: "seed1",
			nonce:      1,
			wantNumber: 26,
			wantColor:  config.Black,
			wantHmac:   "4724fadf61e54e5b59423d2c9776b00d4a4527c6b6444603801d06ab52abfd57",
		},
		{
			name:       "Seed1Nonce2",
			clientSeed: "seed1",
			nonce:      2,
			wantNumber: 5,
			wantColor:  config.Red,
		},
		{
			name:       "AlphaNonce1",
			clientSeed: "alpha",
			nonce:      1,
			wantNumber: 28,
			wantColor:  config.Black,
		},
		{
			name:       "VerifyMeNonce7",
			clientSeed: "verify-me",
			nonce:      7,
			wantNumber: 12,
			wantColor:  config.Red,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Spin(Data{
				ServerSeedHex: testSecret,
				ClientSeed:    tc.clientSeed,
				Nonce:         tc.nonce,
			})

			assert.NoError(t, err)
			assert.Equal(t, tc.wantNumber, res.Number)
			assert.Equal(t, tc.wantColor, res.Color)

			if tc.wantHmac != "" {
				assert.Equal(t, tc.wantHmac, res.Hmac)
			}
		})
	}
}

func TestSpinIsDeterministic(t *testing.T) {
	data := Data{ServerSeedHex: testSecret, ClientSeed: "determinism", Nonce: 42}

	first, err := Spin(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := Spin(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assert.Equal(t, first.Number, again.Number)
		assert.Equal(t, first.Hmac, again.Hmac)
	}
}

func TestSpinRejectsNonHexSecret(t *testing.T) {
	_, err := Spin(Data{ServerSeedHex: "not-hex", ClientSeed: "x", Nonce: 1})

	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	data := Data{ServerSeedHex: testSecret, ClientSeed: "seed1", Nonce: 1}

	ok, err := Verify(data, "4724fadf61e54e5b59423d2c9776b00d4a4527c6b6444603801d06ab52abfd57", 26)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(data, "4724fadf61e54e5b59423d2c9776b00d4a4527c6b6444603801d06ab52abfd57", 7)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// The pocket distribution over many nonces should be uniform mod 37.
// A chi-squared goodness-of-fit test with a 99.99% quantile threshold
// keeps the test deterministic and far from flaking.
func TestSpinUniformDistribution(t *testing.T) {
	const perPocket = 1000

	const samples = perPocket * config.PocketCount

	counts := make([]int, config.PocketCount)

	for nonce := int64(1); nonce <= samples; nonce++ {
		res, err := Spin(Data{
			ServerSeedHex: testSecret,
			ClientSeed:    "uniformity",
			Nonce:         nonce,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		counts[res.Number]++
	}

	var chi2 float64

	for _, observed := range counts {
		diff := float64(observed - perPocket)
		chi2 += diff * diff / perPocket
	}

	threshold := distuv.ChiSquared{K: config.PocketCount - 1}.Quantile(0.9999)

	if chi2 > threshold {
		t.Errorf("distribution looks non-uniform: chi2 %.2f exceeds %.2f", chi2, threshold)

		for number, observed := range counts {
			t.Log(fmt.Sprintf("pocket %d: %d", number, observed))
		}
	}
}
