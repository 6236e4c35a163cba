package models_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/letterdraw/letterdraw-backend/internal/models"
)

func baseClaim() models.PrizeClaim {
	return models.PrizeClaim{
		Player:  "player-1",
		Letters: [3]int{4, 11, 22},
		Tier:    3,
		Amount:  4700,
		Round:   12,
	}
}

func TestClaimDigestDeterministic(t *testing.T) {
	a, b := baseClaim(), baseClaim()
	if !bytes.Equal(a.Digest(), b.Digest()) {
		t.Error("identical claims produced different digests")
	}
	if len(a.Digest()) != 32 {
		t.Errorf("digest is %d bytes, want 32", len(a.Digest()))
	}
}

func TestClaimDigestSensitivity(t *testing.T) {
	base := baseClaim()
	mutations := map[string]func(*models.PrizeClaim){
		"player":  func(c *models.PrizeClaim) { c.Player = "player-2" },
		"letters": func(c *models.PrizeClaim) { c.Letters[1] = 12 },
		"tier":    func(c *models.PrizeClaim) { c.Tier = 2 },
		"amount":  func(c *models.PrizeClaim) { c.Amount = 4701 },
		"round":   func(c *models.PrizeClaim) { c.Round = 13 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutated := baseClaim()
			mutate(&mutated)
			if bytes.Equal(base.Digest(), mutated.Digest()) {
				t.Errorf("changing %s did not change the digest", name)
			}
		})
	}
}

func TestClaimDigestHex(t *testing.T) {
	c := baseClaim()
	if c.DigestHex() != hex.EncodeToString(c.Digest()) {
		t.Error("DigestHex does not match Digest")
	}
}
