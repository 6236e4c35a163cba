package models

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/sha3"
)

// PrizeClaim is the canonical tuple a winner presents together with a
// Merkle proof. Its digest is the unit verified against a round's
// commitment root.
type PrizeClaim struct {
	Player  string `bson:"player" json:"player"`
	Letters [3]int `bson:"letters" json:"letters"`
	Tier    int    `bson:"tier" json:"tier"`
	Amount  int64  `bson:"amount" json:"amount"`
	Round   uint64 `bson:"round" json:"round"`
}

// Digest computes the keccak256 leaf digest over the canonical
// encoding of the claim tuple. The encoding is part of the wire format
// shared with the off-chain authority and must not change:
//
//	uint16 BE length of player | player UTF-8 bytes |
//	3 letter bytes | tier byte | amount uint64 BE | round uint64 BE
//
// Each letter and the tier occupy exactly one byte, so their values
// must be in [0, 255]. Callers enforce the range before hashing;
// Digest itself truncates.
func (c *PrizeClaim) Digest() []byte {
	buf := make([]byte, 0, 2+len(c.Player)+3+1+8+8)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Player)))
	buf = append(buf, c.Player...)
	for _, l := range c.Letters {
		buf = append(buf, byte(l))
	}
	buf = append(buf, byte(c.Tier))
	buf = binary.BigEndian.AppendUint64(buf, uint64(c.Amount))
	buf = binary.BigEndian.AppendUint64(buf, c.Round)

	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	return h.Sum(nil)
}

// DigestHex returns the hex encoding of Digest, the form used as the
// claimed-set key.
func (c *PrizeClaim) DigestHex() string {
	return hex.EncodeToString(c.Digest())
}

// ClaimedDigest records a leaf digest that has been paid out. A digest
// may be marked claimed at most once, globally, forever.
type ClaimedDigest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Digest      string             `bson:"digest" json:"digest"` // hex, unique
	RoundNumber uint64             `bson:"roundNumber" json:"roundNumber"`
	Player      string             `bson:"player" json:"player"`
	Amount      int64              `bson:"amount" json:"amount"`
	ClaimedAt   time.Time          `bson:"claimedAt" json:"claimedAt"`
}
