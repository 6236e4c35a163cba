package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeeLedger is the single running accumulator of operational fees ever
// taken across all rounds.
type FeeLedger struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TotalCollected int64              `bson:"totalCollected" json:"totalCollected"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FeeBreakdown reports how one round's settlement fee was split.
type FeeBreakdown struct {
	RoundNumber      uint64 `json:"roundNumber"`
	SettlementAmount int64  `json:"settlementAmount"`
	Fee              int64  `json:"fee"`
	Share1           int64  `json:"share1"`
	Share2           int64  `json:"share2"`
	LedgerTotal      int64  `json:"ledgerTotal"`
}
