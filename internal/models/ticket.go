package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket represents a single ticket purchase within a round.
//
// The three chosen letters are stored exactly as submitted: the engine
// deliberately performs no range or uniqueness validation on them. The
// off-chain authority works from the recorded purchases when it
// computes winners.
type Ticket struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoundNumber uint64             `bson:"roundNumber" json:"roundNumber"`
	Player      string             `bson:"player" json:"player"`
	Letters     [3]int             `bson:"letters" json:"letters"`
	Price       int64              `bson:"price" json:"price"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
