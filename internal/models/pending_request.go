package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingRequest correlates an in-flight randomness request to the
// round it was issued for. At most one pending request exists
// system-wide at any time; it is consumed exactly once, by its
// matching fulfilment callback.
type PendingRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RequestID   string             `bson:"requestId" json:"requestId"`
	RoundNumber uint64             `bson:"roundNumber" json:"roundNumber"`
	RequestedAt time.Time          `bson:"requestedAt" json:"requestedAt"`
}
