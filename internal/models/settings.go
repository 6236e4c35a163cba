package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngineSettings holds the admin-configurable parameters of the
// lottery engine. A single document, updated only through the admin
// operations, each of which validates and emits a change event.
type EngineSettings struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TicketPrice       int64              `bson:"ticketPrice" json:"ticketPrice"`             // minor units, > 0
	TicketThreshold   int64              `bson:"ticketThreshold" json:"ticketThreshold"`     // > 0
	FeeSplitPercent   int64              `bson:"feeSplitPercent" json:"feeSplitPercent"`     // 0..100, remainder to receiver 2
	FeeReceiver1      string             `bson:"feeReceiver1" json:"feeReceiver1"`
	FeeReceiver2      string             `bson:"feeReceiver2" json:"feeReceiver2"`
	VRFSubscriptionID string             `bson:"vrfSubscriptionId" json:"vrfSubscriptionId"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
