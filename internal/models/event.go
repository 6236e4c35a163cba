package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType identifies an engine event.
type EventType string

const (
	EventTicketBought        EventType = "TICKET_BOUGHT"
	EventDrawTriggered       EventType = "DRAW_TRIGGERED"
	EventWinningLetters      EventType = "WINNING_LETTERS"
	EventCommitmentSubmitted EventType = "COMMITMENT_SUBMITTED"
	EventFeesDistributed     EventType = "FEES_DISTRIBUTED"
	EventPrizeClaimed        EventType = "PRIZE_CLAIMED"
	EventConfigUpdated       EventType = "CONFIG_UPDATED"
	EventRequestCleared      EventType = "REQUEST_CLEARED"
)

// Event is one entry of the append-only engine event log. The
// off-chain authority scans these to compute a round's winner list.
type Event struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Type        EventType              `bson:"type" json:"type"`
	RoundNumber uint64                 `bson:"roundNumber" json:"roundNumber"`
	Payload     map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}
