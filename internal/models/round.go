package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundStatus represents the lifecycle phase of a round
type RoundStatus string

const (
	// RoundStatusOpen: tickets are on sale.
	RoundStatusOpen RoundStatus = "OPEN"
	// RoundStatusDrawing: the ticket threshold was reached and a
	// randomness request is in flight; sales are blocked.
	RoundStatusDrawing RoundStatus = "DRAWING"
	// RoundStatusClosed: the draw was fulfilled and the winning
	// letters are fixed; the commitment root is still missing.
	RoundStatusClosed RoundStatus = "CLOSED"
	// RoundStatusSettled: the authority submitted the commitment root.
	RoundStatusSettled RoundStatus = "SETTLED"
)

// Round represents one complete cycle of ticket sales, draw and
// settlement. Rounds are numbered from 1 and are never deleted.
type Round struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Number           uint64             `bson:"number" json:"number"`
	Status           RoundStatus        `bson:"status" json:"status"`
	TicketsSold      int64              `bson:"ticketsSold" json:"ticketsSold"`
	PrizePool        int64              `bson:"prizePool" json:"prizePool"` // minor currency units
	WinningLetters   []int              `bson:"winningLetters,omitempty" json:"winningLetters,omitempty"`
	CommitmentRoot   string             `bson:"commitmentRoot,omitempty" json:"commitmentRoot,omitempty"` // hex, one-shot
	SettlementAmount int64              `bson:"settlementAmount,omitempty" json:"settlementAmount,omitempty"`
	ClosedAt         time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	SettledAt        time.Time          `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DrawCompleted reports whether the round's winning letters are fixed.
func (r *Round) DrawCompleted() bool {
	return len(r.WinningLetters) > 0
}
