package repositories

import (
	"context"
	"errors"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup matches nothing. Implementations
// translate their driver's not-found error into this sentinel so the
// service layer never depends on a specific store.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when a uniqueness constraint is violated,
// e.g. marking an already-claimed digest.
var ErrDuplicate = errors.New("repository: duplicate")

// RoundRepository defines the interface for round data operations
type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	FindByNumber(ctx context.Context, number uint64) (*models.Round, error)
	// FindCurrent returns the round with the highest number.
	FindCurrent(ctx context.Context) (*models.Round, error)
	Update(ctx context.Context, round *models.Round) error
	FindAll(ctx context.Context, page, limit int64) ([]*models.Round, error)
	Count(ctx context.Context) (int64, error)
}

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByRound(ctx context.Context, roundNumber uint64, page, limit int64) ([]*models.Ticket, error)
	CountByRound(ctx context.Context, roundNumber uint64) (int64, error)
}

// PendingRequestRepository holds the single in-flight randomness
// request correlation. Put fails with ErrDuplicate while an entry
// exists; Consume removes and returns the entry matching requestID or
// fails with ErrNotFound.
type PendingRequestRepository interface {
	Put(ctx context.Context, req *models.PendingRequest) error
	Get(ctx context.Context) (*models.PendingRequest, error)
	Consume(ctx context.Context, requestID string) (*models.PendingRequest, error)
}

// ClaimRepository tracks paid-out leaf digests. MarkClaimed fails with
// ErrDuplicate if the digest is already present; Unmark exists only as
// the compensation step when a prize transfer fails.
type ClaimRepository interface {
	MarkClaimed(ctx context.Context, claimed *models.ClaimedDigest) error
	Unmark(ctx context.Context, digest string) error
	IsClaimed(ctx context.Context, digest string) (bool, error)
	FindByRound(ctx context.Context, roundNumber uint64) ([]*models.ClaimedDigest, error)
}

// FeeLedgerRepository maintains the global fee accumulator.
type FeeLedgerRepository interface {
	// AddFees atomically adds amount and returns the new total.
	AddFees(ctx context.Context, amount int64) (int64, error)
	Total(ctx context.Context) (int64, error)
}

// EventRepository defines the interface for the engine event log
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByRound(ctx context.Context, roundNumber uint64) ([]*models.Event, error)
	FindRecent(ctx context.Context, limit int64) ([]*models.Event, error)
}

// SettingsRepository stores the single engine settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.EngineSettings, error)
	Update(ctx context.Context, settings *models.EngineSettings) error
}

// AdminUserRepository defines the interface for admin user operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
