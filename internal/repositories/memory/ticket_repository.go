package memory

import (
	"context"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketRepository is an in-memory repositories.TicketRepository.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets []*models.Ticket
}

// NewTicketRepository creates a new in-memory TicketRepository
func NewTicketRepository() repositories.TicketRepository {
	return &TicketRepository{}
}

func (r *TicketRepository) Create(_ context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = primitive.NewObjectID()
	ticket.CreatedAt = time.Now()
	cp := *ticket
	r.tickets = append(r.tickets, &cp)
	return nil
}

func (r *TicketRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tickets {
		if t.ID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *TicketRepository) FindByRound(_ context.Context, roundNumber uint64, page, limit int64) ([]*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit

	tickets := []*models.Ticket{}
	for _, t := range r.tickets {
		if t.RoundNumber != roundNumber {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		cp := *t
		tickets = append(tickets, &cp)
		if int64(len(tickets)) >= limit {
			break
		}
	}
	return tickets, nil
}

func (r *TicketRepository) CountByRound(_ context.Context, roundNumber uint64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, t := range r.tickets {
		if t.RoundNumber == roundNumber {
			count++
		}
	}
	return count, nil
}
