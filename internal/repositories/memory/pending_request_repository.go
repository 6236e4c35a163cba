package memory

import (
	"context"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingRequestRepository is an in-memory single-flight correlation
// table.
type PendingRequestRepository struct {
	mu      sync.Mutex
	pending *models.PendingRequest
}

// NewPendingRequestRepository creates a new in-memory PendingRequestRepository
func NewPendingRequestRepository() repositories.PendingRequestRepository {
	return &PendingRequestRepository{}
}

func (r *PendingRequestRepository) Put(_ context.Context, req *models.PendingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		return repositories.ErrDuplicate
	}
	req.ID = primitive.NewObjectID()
	req.RequestedAt = time.Now()
	cp := *req
	r.pending = &cp
	return nil
}

func (r *PendingRequestRepository) Get(_ context.Context) (*models.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *r.pending
	return &cp, nil
}

func (r *PendingRequestRepository) Consume(_ context.Context, requestID string) (*models.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil || r.pending.RequestID != requestID {
		return nil, repositories.ErrNotFound
	}
	consumed := r.pending
	r.pending = nil
	return consumed, nil
}
