package memory

import (
	"context"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimRepository is an in-memory repositories.ClaimRepository.
type ClaimRepository struct {
	mu      sync.RWMutex
	claimed map[string]*models.ClaimedDigest
}

// NewClaimRepository creates a new in-memory ClaimRepository
func NewClaimRepository() repositories.ClaimRepository {
	return &ClaimRepository{claimed: make(map[string]*models.ClaimedDigest)}
}

func (r *ClaimRepository) MarkClaimed(_ context.Context, claimed *models.ClaimedDigest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claimed[claimed.Digest]; ok {
		return repositories.ErrDuplicate
	}
	claimed.ID = primitive.NewObjectID()
	claimed.ClaimedAt = time.Now()
	cp := *claimed
	r.claimed[claimed.Digest] = &cp
	return nil
}

func (r *ClaimRepository) Unmark(_ context.Context, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claimed[digest]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.claimed, digest)
	return nil
}

func (r *ClaimRepository) IsClaimed(_ context.Context, digest string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.claimed[digest]
	return ok, nil
}

func (r *ClaimRepository) FindByRound(_ context.Context, roundNumber uint64) ([]*models.ClaimedDigest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	claimed := []*models.ClaimedDigest{}
	for _, c := range r.claimed {
		if c.RoundNumber == roundNumber {
			cp := *c
			claimed = append(claimed, &cp)
		}
	}
	return claimed, nil
}
