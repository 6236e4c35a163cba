// Package memory provides in-memory repository implementations. They
// back the unit tests and the storage-free mock mode; behavior matches
// the MongoDB implementations, including the ErrNotFound/ErrDuplicate
// contract.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRepository is an in-memory repositories.RoundRepository.
type RoundRepository struct {
	mu     sync.RWMutex
	rounds map[uint64]*models.Round
}

// NewRoundRepository creates a new in-memory RoundRepository
func NewRoundRepository() repositories.RoundRepository {
	return &RoundRepository{rounds: make(map[uint64]*models.Round)}
}

func (r *RoundRepository) Create(_ context.Context, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[round.Number]; ok {
		return repositories.ErrDuplicate
	}
	round.ID = primitive.NewObjectID()
	round.CreatedAt = time.Now()
	round.UpdatedAt = time.Now()
	cp := *round
	r.rounds[round.Number] = &cp
	return nil
}

func (r *RoundRepository) FindByNumber(_ context.Context, number uint64) (*models.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	round, ok := r.rounds[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *round
	return &cp, nil
}

func (r *RoundRepository) FindCurrent(_ context.Context) (*models.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var current *models.Round
	for _, round := range r.rounds {
		if current == nil || round.Number > current.Number {
			current = round
		}
	}
	if current == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *current
	return &cp, nil
}

func (r *RoundRepository) Update(_ context.Context, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[round.Number]; !ok {
		return repositories.ErrNotFound
	}
	round.UpdatedAt = time.Now()
	cp := *round
	r.rounds[round.Number] = &cp
	return nil
}

func (r *RoundRepository) FindAll(_ context.Context, page, limit int64) ([]*models.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	var max uint64
	for n := range r.rounds {
		if n > max {
			max = n
		}
	}

	rounds := []*models.Round{}
	skip := (page - 1) * limit
	for n := max; n >= 1; n-- {
		round, ok := r.rounds[n]
		if !ok {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		cp := *round
		rounds = append(rounds, &cp)
		if int64(len(rounds)) >= limit {
			break
		}
	}
	return rounds, nil
}

func (r *RoundRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rounds)), nil
}
