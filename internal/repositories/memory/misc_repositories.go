package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeeLedgerRepository is an in-memory repositories.FeeLedgerRepository.
type FeeLedgerRepository struct {
	mu    sync.Mutex
	total int64
}

// NewFeeLedgerRepository creates a new in-memory FeeLedgerRepository
func NewFeeLedgerRepository() repositories.FeeLedgerRepository {
	return &FeeLedgerRepository{}
}

func (r *FeeLedgerRepository) AddFees(_ context.Context, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total += amount
	return r.total, nil
}

func (r *FeeLedgerRepository) Total(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total, nil
}

// EventRepository is an in-memory repositories.EventRepository.
type EventRepository struct {
	mu     sync.RWMutex
	events []*models.Event
}

// NewEventRepository creates a new in-memory EventRepository
func NewEventRepository() repositories.EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *EventRepository) FindByRound(_ context.Context, roundNumber uint64) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := []*models.Event{}
	for _, e := range r.events {
		if e.RoundNumber == roundNumber {
			cp := *e
			events = append(events, &cp)
		}
	}
	return events, nil
}

func (r *EventRepository) FindRecent(_ context.Context, limit int64) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events := make([]*models.Event, 0, limit)
	for i := len(r.events) - 1; i >= 0 && int64(len(events)) < limit; i-- {
		cp := *r.events[i]
		events = append(events, &cp)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// SettingsRepository is an in-memory repositories.SettingsRepository.
type SettingsRepository struct {
	mu       sync.Mutex
	settings *models.EngineSettings
}

// NewSettingsRepository creates a new in-memory SettingsRepository,
// optionally seeded with initial settings.
func NewSettingsRepository(seed *models.EngineSettings) repositories.SettingsRepository {
	r := &SettingsRepository{}
	if seed != nil {
		cp := *seed
		cp.UpdatedAt = time.Now()
		r.settings = &cp
	}
	return r
}

func (r *SettingsRepository) Get(_ context.Context) (*models.EngineSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *SettingsRepository) Update(_ context.Context, settings *models.EngineSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings.UpdatedAt = time.Now()
	cp := *settings
	r.settings = &cp
	return nil
}

// AdminUserRepository is an in-memory repositories.AdminUserRepository.
type AdminUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.AdminUser // keyed by email
}

// NewAdminUserRepository creates a new in-memory AdminUserRepository
func NewAdminUserRepository() repositories.AdminUserRepository {
	return &AdminUserRepository{users: make(map[string]*models.AdminUser)}
}

func (r *AdminUserRepository) Create(_ context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return repositories.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *AdminUserRepository) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *AdminUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}
