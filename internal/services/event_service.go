package services

import (
	"context"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"

	"golang.org/x/exp/slog"
)

// EventService appends engine events to the persistent log and fans
// them out to live subscribers. Emission is best effort: the log is
// a record of state changes that have already been committed, so a
// failed append is logged and never fails the producing operation.
type EventService struct {
	eventRepo   repositories.EventRepository
	broadcaster Broadcaster
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.EventRepository, broadcaster Broadcaster) *EventService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &EventService{eventRepo: eventRepo, broadcaster: broadcaster}
}

// Emit records and broadcasts one engine event.
func (s *EventService) Emit(ctx context.Context, eventType models.EventType, roundNumber uint64, payload map[string]interface{}) {
	event := &models.Event{
		Type:        eventType,
		RoundNumber: roundNumber,
		Payload:     payload,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Warn("Failed to append event", "error", err, "type", eventType, "round", roundNumber)
		return
	}
	s.broadcaster.Broadcast(event)
}

// EventsByRound returns a round's events in emission order.
func (s *EventService) EventsByRound(ctx context.Context, roundNumber uint64) ([]*models.Event, error) {
	return s.eventRepo.FindByRound(ctx, roundNumber)
}

// RecentEvents returns the latest events, newest first.
func (s *EventService) RecentEvents(ctx context.Context, limit int64) ([]*models.Event, error) {
	return s.eventRepo.FindRecent(ctx, limit)
}
