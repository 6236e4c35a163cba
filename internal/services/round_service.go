package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"github.com/letterdraw/letterdraw-backend/internal/utils"
	"github.com/letterdraw/letterdraw-backend/pkg/vrfclient"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RoundServiceImpl implements RoundService
var _ RoundService = (*RoundServiceImpl)(nil)

// timeNow is stubbed in tests.
var timeNow = time.Now

var timeZero time.Time

// EngineStatus is the read-only snapshot of the engine's sales state.
type EngineStatus struct {
	CurrentRound     uint64 `json:"currentRound"`
	TicketsSold      int64  `json:"ticketsSold"`
	PrizePool        int64  `json:"prizePool"`
	TicketPrice      int64  `json:"ticketPrice"`
	TicketThreshold  int64  `json:"ticketThreshold"`
	DrawPending      bool   `json:"drawPending"`
	PendingRequestID string `json:"pendingRequestId,omitempty"`
	PendingRound     uint64 `json:"pendingRound,omitempty"`
}

// VRFParams are the fixed oracle request parameters. The subscription
// id is configuration of the engine and lives in EngineSettings.
type VRFParams struct {
	KeyHash          string
	Confirmations    uint16
	CallbackGasLimit uint32
}

// RoundService owns the round lifecycle: ticket sales, the
// single-flight draw guard, and the fulfilment path that fixes a
// round's winning letters.
type RoundService interface {
	BuyTicket(ctx context.Context, player string, letters [3]int, payment int64) (*models.Ticket, error)
	OnRandomnessFulfilled(ctx context.Context, requestID string, randomValue *big.Int) (*models.Round, error)
	ClearStuckRequest(ctx context.Context) error

	UpdateTicketPrice(ctx context.Context, price int64) error
	UpdateTicketThreshold(ctx context.Context, threshold int64) error
	UpdateFeeConfig(ctx context.Context, receiver1, receiver2 string, splitPercent int64) error
	UpdateVRFSubscription(ctx context.Context, subscriptionID string) error

	Status(ctx context.Context) (*EngineStatus, error)
	GetRound(ctx context.Context, number uint64) (*models.Round, error)
	ListRounds(ctx context.Context, page, limit int64) ([]*models.Round, error)
	Settings(ctx context.Context) (*models.EngineSettings, error)
}

// RoundServiceImpl implements RoundService. A single mutex serializes
// every operation end to end: reads and writes of round state never
// interleave, which is the only synchronization discipline the engine
// needs.
type RoundServiceImpl struct {
	mu sync.Mutex

	roundRepo    repositories.RoundRepository
	ticketRepo   repositories.TicketRepository
	pendingRepo  repositories.PendingRequestRepository
	settingsRepo repositories.SettingsRepository

	vrf       vrfclient.Requester
	vrfParams VRFParams
	events    *EventService
}

// NewRoundService creates a new RoundServiceImpl
func NewRoundService(
	roundRepo repositories.RoundRepository,
	ticketRepo repositories.TicketRepository,
	pendingRepo repositories.PendingRequestRepository,
	settingsRepo repositories.SettingsRepository,
	vrf vrfclient.Requester,
	vrfParams VRFParams,
	events *EventService,
) *RoundServiceImpl {
	return &RoundServiceImpl{
		roundRepo:    roundRepo,
		ticketRepo:   ticketRepo,
		pendingRepo:  pendingRepo,
		settingsRepo: settingsRepo,
		vrf:          vrf,
		vrfParams:    vrfParams,
		events:       events,
	}
}

// currentRound returns the newest round, creating round 1 on first use.
func (s *RoundServiceImpl) currentRound(ctx context.Context) (*models.Round, error) {
	round, err := s.roundRepo.FindCurrent(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load current round: %w", err)
	}

	round = &models.Round{Number: 1, Status: models.RoundStatusOpen}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create first round: %w", err)
	}
	slog.Info("Opened first round")
	return round, nil
}

// BuyTicket sells one ticket for the current round. The payment must
// equal the configured ticket price exactly, and no draw may be in
// flight. The three chosen letters are recorded as-is, without range
// or uniqueness validation. Reaching the ticket threshold triggers the
// draw within the same operation.
func (s *RoundServiceImpl) BuyTicket(ctx context.Context, player string, letters [3]int, payment int64) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	if player == "" {
		return nil, apperrors.Validationf("player identity is required")
	}
	if payment != settings.TicketPrice {
		return nil, apperrors.Validationf("payment of %d does not match ticket price %d", payment, settings.TicketPrice)
	}

	if _, err := s.pendingRepo.Get(ctx); err == nil {
		return nil, apperrors.Statef("ticket sales are paused while a draw is pending")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending draw: %w", err)
	}

	round, err := s.currentRound(ctx)
	if err != nil {
		return nil, err
	}

	prevSold, prevPool := round.TicketsSold, round.PrizePool
	round.TicketsSold++
	round.PrizePool += settings.TicketPrice
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to update round counters: %w", err)
	}

	ticket := &models.Ticket{
		RoundNumber: round.Number,
		Player:      player,
		Letters:     letters,
		Price:       settings.TicketPrice,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		round.TicketsSold, round.PrizePool = prevSold, prevPool
		if uerr := s.roundRepo.Update(ctx, round); uerr != nil {
			slog.Error("Failed to roll back round counters", "error", uerr, "round", round.Number)
		}
		return nil, fmt.Errorf("failed to record ticket: %w", err)
	}

	triggered := false
	var requestID string
	if round.TicketsSold >= settings.TicketThreshold {
		requestID, err = s.triggerDraw(ctx, round, settings)
		if err != nil {
			// The purchase reverts with the failed trigger: the whole
			// operation is one atomic unit.
			if derr := s.ticketRepo.Delete(ctx, ticket.ID); derr != nil {
				slog.Error("Failed to roll back ticket", "error", derr, "ticketId", ticket.ID)
			}
			round.TicketsSold, round.PrizePool = prevSold, prevPool
			round.Status = models.RoundStatusOpen
			if uerr := s.roundRepo.Update(ctx, round); uerr != nil {
				slog.Error("Failed to roll back round counters", "error", uerr, "round", round.Number)
			}
			return nil, err
		}
		triggered = true
	}

	s.events.Emit(ctx, models.EventTicketBought, round.Number, map[string]interface{}{
		"player":  player,
		"letters": letters,
	})
	if triggered {
		s.events.Emit(ctx, models.EventDrawTriggered, round.Number, map[string]interface{}{
			"ticketsSold": round.TicketsSold,
			"requestId":   requestID,
		})
		slog.Info("Draw triggered", "round", round.Number, "ticketsSold", round.TicketsSold, "requestId", requestID)
	}

	return ticket, nil
}

// triggerDraw issues the randomness request and records the
// single-flight correlation. Callers hold the service mutex; re-entry
// cannot happen because BuyTicket refuses purchases while a request is
// pending.
func (s *RoundServiceImpl) triggerDraw(ctx context.Context, round *models.Round, settings *models.EngineSettings) (string, error) {
	req := vrfclient.RandomnessRequest{
		KeyHash:          s.vrfParams.KeyHash,
		SubscriptionID:   settings.VRFSubscriptionID,
		Confirmations:    s.vrfParams.Confirmations,
		CallbackGasLimit: s.vrfParams.CallbackGasLimit,
		NumWords:         1,
	}
	requestID, err := s.vrf.RequestRandomness(ctx, req)
	if err != nil {
		return "", apperrors.Transferf(err, "randomness request failed")
	}

	pending := &models.PendingRequest{RequestID: requestID, RoundNumber: round.Number}
	if err := s.pendingRepo.Put(ctx, pending); err != nil {
		return "", fmt.Errorf("failed to record pending request: %w", err)
	}

	round.Status = models.RoundStatusDrawing
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return "", fmt.Errorf("failed to mark round drawing: %w", err)
	}
	return requestID, nil
}

// OnRandomnessFulfilled consumes the oracle callback. The request id
// must match the single pending correlation; unknown, already
// consumed, or cleared ids are rejected outright. On success the
// round's winning letters are fixed, the round closes, and the next
// round opens with zeroed counters. This is the only path that ever
// populates a winning set, and it runs exactly once per round.
func (s *RoundServiceImpl) OnRandomnessFulfilled(ctx context.Context, requestID string, randomValue *big.Int) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if randomValue == nil || randomValue.Sign() < 0 {
		return nil, apperrors.Validationf("random value must be a non-negative integer")
	}

	pending, err := s.pendingRepo.Consume(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Statef("request id %q is not pending", requestID)
		}
		return nil, fmt.Errorf("failed to consume pending request: %w", err)
	}

	round, err := s.roundRepo.FindByNumber(ctx, pending.RoundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load round %d: %w", pending.RoundNumber, err)
	}

	letters := utils.ExpandWinningLetters(randomValue)
	round.WinningLetters = letters
	round.Status = models.RoundStatusClosed
	round.ClosedAt = timeNow()
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to close round %d: %w", round.Number, err)
	}

	next := &models.Round{Number: round.Number + 1, Status: models.RoundStatusOpen}
	if err := s.roundRepo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to open round %d: %w", next.Number, err)
	}

	s.events.Emit(ctx, models.EventWinningLetters, round.Number, map[string]interface{}{
		"requestId": requestID,
		"letters":   letters,
	})

	slog.Info("Draw fulfilled", "round", round.Number, "letters", letters, "nextRound", next.Number)
	return round, nil
}

// ClearStuckRequest cancels the pending randomness request so ticket
// sales can resume after an oracle that never calls back. A later
// callback for the cleared id is rejected like any unknown id. The
// next purchase at or above the threshold re-triggers the draw.
func (s *RoundServiceImpl) ClearStuckRequest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.pendingRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Statef("no randomness request is pending")
		}
		return fmt.Errorf("failed to load pending request: %w", err)
	}

	if _, err := s.pendingRepo.Consume(ctx, pending.RequestID); err != nil {
		return fmt.Errorf("failed to clear pending request: %w", err)
	}

	round, err := s.roundRepo.FindByNumber(ctx, pending.RoundNumber)
	if err != nil {
		return fmt.Errorf("failed to load round %d: %w", pending.RoundNumber, err)
	}
	round.Status = models.RoundStatusOpen
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return fmt.Errorf("failed to reopen round %d: %w", round.Number, err)
	}

	s.events.Emit(ctx, models.EventRequestCleared, pending.RoundNumber, map[string]interface{}{
		"requestId": pending.RequestID,
	})

	slog.Warn("Cleared stuck randomness request", "requestId", pending.RequestID, "round", pending.RoundNumber)
	return nil
}

// UpdateTicketPrice sets the ticket price. Must be positive.
func (s *RoundServiceImpl) UpdateTicketPrice(ctx context.Context, price int64) error {
	if price <= 0 {
		return apperrors.Validationf("ticket price must be positive")
	}
	return s.updateSettings(ctx, "ticketPrice", price, func(settings *models.EngineSettings) {
		settings.TicketPrice = price
	})
}

// UpdateTicketThreshold sets the per-round ticket threshold. Must be
// positive.
func (s *RoundServiceImpl) UpdateTicketThreshold(ctx context.Context, threshold int64) error {
	if threshold <= 0 {
		return apperrors.Validationf("ticket threshold must be positive")
	}
	return s.updateSettings(ctx, "ticketThreshold", threshold, func(settings *models.EngineSettings) {
		settings.TicketThreshold = threshold
	})
}

// UpdateFeeConfig sets the fee receivers and the percentage of the fee
// routed to receiver 1; the remainder goes to receiver 2.
func (s *RoundServiceImpl) UpdateFeeConfig(ctx context.Context, receiver1, receiver2 string, splitPercent int64) error {
	if splitPercent < 0 || splitPercent > 100 {
		return apperrors.Validationf("fee split must be between 0 and 100")
	}
	if receiver1 == "" || receiver2 == "" {
		return apperrors.Validationf("both fee receivers are required")
	}
	return s.updateSettings(ctx, "feeConfig", map[string]interface{}{
		"receiver1": receiver1,
		"receiver2": receiver2,
		"split":     splitPercent,
	}, func(settings *models.EngineSettings) {
		settings.FeeReceiver1 = receiver1
		settings.FeeReceiver2 = receiver2
		settings.FeeSplitPercent = splitPercent
	})
}

// UpdateVRFSubscription sets the oracle subscription identifier.
func (s *RoundServiceImpl) UpdateVRFSubscription(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return apperrors.Validationf("subscription id is required")
	}
	return s.updateSettings(ctx, "vrfSubscriptionId", subscriptionID, func(settings *models.EngineSettings) {
		settings.VRFSubscriptionID = subscriptionID
	})
}

func (s *RoundServiceImpl) updateSettings(ctx context.Context, key string, value interface{}, apply func(*models.EngineSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load engine settings: %w", err)
	}
	apply(settings)
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update engine settings: %w", err)
	}

	s.events.Emit(ctx, models.EventConfigUpdated, 0, map[string]interface{}{
		"key":   key,
		"value": value,
	})
	slog.Info("Engine setting updated", "key", key, "value", value)
	return nil
}

// Status returns the engine's current sales snapshot.
func (s *RoundServiceImpl) Status(ctx context.Context) (*EngineStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}
	round, err := s.currentRound(ctx)
	if err != nil {
		return nil, err
	}

	status := &EngineStatus{
		CurrentRound:    round.Number,
		TicketsSold:     round.TicketsSold,
		PrizePool:       round.PrizePool,
		TicketPrice:     settings.TicketPrice,
		TicketThreshold: settings.TicketThreshold,
	}

	pending, err := s.pendingRepo.Get(ctx)
	if err == nil {
		status.DrawPending = true
		status.PendingRequestID = pending.RequestID
		status.PendingRound = pending.RoundNumber
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending draw: %w", err)
	}

	return status, nil
}

// GetRound returns one round by number.
func (s *RoundServiceImpl) GetRound(ctx context.Context, number uint64) (*models.Round, error) {
	round, err := s.roundRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Statef("round %d does not exist", number)
		}
		return nil, err
	}
	return round, nil
}

// ListRounds returns rounds newest first.
func (s *RoundServiceImpl) ListRounds(ctx context.Context, page, limit int64) ([]*models.Round, error) {
	return s.roundRepo.FindAll(ctx, page, limit)
}

// Settings returns the current engine settings.
func (s *RoundServiceImpl) Settings(ctx context.Context) (*models.EngineSettings, error) {
	return s.settingsRepo.Get(ctx)
}
