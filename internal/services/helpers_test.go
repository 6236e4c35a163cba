package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"github.com/letterdraw/letterdraw-backend/internal/repositories/memory"
	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/letterdraw/letterdraw-backend/pkg/vrfclient"
)

// fakeVRF hands out sequential request ids and records every request.
type fakeVRF struct {
	mu       sync.Mutex
	requests []vrfclient.RandomnessRequest
	fail     bool
}

func (f *fakeVRF) RequestRandomness(_ context.Context, req vrfclient.RandomnessRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("oracle unreachable")
	}
	f.requests = append(f.requests, req)
	return fmt.Sprintf("req-%d", len(f.requests)), nil
}

type transferCall struct {
	recipient string
	amount    int64
	reference string
}

// fakeGateway records transfers and can be told to fail.
type fakeGateway struct {
	mu        sync.Mutex
	transfers []transferCall
	fail      bool
}

func (g *fakeGateway) Transfer(_ context.Context, recipient string, amount int64, reference string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return "", errors.New("gateway rejected transfer")
	}
	g.transfers = append(g.transfers, transferCall{recipient: recipient, amount: amount, reference: reference})
	return fmt.Sprintf("tx-%d", len(g.transfers)), nil
}

// flakyEventRepo delegates to a real event repo but can be told to
// fail appends, simulating a down event store.
type flakyEventRepo struct {
	inner repositories.EventRepository
	fail  bool
}

func (r *flakyEventRepo) Create(ctx context.Context, event *models.Event) error {
	if r.fail {
		return errors.New("event store down")
	}
	return r.inner.Create(ctx, event)
}

func (r *flakyEventRepo) FindByRound(ctx context.Context, roundNumber uint64) ([]*models.Event, error) {
	return r.inner.FindByRound(ctx, roundNumber)
}

func (r *flakyEventRepo) FindRecent(ctx context.Context, limit int64) ([]*models.Event, error) {
	return r.inner.FindRecent(ctx, limit)
}

func defaultSettings() *models.EngineSettings {
	return &models.EngineSettings{
		TicketPrice:       100,
		TicketThreshold:   3,
		FeeSplitPercent:   50,
		FeeReceiver1:      "operations",
		FeeReceiver2:      "treasury",
		VRFSubscriptionID: "sub-1",
	}
}

// engineFixture wires the full service stack onto memory repositories.
type engineFixture struct {
	rounds   repositories.RoundRepository
	tickets  repositories.TicketRepository
	pending  repositories.PendingRequestRepository
	claims   repositories.ClaimRepository
	fees     repositories.FeeLedgerRepository
	settings repositories.SettingsRepository

	vrf      *fakeVRF
	gateway  *fakeGateway
	eventLog *flakyEventRepo

	roundSvc services.RoundService
	claimSvc services.ClaimService
	feeSvc   services.FeeService
	events   *services.EventService
}

func newEngine(settings *models.EngineSettings) *engineFixture {
	if settings == nil {
		settings = defaultSettings()
	}

	f := &engineFixture{
		rounds:   memory.NewRoundRepository(),
		tickets:  memory.NewTicketRepository(),
		pending:  memory.NewPendingRequestRepository(),
		claims:   memory.NewClaimRepository(),
		fees:     memory.NewFeeLedgerRepository(),
		settings: memory.NewSettingsRepository(settings),
		vrf:      &fakeVRF{},
		gateway:  &fakeGateway{},
		eventLog: &flakyEventRepo{inner: memory.NewEventRepository()},
	}

	f.events = services.NewEventService(f.eventLog, services.NopBroadcaster{})
	f.roundSvc = services.NewRoundService(
		f.rounds, f.tickets, f.pending, f.settings,
		f.vrf,
		services.VRFParams{KeyHash: "keyhash", Confirmations: 3, CallbackGasLimit: 500000},
		f.events,
	)
	f.feeSvc = services.NewFeeService(f.fees, f.settings, f.gateway, f.events)
	f.claimSvc = services.NewClaimService(f.rounds, f.claims, f.gateway, f.feeSvc, f.events)
	return f
}
