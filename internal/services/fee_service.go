package services

import (
	"context"
	"fmt"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"github.com/letterdraw/letterdraw-backend/pkg/paygate"
	"golang.org/x/exp/slog"
)

// feePercent is the fixed share of every settlement amount taken as a
// fee. Part of the economic contract with operators.
const feePercent = 6

// Compile-time check to ensure FeeServiceImpl implements FeeService
var _ FeeService = (*FeeServiceImpl)(nil)

// FeeService applies the fee policy to a round's settlement amount and
// forwards the shares to the configured receivers.
type FeeService interface {
	// Distribute takes the fee cut from settlementAmount, accumulates
	// it in the global fee ledger and pays the two receivers their
	// shares. Returns the fee breakdown.
	Distribute(ctx context.Context, roundNumber uint64, settlementAmount int64) (*models.FeeBreakdown, error)
	// Total returns the lifetime accumulated fee total.
	Total(ctx context.Context) (int64, error)
}

// FeeServiceImpl implements FeeService
type FeeServiceImpl struct {
	feeRepo      repositories.FeeLedgerRepository
	settingsRepo repositories.SettingsRepository
	gateway      paygate.Gateway
	events       *EventService
}

// NewFeeService creates a new FeeServiceImpl
func NewFeeService(
	feeRepo repositories.FeeLedgerRepository,
	settingsRepo repositories.SettingsRepository,
	gateway paygate.Gateway,
	events *EventService,
) *FeeServiceImpl {
	return &FeeServiceImpl{
		feeRepo:      feeRepo,
		settingsRepo: settingsRepo,
		gateway:      gateway,
		events:       events,
	}
}

// Distribute computes fee = settlementAmount*6/100 in integer minor
// units, records it in the ledger, then attempts the two receiver
// transfers. A failed transfer is logged and skipped: fee payouts are
// best effort and never block settlement. The ledger write is not best
// effort; its failure aborts the distribution.
func (s *FeeServiceImpl) Distribute(ctx context.Context, roundNumber uint64, settlementAmount int64) (*models.FeeBreakdown, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	fee := settlementAmount * feePercent / 100
	share1 := fee * settings.FeeSplitPercent / 100
	share2 := fee - share1

	total, err := s.feeRepo.AddFees(ctx, fee)
	if err != nil {
		return nil, fmt.Errorf("failed to accumulate fees: %w", err)
	}

	breakdown := &models.FeeBreakdown{
		RoundNumber:      roundNumber,
		SettlementAmount: settlementAmount,
		Fee:              fee,
		Share1:           share1,
		Share2:           share2,
		LedgerTotal:      total,
	}

	s.payShare(ctx, roundNumber, settings.FeeReceiver1, share1)
	s.payShare(ctx, roundNumber, settings.FeeReceiver2, share2)

	slog.Info("Fees distributed", "round", roundNumber, "fee", fee, "share1", share1, "share2", share2, "ledgerTotal", total)
	return breakdown, nil
}

func (s *FeeServiceImpl) payShare(ctx context.Context, roundNumber uint64, receiver string, amount int64) {
	if amount == 0 {
		return
	}
	ref := fmt.Sprintf("fee-round-%d", roundNumber)
	txID, err := s.gateway.Transfer(ctx, receiver, amount, ref)
	if err != nil {
		slog.Warn("Fee transfer failed", "receiver", receiver, "amount", amount, "round", roundNumber, "error", err)
		return
	}
	s.events.Emit(ctx, models.EventFeesDistributed, roundNumber, map[string]interface{}{
		"receiver": receiver,
		"amount":   amount,
		"txId":     txID,
	})
}

// Total returns the lifetime accumulated fee total.
func (s *FeeServiceImpl) Total(ctx context.Context) (int64, error) {
	return s.feeRepo.Total(ctx)
}
