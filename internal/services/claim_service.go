package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"github.com/letterdraw/letterdraw-backend/pkg/merkle"
	"github.com/letterdraw/letterdraw-backend/pkg/paygate"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ClaimServiceImpl implements ClaimService
var _ ClaimService = (*ClaimServiceImpl)(nil)

// ClaimService owns the per-round commitment root and the global
// claimed set: one root per round, one payout per leaf digest, ever.
type ClaimService interface {
	SubmitCommitment(ctx context.Context, callerRole string, roundNumber uint64, root string, settlementAmount int64) error
	ClaimPrize(ctx context.Context, caller string, claim *models.PrizeClaim, proof [][]byte) (*models.ClaimedDigest, error)
	IsClaimed(ctx context.Context, digest string) (bool, error)
	ClaimsByRound(ctx context.Context, roundNumber uint64) ([]*models.ClaimedDigest, error)
}

// ClaimServiceImpl implements ClaimService. As with the round service a
// single mutex serializes every operation.
type ClaimServiceImpl struct {
	mu sync.Mutex

	roundRepo repositories.RoundRepository
	claimRepo repositories.ClaimRepository
	gateway   paygate.Gateway
	fees      FeeService
	events    *EventService
}

// NewClaimService creates a new ClaimServiceImpl
func NewClaimService(
	roundRepo repositories.RoundRepository,
	claimRepo repositories.ClaimRepository,
	gateway paygate.Gateway,
	fees FeeService,
	events *EventService,
) *ClaimServiceImpl {
	return &ClaimServiceImpl{
		roundRepo: roundRepo,
		claimRepo: claimRepo,
		gateway:   gateway,
		fees:      fees,
		events:    events,
	}
}

// SubmitCommitment records the authority's Merkle root for a round.
// The round's draw must be completed and no root may have been
// submitted before: the root is one-shot and immutable. The settlement
// amount is trusted caller input; the engine never re-derives it from
// the prize pool. Storing the root settles the round and triggers fee
// distribution over the settlement amount.
func (s *ClaimServiceImpl) SubmitCommitment(ctx context.Context, callerRole string, roundNumber uint64, root string, settlementAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if callerRole != models.RoleAuthority {
		return apperrors.Authorizationf("only the settlement authority may submit commitments")
	}
	rootBytes, err := hex.DecodeString(root)
	if err != nil || len(rootBytes) != merkle.HashSize {
		return apperrors.Validationf("commitment root must be %d hex-encoded bytes", merkle.HashSize)
	}
	if settlementAmount < 0 {
		return apperrors.Validationf("settlement amount must be non-negative")
	}

	round, err := s.roundRepo.FindByNumber(ctx, roundNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Statef("round %d does not exist", roundNumber)
		}
		return fmt.Errorf("failed to load round %d: %w", roundNumber, err)
	}
	if !round.DrawCompleted() {
		return apperrors.Statef("round %d has no completed draw", roundNumber)
	}
	if round.CommitmentRoot != "" {
		return apperrors.Statef("round %d already has a commitment root", roundNumber)
	}

	round.CommitmentRoot = root
	round.SettlementAmount = settlementAmount
	round.Status = models.RoundStatusSettled
	round.SettledAt = timeNow()
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return fmt.Errorf("failed to store commitment root: %w", err)
	}

	if _, err := s.fees.Distribute(ctx, roundNumber, settlementAmount); err != nil {
		round.CommitmentRoot = ""
		round.SettlementAmount = 0
		round.Status = models.RoundStatusClosed
		round.SettledAt = timeZero
		if uerr := s.roundRepo.Update(ctx, round); uerr != nil {
			slog.Error("Failed to roll back commitment root", "error", uerr, "round", roundNumber)
		}
		return err
	}

	s.events.Emit(ctx, models.EventCommitmentSubmitted, roundNumber, map[string]interface{}{
		"root":             root,
		"settlementAmount": settlementAmount,
	})

	slog.Info("Commitment submitted", "round", roundNumber, "root", root, "settlementAmount", settlementAmount)
	return nil
}

// ClaimPrize verifies a winner's claim against the round's commitment
// root and pays it out. The caller must be the claim's player, the
// digest must be unclaimed, and the proof must establish Merkle
// inclusion of the leaf digest under the root. The digest is marked
// claimed before the transfer; a failed transfer unwinds the mark
// inside the same critical section, so a transient payout failure
// never burns a claim.
func (s *ClaimServiceImpl) ClaimPrize(ctx context.Context, caller string, claim *models.PrizeClaim, proof [][]byte) (*models.ClaimedDigest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != claim.Player {
		return nil, apperrors.Authorizationf("claims may only be submitted by the winning player")
	}
	// Letters and tier are single bytes in the digest encoding.
	for _, l := range claim.Letters {
		if l < 0 || l > 255 {
			return nil, apperrors.Validationf("claim letters must be between 0 and 255")
		}
	}
	if claim.Tier < 0 || claim.Tier > 255 {
		return nil, apperrors.Validationf("claim tier must be between 0 and 255")
	}

	round, err := s.roundRepo.FindByNumber(ctx, claim.Round)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Statef("round %d does not exist", claim.Round)
		}
		return nil, fmt.Errorf("failed to load round %d: %w", claim.Round, err)
	}
	if round.CommitmentRoot == "" {
		return nil, apperrors.Statef("round %d has no commitment root", claim.Round)
	}
	rootBytes, err := hex.DecodeString(round.CommitmentRoot)
	if err != nil {
		return nil, fmt.Errorf("stored commitment root for round %d is corrupt: %w", claim.Round, err)
	}

	digest := claim.Digest()
	digestHex := hex.EncodeToString(digest)

	claimed, err := s.claimRepo.IsClaimed(ctx, digestHex)
	if err != nil {
		return nil, fmt.Errorf("failed to check claimed set: %w", err)
	}
	if claimed {
		return nil, apperrors.Prooff("prize already claimed")
	}

	if !merkle.Verify(digest, proof, rootBytes) {
		return nil, apperrors.Prooff("proof does not establish inclusion under the commitment root")
	}

	record := &models.ClaimedDigest{
		Digest:      digestHex,
		RoundNumber: claim.Round,
		Player:      claim.Player,
		Amount:      claim.Amount,
		ClaimedAt:   timeNow(),
	}
	if err := s.claimRepo.MarkClaimed(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Prooff("prize already claimed")
		}
		return nil, fmt.Errorf("failed to mark claim: %w", err)
	}

	ref := fmt.Sprintf("prize-round-%d-%s", claim.Round, digestHex[:8])
	txID, err := s.gateway.Transfer(ctx, claim.Player, claim.Amount, ref)
	if err != nil {
		if uerr := s.claimRepo.Unmark(ctx, digestHex); uerr != nil {
			slog.Error("Failed to unwind claim mark", "error", uerr, "digest", digestHex)
		}
		return nil, apperrors.Transferf(err, "prize transfer failed")
	}

	s.events.Emit(ctx, models.EventPrizeClaimed, claim.Round, map[string]interface{}{
		"player": claim.Player,
		"tier":   claim.Tier,
		"amount": claim.Amount,
		"txId":   txID,
	})

	slog.Info("Prize claimed", "round", claim.Round, "player", claim.Player, "amount", claim.Amount, "txId", txID)
	return record, nil
}

// IsClaimed reports whether a hex leaf digest has been paid out.
func (s *ClaimServiceImpl) IsClaimed(ctx context.Context, digest string) (bool, error) {
	return s.claimRepo.IsClaimed(ctx, digest)
}

// ClaimsByRound lists the paid-out digests of one round.
func (s *ClaimServiceImpl) ClaimsByRound(ctx context.Context, roundNumber uint64) ([]*models.ClaimedDigest, error) {
	return s.claimRepo.FindByRound(ctx, roundNumber)
}
