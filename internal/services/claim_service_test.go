package services_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/pkg/merkle"
)

// closeRound drives round 1 through a full draw so commitments can be
// submitted against it.
func closeRound(t *testing.T, f *engineFixture) {
	t.Helper()
	ctx := context.Background()
	round := &models.Round{
		Number:         1,
		Status:         models.RoundStatusClosed,
		TicketsSold:    3,
		PrizePool:      300,
		WinningLetters: []int{3, 7, 11, 14, 17, 20, 23, 26},
	}
	if err := f.rounds.Create(ctx, round); err != nil {
		t.Fatalf("Create round: %v", err)
	}
}

// buildCommitment builds the authority-side tree over the given claims
// and returns the hex root plus each claim's proof.
func buildCommitment(t *testing.T, claims []*models.PrizeClaim) (string, [][][]byte) {
	t.Helper()
	leaves := make([][]byte, len(claims))
	for i, c := range claims {
		leaves[i] = c.Digest()
	}
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	proofs := make([][][]byte, len(claims))
	for i := range claims {
		proof, err := tree.ProofFor(i)
		if err != nil {
			t.Fatalf("ProofFor(%d): %v", i, err)
		}
		proofs[i] = proof
	}
	return hex.EncodeToString(tree.Root()), proofs
}

func winnerClaims() []*models.PrizeClaim {
	return []*models.PrizeClaim{
		{Player: "alice", Letters: [3]int{3, 7, 11}, Tier: 3, Amount: 150, Round: 1},
		{Player: "bob", Letters: [3]int{3, 7, 26}, Tier: 3, Amount: 130, Round: 1},
	}
}

func TestSubmitCommitmentGating(t *testing.T) {
	f := newEngine(nil)
	ctx := context.Background()
	root, _ := buildCommitment(t, winnerClaims())

	// No such round yet.
	err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300)
	if !apperrors.Is(err, apperrors.KindState) {
		t.Errorf("missing round: got %v, want state error", err)
	}

	// Round exists but the draw has not completed.
	if err := f.rounds.Create(ctx, &models.Round{Number: 1, Status: models.RoundStatusOpen}); err != nil {
		t.Fatalf("Create round: %v", err)
	}
	err = f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300)
	if !apperrors.Is(err, apperrors.KindState) {
		t.Errorf("no draw: got %v, want state error", err)
	}
}

func TestSubmitCommitmentAuthorizationAndValidation(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()
	root, _ := buildCommitment(t, winnerClaims())

	for _, role := range []string{"", models.RoleAdmin, "player"} {
		err := f.claimSvc.SubmitCommitment(ctx, role, 1, root, 300)
		if !apperrors.Is(err, apperrors.KindAuthorization) {
			t.Errorf("role %q: got %v, want authorization error", role, err)
		}
	}

	for _, bad := range []string{"", "zz", "abcd"} {
		err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, bad, 300)
		if !apperrors.Is(err, apperrors.KindValidation) {
			t.Errorf("root %q: got %v, want validation error", bad, err)
		}
	}
}

func TestSubmitCommitmentOneShot(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()
	root, _ := buildCommitment(t, winnerClaims())

	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	round, err := f.rounds.FindByNumber(ctx, 1)
	if err != nil {
		t.Fatalf("FindByNumber: %v", err)
	}
	if round.CommitmentRoot != root {
		t.Errorf("stored root = %q", round.CommitmentRoot)
	}
	if round.Status != models.RoundStatusSettled {
		t.Errorf("round status = %s, want SETTLED", round.Status)
	}
	if round.SettlementAmount != 300 {
		t.Errorf("settlement amount = %d, want 300", round.SettlementAmount)
	}

	// The root is one-shot, even with an identical resubmission.
	err = f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300)
	if !apperrors.Is(err, apperrors.KindState) {
		t.Errorf("second submission: got %v, want state error", err)
	}
}

func TestSubmitCommitmentDistributesFees(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()
	root, _ := buildCommitment(t, winnerClaims())

	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 1000); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	total, err := f.feeSvc.Total(ctx)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 60 {
		t.Errorf("fee total = %d, want 60", total)
	}
	if len(f.gateway.transfers) != 2 {
		t.Fatalf("fee transfers = %d, want 2", len(f.gateway.transfers))
	}
	if f.gateway.transfers[0].amount+f.gateway.transfers[1].amount != 60 {
		t.Errorf("fee shares sum to %d, want 60",
			f.gateway.transfers[0].amount+f.gateway.transfers[1].amount)
	}
}

func TestClaimPrizeHappyPath(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}
	feeTransfers := len(f.gateway.transfers)

	for i, claim := range claims {
		record, err := f.claimSvc.ClaimPrize(ctx, claim.Player, claim, proofs[i])
		if err != nil {
			t.Fatalf("ClaimPrize(%s): %v", claim.Player, err)
		}
		if record.Player != claim.Player || record.Amount != claim.Amount {
			t.Errorf("record = %+v", record)
		}
	}

	prizeTransfers := f.gateway.transfers[feeTransfers:]
	if len(prizeTransfers) != 2 {
		t.Fatalf("prize transfers = %d, want 2", len(prizeTransfers))
	}
	if prizeTransfers[0].recipient != "alice" || prizeTransfers[0].amount != 150 {
		t.Errorf("first prize transfer = %+v", prizeTransfers[0])
	}

	claimed, err := f.claimSvc.IsClaimed(ctx, claims[0].DigestHex())
	if err != nil {
		t.Fatalf("IsClaimed: %v", err)
	}
	if !claimed {
		t.Error("digest not marked claimed")
	}
}

func TestClaimPrizeReplayRejected(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	if _, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0]); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	// A replay fails permanently, valid proof and all.
	_, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0])
	if !apperrors.Is(err, apperrors.KindProof) {
		t.Errorf("replay: got %v, want proof error", err)
	}
}

func TestClaimPrizeRejectsMutations(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	// Inflated amount changes the digest; the proof no longer matches.
	inflated := *claims[0]
	inflated.Amount = 10000
	_, err := f.claimSvc.ClaimPrize(ctx, "alice", &inflated, proofs[0])
	if !apperrors.Is(err, apperrors.KindProof) {
		t.Errorf("inflated amount: got %v, want proof error", err)
	}

	// Another player's proof does not cover this claim.
	_, err = f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[1])
	if !apperrors.Is(err, apperrors.KindProof) {
		t.Errorf("wrong proof: got %v, want proof error", err)
	}

	// Nothing got marked along the way.
	claimed, err := f.claimSvc.IsClaimed(ctx, claims[0].DigestHex())
	if err != nil {
		t.Fatalf("IsClaimed: %v", err)
	}
	if claimed {
		t.Error("rejected claim left a mark")
	}
}

func TestClaimPrizeCallerMustBePlayer(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	_, err := f.claimSvc.ClaimPrize(ctx, "mallory", claims[0], proofs[0])
	if !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("got %v, want authorization error", err)
	}
}

func TestClaimPrizeRequiresCommitment(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	_, proofs := buildCommitment(t, claims)

	_, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0])
	if !apperrors.Is(err, apperrors.KindState) {
		t.Errorf("got %v, want state error", err)
	}
}

func TestClaimPrizeRejectsOversizedLetters(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	// Letters 259,263,267 would encode to the same bytes as alice's
	// committed 3,7,11. The digest must never alias across values.
	aliased := *claims[0]
	aliased.Letters = [3]int{259, 263, 267}
	_, err := f.claimSvc.ClaimPrize(ctx, "alice", &aliased, proofs[0])
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("aliased letters: got %v, want validation error", err)
	}

	negative := *claims[0]
	negative.Letters = [3]int{-1, 7, 11}
	_, err = f.claimSvc.ClaimPrize(ctx, "alice", &negative, proofs[0])
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("negative letter: got %v, want validation error", err)
	}

	oversizedTier := *claims[0]
	oversizedTier.Tier = 256
	_, err = f.claimSvc.ClaimPrize(ctx, "alice", &oversizedTier, proofs[0])
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("oversized tier: got %v, want validation error", err)
	}

	claimed, err := f.claimSvc.IsClaimed(ctx, claims[0].DigestHex())
	if err != nil {
		t.Fatalf("IsClaimed: %v", err)
	}
	if claimed {
		t.Error("rejected claim left a mark")
	}
}

func TestClaimPrizeEventLogFailureDoesNotFailPayout(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}
	feeTransfers := len(f.gateway.transfers)

	// The payout has already happened by the time the event is
	// appended, so a down event store must not turn a paid claim into
	// an error.
	f.eventLog.fail = true
	record, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0])
	if err != nil {
		t.Fatalf("ClaimPrize with event store down: %v", err)
	}
	if record.Amount != 150 {
		t.Errorf("record amount = %d, want 150", record.Amount)
	}
	if len(f.gateway.transfers) != feeTransfers+1 {
		t.Errorf("prize transfers = %d, want 1", len(f.gateway.transfers)-feeTransfers)
	}

	claimed, err := f.claimSvc.IsClaimed(ctx, claims[0].DigestHex())
	if err != nil {
		t.Fatalf("IsClaimed: %v", err)
	}
	if !claimed {
		t.Error("paid claim not marked")
	}
}

func TestClaimPrizeTransferFailureLeavesUnclaimed(t *testing.T) {
	f := newEngine(nil)
	closeRound(t, f)
	ctx := context.Background()

	claims := winnerClaims()
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 300); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	f.gateway.fail = true
	_, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0])
	if !apperrors.Is(err, apperrors.KindTransfer) {
		t.Fatalf("got %v, want transfer error", err)
	}

	claimed, err := f.claimSvc.IsClaimed(ctx, claims[0].DigestHex())
	if err != nil {
		t.Fatalf("IsClaimed: %v", err)
	}
	if claimed {
		t.Error("failed transfer burned the claim")
	}

	// The claim succeeds once the gateway recovers.
	f.gateway.fail = false
	if _, err := f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0]); err != nil {
		t.Errorf("retry after recovery: %v", err)
	}
}
