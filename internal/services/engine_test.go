package services_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/models"
)

// TestFullRoundLifecycle walks one complete round: fifty tickets from
// two players, the threshold draw, the authority's commitment, and
// both winners claiming.
func TestFullRoundLifecycle(t *testing.T) {
	settings := defaultSettings()
	settings.TicketThreshold = 50
	f := newEngine(settings)
	ctx := context.Background()

	players := []string{"alice", "bob"}
	for i := 0; i < 50; i++ {
		player := players[i%2]
		if _, err := f.roundSvc.BuyTicket(ctx, player, [3]int{1 + i%26, 2, 3}, 100); err != nil {
			t.Fatalf("purchase %d: %v", i+1, err)
		}
	}

	status, err := f.roundSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.DrawPending {
		t.Fatal("fiftieth ticket did not trigger the draw")
	}
	if status.PrizePool != 5000 {
		t.Fatalf("prize pool = %d, want 5000", status.PrizePool)
	}

	value := new(big.Int).Lsh(big.NewInt(314159265), 100)
	round, err := f.roundSvc.OnRandomnessFulfilled(ctx, "req-1", value)
	if err != nil {
		t.Fatalf("OnRandomnessFulfilled: %v", err)
	}
	if len(round.WinningLetters) != 8 {
		t.Fatalf("winning letters = %v", round.WinningLetters)
	}

	// The authority computes the winner list off-engine and commits.
	claims := []*models.PrizeClaim{
		{Player: "alice", Letters: [3]int{round.WinningLetters[0], round.WinningLetters[1], round.WinningLetters[2]}, Tier: 3, Amount: 2500, Round: 1},
		{Player: "bob", Letters: [3]int{round.WinningLetters[0], round.WinningLetters[1], 2}, Tier: 2, Amount: 2200, Round: 1},
	}
	root, proofs := buildCommitment(t, claims)
	if err := f.claimSvc.SubmitCommitment(ctx, models.RoleAuthority, 1, root, 5000); err != nil {
		t.Fatalf("SubmitCommitment: %v", err)
	}

	total, err := f.feeSvc.Total(ctx)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 300 { // 5000 * 6 / 100
		t.Errorf("fee total = %d, want 300", total)
	}

	for i, claim := range claims {
		if _, err := f.claimSvc.ClaimPrize(ctx, claim.Player, claim, proofs[i]); err != nil {
			t.Fatalf("ClaimPrize(%s): %v", claim.Player, err)
		}
	}

	// Replays stay dead even across the new round.
	_, err = f.claimSvc.ClaimPrize(ctx, "alice", claims[0], proofs[0])
	if !apperrors.Is(err, apperrors.KindProof) {
		t.Errorf("replay: got %v, want proof error", err)
	}

	// Meanwhile round 2 is selling.
	if _, err := f.roundSvc.BuyTicket(ctx, "carol", [3]int{5, 6, 7}, 100); err != nil {
		t.Errorf("round 2 purchase: %v", err)
	}
	status, err = f.roundSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.CurrentRound != 2 || status.TicketsSold != 1 {
		t.Errorf("round 2 status = %+v", status)
	}

	// The event log tells the round's whole story.
	events, err := f.events.EventsByRound(ctx, 1)
	if err != nil {
		t.Fatalf("EventsByRound: %v", err)
	}
	counts := map[models.EventType]int{}
	for _, e := range events {
		counts[e.Type]++
	}
	if counts[models.EventTicketBought] != 50 {
		t.Errorf("TICKET_BOUGHT events = %d, want 50", counts[models.EventTicketBought])
	}
	if counts[models.EventDrawTriggered] != 1 || counts[models.EventWinningLetters] != 1 {
		t.Errorf("draw events = %d/%d, want 1/1",
			counts[models.EventDrawTriggered], counts[models.EventWinningLetters])
	}
	if counts[models.EventCommitmentSubmitted] != 1 {
		t.Errorf("COMMITMENT_SUBMITTED events = %d, want 1", counts[models.EventCommitmentSubmitted])
	}
	if counts[models.EventPrizeClaimed] != 2 {
		t.Errorf("PRIZE_CLAIMED events = %d, want 2", counts[models.EventPrizeClaimed])
	}
}
