package services_test

import (
	"context"
	"testing"
)

func TestDistributeArithmetic(t *testing.T) {
	cases := []struct {
		name             string
		settlementAmount int64
		split            int64
		wantFee          int64
		wantShare1       int64
		wantShare2       int64
	}{
		{"even split", 1000, 50, 60, 30, 30},
		{"uneven split", 1000, 70, 60, 42, 18},
		{"integer truncation", 99, 50, 5, 2, 3},
		{"all to receiver one", 500, 100, 30, 30, 0},
		{"all to receiver two", 500, 0, 30, 0, 30},
		{"amount below fee unit", 10, 50, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := defaultSettings()
			settings.FeeSplitPercent = tc.split
			f := newEngine(settings)

			breakdown, err := f.feeSvc.Distribute(context.Background(), 1, tc.settlementAmount)
			if err != nil {
				t.Fatalf("Distribute: %v", err)
			}
			if breakdown.Fee != tc.wantFee {
				t.Errorf("fee = %d, want %d", breakdown.Fee, tc.wantFee)
			}
			if breakdown.Share1 != tc.wantShare1 || breakdown.Share2 != tc.wantShare2 {
				t.Errorf("shares = %d/%d, want %d/%d",
					breakdown.Share1, breakdown.Share2, tc.wantShare1, tc.wantShare2)
			}
			if breakdown.Share1+breakdown.Share2 != breakdown.Fee {
				t.Errorf("shares %d+%d do not sum to fee %d",
					breakdown.Share1, breakdown.Share2, breakdown.Fee)
			}
		})
	}
}

func TestDistributeAccumulatesLedger(t *testing.T) {
	f := newEngine(nil)
	ctx := context.Background()

	if _, err := f.feeSvc.Distribute(ctx, 1, 1000); err != nil {
		t.Fatalf("first Distribute: %v", err)
	}
	if _, err := f.feeSvc.Distribute(ctx, 2, 500); err != nil {
		t.Fatalf("second Distribute: %v", err)
	}

	total, err := f.feeSvc.Total(ctx)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 90 { // 60 + 30
		t.Errorf("ledger total = %d, want 90", total)
	}
}

func TestDistributeSkipsZeroShares(t *testing.T) {
	settings := defaultSettings()
	settings.FeeSplitPercent = 100
	f := newEngine(settings)

	if _, err := f.feeSvc.Distribute(context.Background(), 1, 1000); err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(f.gateway.transfers) != 1 {
		t.Fatalf("transfers = %d, want 1", len(f.gateway.transfers))
	}
	if f.gateway.transfers[0].recipient != "operations" || f.gateway.transfers[0].amount != 60 {
		t.Errorf("transfer = %+v", f.gateway.transfers[0])
	}
}

func TestDistributeSwallowsTransferFailures(t *testing.T) {
	f := newEngine(nil)
	ctx := context.Background()
	f.gateway.fail = true

	breakdown, err := f.feeSvc.Distribute(ctx, 1, 1000)
	if err != nil {
		t.Fatalf("Distribute with failing gateway: %v", err)
	}
	if breakdown.Fee != 60 {
		t.Errorf("fee = %d, want 60", breakdown.Fee)
	}

	// The ledger still records the fee even though no payout landed.
	total, err := f.feeSvc.Total(ctx)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 60 {
		t.Errorf("ledger total = %d, want 60", total)
	}
	if len(f.gateway.transfers) != 0 {
		t.Errorf("transfers = %d, want 0", len(f.gateway.transfers))
	}
}

func TestDistributeUsesConfiguredReceivers(t *testing.T) {
	settings := defaultSettings()
	settings.FeeReceiver1 = "r1"
	settings.FeeReceiver2 = "r2"
	f := newEngine(settings)

	if _, err := f.feeSvc.Distribute(context.Background(), 7, 1000); err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	recipients := map[string]bool{}
	for _, tr := range f.gateway.transfers {
		recipients[tr.recipient] = true
	}
	if !recipients["r1"] || !recipients["r2"] {
		t.Errorf("recipients = %v", recipients)
	}
}
