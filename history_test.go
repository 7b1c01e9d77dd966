package lotbook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestHistory(t *testing.T) {
	lots := []Lot{
		sell("c", day(3), 8, 120, 1),
		buy("a", day(1), 10, 100, 0),
		buy("b", day(2), 10, 110, 0),
	}

	steps := History(lots, AverageCost)
	if len(steps) != 3 {
		t.Fatalf("History() returned %d steps, want 3", len(steps))
	}

	gotIDs := []string{steps[0].Lot.ID, steps[1].Lot.ID, steps[2].Lot.ID}
	if diff := cmp.Diff([]string{"a", "b", "c"}, gotIDs); diff != "" {
		t.Errorf("History() order mismatch (-want +got):\n%s", diff)
	}

	want := []PositionSummary{
		{Quantity: 10, AvgCost: 100, Unrealized: 0},
		{Quantity: 20, AvgCost: 105, Unrealized: 100}, // marked at 110
		{Quantity: 12, AvgCost: 105, Realized: 8*15 - 1, Unrealized: 180},
	}
	for i, s := range steps {
		if diff := cmp.Diff(want[i], s.Summary, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("step %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if steps[2].Realized != 8*15-1 {
		t.Errorf("step 2 realized = %v, want %v", steps[2].Realized, 8*15-1)
	}

	// The last step agrees with a replay at the same price.
	final := ComputePositionSummary(lots, 120)
	if diff := cmp.Diff(final, steps[2].Summary, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("last step differs from ComputePositionSummary (-want +got):\n%s", diff)
	}
}

func TestHistory_Warnings(t *testing.T) {
	steps := History([]Lot{sell("a", day(1), 2, 10, 0), buy("b", day(2), 1, 10, 0)}, FIFO)
	if len(steps[0].Warnings) != 1 || steps[0].Warnings[0].Kind != Oversell {
		t.Errorf("step 0 warnings = %v, want one oversell", steps[0].Warnings)
	}
	if len(steps[1].Warnings) != 0 {
		t.Errorf("step 1 warnings = %v, want none", steps[1].Warnings)
	}
}

func TestRecent(t *testing.T) {
	lots := []Lot{
		buy("b", day(2), 1, 1, 0),
		buy("a", day(1), 1, 1, 0),
		buy("d", day(3), 1, 1, 0),
		buy("c", day(3), 1, 1, 0),
	}
	ids := func(lots []Lot) (ids []string) {
		for _, l := range lots {
			ids = append(ids, l.ID)
		}
		return ids
	}

	if diff := cmp.Diff([]string{"d", "c", "b"}, ids(Recent(lots, 3))); diff != "" {
		t.Errorf("Recent(3) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d", "c", "b", "a"}, ids(Recent(lots, 0))); diff != "" {
		t.Errorf("Recent(0) mismatch (-want +got):\n%s", diff)
	}
	if got := Recent(nil, 3); len(got) != 0 {
		t.Errorf("Recent(nil) = %v, want empty", got)
	}
}
