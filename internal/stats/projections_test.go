package stats

import (
	"testing"

	"clanpulse/internal/roster"
)

func TestProjectMilestones(t *testing.T) {
	members := []roster.Member{
		// 7000/day, 1M short of 100M -> ~142.9 days
		{Username: "steady", TotalXP: 99_000_000, XP7d: 49_000},
		// 100k/day, 10M short of 200M -> 100 days
		{Username: "alpha", TotalXP: 190_000_000, XP7d: 700_000},
		// 100k/day, 1M short of 1B -> 10 days
		{Username: "sprinter", TotalXP: 999_000_000, XP7d: 700_000},
		// too slow
		{Username: "idle", TotalXP: 50_000_000, XP7d: 6_999},
		// past the last milestone
		{Username: "maxed", TotalXP: 5_000_000_000, XP7d: 9_000_000},
		// more than two years away
		{Username: "distant", TotalXP: 1_000_000, XP7d: 7_000},
	}

	got := ProjectMilestones(members, NoLimit)

	if len(got) != 3 {
		t.Fatalf("Expected 3 projections, got %d: %+v", len(got), got)
	}
	if got[0].Username != "sprinter" || got[0].Label != "1.0B" || got[0].DaysLeft != 10 {
		t.Errorf("Unexpected first projection: %+v", got[0])
	}
	if got[1].Username != "alpha" || got[2].Username != "steady" {
		t.Errorf("Expected alpha then steady, got %s then %s", got[1].Username, got[2].Username)
	}
	if got[2].Label != "100M" {
		t.Errorf("Expected 100M label, got %s", got[2].Label)
	}

	if limited := ProjectMilestones(members, 1); len(limited) != 1 {
		t.Errorf("Expected limit to cap the result, got %d", len(limited))
	}
}

func TestMilestoneLabel(t *testing.T) {
	tests := map[int64]string{
		100_000_000:   "100M",
		500_000_000:   "500M",
		2_000_000_000: "2.0B",
		4_600_000_000: "4.6B",
	}
	for v, want := range tests {
		if got := MilestoneLabel(v); got != want {
			t.Errorf("MilestoneLabel(%d) = %s, want %s", v, got, want)
		}
	}
}
