package stats

import (
	"testing"

	"clanpulse/internal/roster"
)

func withMins(xp, boss, msgs int64) Settings {
	s := DefaultSettings()
	s.PurgeMinXP = xp
	s.PurgeMinBoss = boss
	s.PurgeMinMsgs = msgs
	return s
}

func TestClassifyMember(t *testing.T) {
	tests := []struct {
		name         string
		member       roster.Member
		settings     Settings
		wantFlagged  bool
		wantStatus   string
		wantPriority string
	}{
		{
			// xp30d < 0 can never hold, so zero floors leave only rule 2
			name:         "SilentVeteranZeroFloors",
			member:       roster.Member{DaysInClan: 65},
			settings:     withMins(0, 0, 0),
			wantFlagged:  true,
			wantStatus:   StatusZeroActivity,
			wantPriority: PriorityNormal,
		},
		{
			name:         "SilentVeteranPositiveFloors",
			member:       roster.Member{DaysInClan: 65},
			settings:     withMins(1, 1, 0),
			wantFlagged:  true,
			wantStatus:   StatusTerminallyInactive,
			wantPriority: PriorityHigh,
		},
		{
			name:        "RecentJoiner",
			member:      roster.Member{DaysInClan: 20},
			settings:    DefaultSettings(),
			wantFlagged: false,
		},
		{
			name:         "TerminalBoundaryExclusive",
			member:       roster.Member{DaysInClan: 60},
			settings:     withMins(1, 1, 0),
			wantFlagged:  true,
			wantStatus:   StatusZeroActivity,
			wantPriority: PriorityNormal,
		},
		{
			name:        "ThresholdBoundaryExclusive",
			member:      roster.Member{DaysInClan: 30},
			settings:    DefaultSettings(),
			wantFlagged: false,
		},
		{
			name:        "TerminalNeedsExactMessageCount",
			member:      roster.Member{DaysInClan: 65, Msgs30d: 1, XP30d: 0},
			settings:    withMins(1, 1, 0),
			wantFlagged: false,
		},
		{
			name:         "LongTermGhost",
			member:       roster.Member{DaysInClan: 100, Msgs30d: 1, MsgsTotal: 2, XP30d: 50000},
			settings:     withMins(0, 0, 5),
			wantFlagged:  true,
			wantStatus:   StatusLongTermGhost,
			wantPriority: PriorityNormal,
		},
		{
			name:        "GhostXPBoundary",
			member:      roster.Member{DaysInClan: 100, Msgs30d: 1, MsgsTotal: 2, XP30d: 100000},
			settings:    withMins(0, 0, 5),
			wantFlagged: false,
		},
		{
			name:        "GhostTenureBoundary",
			member:      roster.Member{DaysInClan: 90, Msgs30d: 1, MsgsTotal: 2, XP30d: 50000},
			settings:    withMins(0, 0, 5),
			wantFlagged: false,
		},
		{
			name:        "Active",
			member:      roster.Member{DaysInClan: 400, XP30d: 1000000, Msgs30d: 30, MsgsTotal: 900},
			settings:    withMins(10, 1, 0),
			wantFlagged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ClassifyMember(tt.member, tt.settings)
			if v.Flagged != tt.wantFlagged {
				t.Fatalf("Flagged = %v, want %v (verdict %+v)", v.Flagged, tt.wantFlagged, v)
			}
			if v.Status != tt.wantStatus || v.Priority != tt.wantPriority {
				t.Errorf("Verdict = %s/%s, want %s/%s", v.Status, v.Priority, tt.wantStatus, tt.wantPriority)
			}
		})
	}
}

func TestClassifyPurge_FirstMatchWins(t *testing.T) {
	// matches rules 1 and 2
	m := roster.Member{Username: "both", DaysInClan: 100}
	candidates := ClassifyPurge([]roster.Member{m}, withMins(1, 1, 0))

	if len(candidates) != 1 {
		t.Fatalf("Expected exactly one candidate, got %d", len(candidates))
	}
	if candidates[0].Status != StatusTerminallyInactive {
		t.Errorf("Expected %s, got %s", StatusTerminallyInactive, candidates[0].Status)
	}
}

func TestClassifyPurge_OrderedByTenure(t *testing.T) {
	members := []roster.Member{
		{Username: "mid", DaysInClan: 120},
		{Username: "active", DaysInClan: 999, XP30d: 5, Msgs30d: 5, MsgsTotal: 50},
		{Username: "old", DaysInClan: 300},
		{Username: "Bee", DaysInClan: 120},
		{Username: "new", DaysInClan: 10},
	}

	candidates := ClassifyPurge(members, DefaultSettings())

	var names []string
	for _, c := range candidates {
		names = append(names, c.Username)
	}
	want := []string{"old", "Bee", "mid"}
	if len(names) != len(want) {
		t.Fatalf("Got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Position %d = %s, want %s", i, names[i], want[i])
		}
	}

	counts := CountByStatus(candidates)
	if counts[StatusZeroActivity] != 3 {
		t.Errorf("Expected 3 zero-activity candidates, got %v", counts)
	}
}

func TestClassifyPurge_Empty(t *testing.T) {
	if got := ClassifyPurge(nil, DefaultSettings()); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}
