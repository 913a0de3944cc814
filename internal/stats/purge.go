package stats

import (
	"cmp"
	"slices"

	"clanpulse/internal/roster"
)

const (
	StatusTerminallyInactive = "Terminally Inactive"
	StatusZeroActivity       = "Zero Activity (30d)"
	StatusLongTermGhost      = "Long-term Ghost"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// Fixed tenure and experience gates of the purge rules.
const (
	terminalTenureDays = 60
	ghostTenureDays    = 90
	ghostMaxXP30d      = 100000
)

// PurgeCandidate is a member flagged as a churn risk.
type PurgeCandidate struct {
	roster.Member
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// PurgeRules returns the ordered purge rule set for s. Comparisons are
// strict or inclusive exactly as listed; shifting any boundary by one
// changes which members are flagged.
func PurgeRules(s Settings) []Rule {
	return []Rule{
		{
			Status:   StatusTerminallyInactive,
			Priority: PriorityHigh,
			Matches: func(m roster.Member) bool {
				return m.DaysInClan > terminalTenureDays &&
					m.XP30d < s.PurgeMinXP &&
					m.Boss30d < s.PurgeMinBoss &&
					m.Msgs30d == s.PurgeMinMsgs
			},
		},
		{
			Status:   StatusZeroActivity,
			Priority: PriorityNormal,
			Matches: func(m roster.Member) bool {
				return m.DaysInClan > s.PurgeThresholdDays &&
					m.XP30d == 0 &&
					m.Msgs30d == 0
			},
		},
		{
			Status:   StatusLongTermGhost,
			Priority: PriorityNormal,
			Matches: func(m roster.Member) bool {
				return m.DaysInClan > ghostTenureDays &&
					m.MsgsTotal < s.PurgeMinMsgs &&
					m.XP30d < ghostMaxXP30d
			},
		},
	}
}

// ClassifyMember evaluates the purge rules for a single member.
func ClassifyMember(m roster.Member, s Settings) Verdict {
	return Evaluate(PurgeRules(s), m)
}

// ClassifyPurge flags purge candidates, longest tenure first.
// Members matching no rule are omitted.
func ClassifyPurge(members []roster.Member, s Settings) []PurgeCandidate {
	rules := PurgeRules(s)
	candidates := make([]PurgeCandidate, 0)
	for _, m := range members {
		v := Evaluate(rules, m)
		if !v.Flagged {
			continue
		}
		candidates = append(candidates, PurgeCandidate{Member: m, Status: v.Status, Priority: v.Priority})
	}

	slices.SortStableFunc(candidates, func(a, b PurgeCandidate) int {
		if r := cmp.Compare(b.DaysInClan, a.DaysInClan); r != 0 {
			return r
		}
		return CompareUsernames(a.Username, b.Username)
	})
	return candidates
}

// CountByStatus tallies candidates per status label.
func CountByStatus(candidates []PurgeCandidate) map[string]int {
	counts := make(map[string]int)
	for _, c := range candidates {
		counts[c.Status]++
	}
	return counts
}
