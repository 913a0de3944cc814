package stats

import (
	"cmp"
	"fmt"
	"slices"

	"clanpulse/internal/roster"
)

// XPMilestones are the total-experience marks worth projecting towards.
var XPMilestones = []int64{
	100_000_000,
	200_000_000,
	500_000_000,
	1_000_000_000,
	2_000_000_000,
	4_600_000_000,
}

const (
	minDailyXPRate     = 1000
	projectionHorizonD = 365 * 2
)

// MilestoneProjection estimates when a member reaches their next milestone
// at their current weekly pace.
type MilestoneProjection struct {
	Username  string  `json:"username"`
	Milestone int64   `json:"milestone"`
	Label     string  `json:"label"`
	DailyRate float64 `json:"daily_rate"`
	DaysLeft  float64 `json:"days_left"`
}

// ProjectMilestones returns the members closest to their next XP milestone.
// Members gaining under 1000 XP a day, past the last milestone, or more than
// two years away are skipped.
func ProjectMilestones(members []roster.Member, limit int) []MilestoneProjection {
	projections := make([]MilestoneProjection, 0)
	for _, m := range members {
		rate := float64(m.XP7d) / 7
		if rate < minDailyXPRate {
			continue
		}
		target, ok := nextMilestone(m.TotalXP)
		if !ok {
			continue
		}
		days := float64(target-m.TotalXP) / rate
		if days >= projectionHorizonD {
			continue
		}
		projections = append(projections, MilestoneProjection{
			Username:  m.Username,
			Milestone: target,
			Label:     MilestoneLabel(target),
			DailyRate: roundTo(rate, 1),
			DaysLeft:  roundTo(days, 1),
		})
	}

	slices.SortStableFunc(projections, func(a, b MilestoneProjection) int {
		if r := cmp.Compare(a.DaysLeft, b.DaysLeft); r != 0 {
			return r
		}
		return CompareUsernames(a.Username, b.Username)
	})
	if limit >= 0 && len(projections) > limit {
		projections = projections[:limit]
	}
	return projections
}

func nextMilestone(total int64) (int64, bool) {
	for _, m := range XPMilestones {
		if total < m {
			return m, true
		}
	}
	return 0, false
}

// MilestoneLabel formats a milestone as "200M" or "1.0B".
func MilestoneLabel(v int64) string {
	if v < 1_000_000_000 {
		return fmt.Sprintf("%.0fM", float64(v)/1_000_000)
	}
	return fmt.Sprintf("%.1fB", float64(v)/1_000_000_000)
}
