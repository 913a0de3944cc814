package stats

import (
	"cmp"
	"slices"

	"clanpulse/internal/roster"
)

// Health band labels, ordered from most to least active.
const (
	HealthHigh     = "High Activity"
	HealthModerate = "Moderate"
	HealthLow      = "Low"
	HealthInactive = "Inactive"
)

// HealthBands buckets members by experience gained in the context's period:
// above 1M, above 100k, above 0, and none.
func HealthBands(members []roster.Member, ctx ComputationContext) ([]TemporalBucket, error) {
	sel, err := ctx.Select(MetricXP)
	if err != nil {
		return nil, err
	}
	var high, moderate, low, inactive float64
	for _, m := range members {
		xp := sel.Field.Value(m)
		switch {
		case xp > 1000000:
			high++
		case xp > 100000:
			moderate++
		case xp > 0:
			low++
		default:
			inactive++
		}
	}
	return []TemporalBucket{
		{BucketKey: HealthHigh, Value: high},
		{BucketKey: HealthModerate, Value: moderate},
		{BucketKey: HealthLow, Value: low},
		{BucketKey: HealthInactive, Value: inactive},
	}, nil
}

const (
	OutlierFadingStar    = "Fading Star"
	OutlierSilentGrinder = "Silent Grinder"
	OutlierTownCrier     = "Town Crier"
	OutlierBossHunter    = "Boss Hunter"

	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"

	// MaxOutliers caps the outlier list.
	MaxOutliers = 12
)

// Outlier is a member whose activity mix stands out from the clan.
type Outlier struct {
	roster.Member
	Status      string  `json:"status"`
	Reason      string  `json:"reason"`
	Severity    string  `json:"severity"`
	SocialRatio float64 `json:"social_ratio"`
}

var outlierReasons = map[string]string{
	OutlierFadingStar:    "Activity Slump (Churn Risk)",
	OutlierSilentGrinder: "High XP, Low Msgs",
	OutlierTownCrier:     "High Msgs, Low XP",
	OutlierBossHunter:    "Only Bossing",
}

var severityWeight = map[string]int{SeverityHigh: 3, SeverityMedium: 2, SeverityLow: 1}

// OutlierRules is the ordered outlier rule set; Priority carries severity.
func OutlierRules() []Rule {
	return []Rule{
		{
			Status:   OutlierFadingStar,
			Priority: SeverityHigh,
			Matches: func(m roster.Member) bool {
				return m.XP30d > 5000000 && float64(m.XP7d) < float64(m.XP30d)/10
			},
		},
		{
			Status:   OutlierSilentGrinder,
			Priority: SeverityMedium,
			Matches: func(m roster.Member) bool {
				return m.XP7d > 3000000 && m.Msgs7d < 5
			},
		},
		{
			Status:   OutlierTownCrier,
			Priority: SeverityLow,
			Matches: func(m roster.Member) bool {
				return m.Msgs7d > 300 && m.XP7d < 100000
			},
		},
		{
			Status:   OutlierBossHunter,
			Priority: SeverityMedium,
			Matches: func(m roster.Member) bool {
				return m.Boss7d > 150 && m.XP7d < 500000
			},
		},
	}
}

// DetectOutliers flags members by weekly activity mix, most severe first,
// capped at MaxOutliers.
func DetectOutliers(members []roster.Member) []Outlier {
	rules := OutlierRules()
	var outliers []Outlier
	for _, m := range members {
		v := Evaluate(rules, m)
		if !v.Flagged {
			continue
		}
		o := Outlier{Member: m, Status: v.Status, Reason: outlierReasons[v.Status], Severity: v.Priority}
		switch v.Status {
		case OutlierSilentGrinder:
			// messages per million XP
			o.SocialRatio = roundTo(float64(m.Msgs7d)/(float64(m.XP7d)/1000000), 2)
		case OutlierTownCrier:
			o.SocialRatio = 999
		}
		outliers = append(outliers, o)
	}

	slices.SortStableFunc(outliers, func(a, b Outlier) int {
		if r := cmp.Compare(severityWeight[b.Severity], severityWeight[a.Severity]); r != 0 {
			return r
		}
		return CompareUsernames(a.Username, b.Username)
	})
	if len(outliers) > MaxOutliers {
		outliers = outliers[:MaxOutliers]
	}
	return outliers
}

// Thresholds for the highlight cards.
const (
	risingStarMaxDays = 98
	watchlistSize     = 20
	zeroWeekSize      = 4
)

// Highlights are the headline cards of the dashboard.
type Highlights struct {
	TopXP          *RankedEntry    `json:"top_xp,omitempty"`
	TopMessenger   *RankedEntry    `json:"top_messenger,omitempty"`
	RisingStar     *RankedEntry    `json:"rising_star,omitempty"`
	TopBossKillers []RankedEntry   `json:"top_boss_killers"`
	ActiveMembers  int             `json:"active_members"`
	Watchlist      []roster.Member `json:"watchlist"`
	ZeroWeek       []roster.Member `json:"zero_week"`
	BossFallback   bool            `json:"boss_fallback,omitempty"`
}

// CollectHighlights computes the headline cards under ctx.
//
// The rising star is the newcomer (under 14 weeks) with the most 7-day
// messages; the watchlist lists silent members past the purge threshold.
func CollectHighlights(members []roster.Member, ctx ComputationContext) (Highlights, error) {
	h := Highlights{
		TopBossKillers: []RankedEntry{},
		Watchlist:      []roster.Member{},
		ZeroWeek:       []roster.Member{},
	}

	topXP, _, err := RankBy(members, ctx, MetricXP, Descending, 1)
	if err != nil {
		return Highlights{}, err
	}
	if len(topXP) > 0 {
		h.TopXP = &topXP[0]
	}

	topMsg, _, err := RankBy(members, ctx, MetricMessages, Descending, 1)
	if err != nil {
		return Highlights{}, err
	}
	if len(topMsg) > 0 {
		h.TopMessenger = &topMsg[0]
	}

	var newcomers []roster.Member
	for _, m := range members {
		if m.DaysInClan < risingStarMaxDays {
			newcomers = append(newcomers, m)
		}
		if m.Msgs30d > 0 || m.XP30d > 0 {
			h.ActiveMembers++
		}
		if m.Msgs30d == 0 && m.DaysInClan > ctx.Settings.PurgeThresholdDays {
			h.Watchlist = append(h.Watchlist, m)
		}
		if m.XP7d == 0 && m.Boss7d == 0 && m.Msgs7d == 0 {
			h.ZeroWeek = append(h.ZeroWeek, m)
		}
	}
	if stars := Rank(newcomers, FieldMsgs7d.Accessor(), Descending, 1); len(stars) > 0 {
		h.RisingStar = &stars[0]
	}

	bossKillers, sel, err := RankBy(members, ctx, MetricBoss, Descending, ctx.Settings.TopBossCards)
	if err != nil {
		return Highlights{}, err
	}
	h.TopBossKillers = bossKillers
	h.BossFallback = sel.Fallback

	h.Watchlist = byTenure(h.Watchlist, watchlistSize)
	h.ZeroWeek = byTenure(h.ZeroWeek, zeroWeekSize)
	return h, nil
}

func byTenure(members []roster.Member, limit int) []roster.Member {
	ranked := Rank(members, FieldDaysInClan.Accessor(), Descending, limit)
	out := make([]roster.Member, len(ranked))
	for i, r := range ranked {
		out[i] = r.Member
	}
	return out
}

// AnnualizedContribution estimates yearly XP for the most active members:
// 30-day gains times 12 when known, otherwise 7-day gains times 52.
// Members with no recent gains are excluded.
func AnnualizedContribution(members []roster.Member, limit int) []RankedEntry {
	base := func(m roster.Member) float64 {
		if m.XP30d > 0 {
			return float64(m.XP30d)
		}
		return float64(m.XP7d)
	}

	ranked := Rank(members, base, Descending, NoLimit)
	out := make([]RankedEntry, 0)
	for _, r := range ranked {
		if r.Value <= 0 {
			continue
		}
		if limit >= 0 && len(out) >= limit {
			break
		}
		annual := float64(r.Member.XP7d) * 52
		if r.Member.XP30d > 0 {
			annual = float64(r.Member.XP30d) * 12
		}
		out = append(out, RankedEntry{Member: r.Member, Value: annual, Rank: len(out) + 1})
	}
	return out
}

// SocialRatio is total experience per message, for display. Members without
// messages report 0, and inconsistent data never yields a negative ratio.
func SocialRatio(m roster.Member) float64 {
	if m.MsgsTotal <= 0 {
		return 0
	}
	return ClampNonNegative(float64(m.TotalXP) / float64(m.MsgsTotal))
}

// Summary aggregates clan-wide totals for the context's period.
type Summary struct {
	Period         Period  `json:"period"`
	TotalMembers   int     `json:"total_members"`
	ActiveMembers  int     `json:"active_members"`
	TotalXP        int64   `json:"total_xp"`
	TotalMessages  int64   `json:"total_messages"`
	TotalBoss      int64   `json:"total_boss"`
	MedianXP       float64 `json:"median_xp"`
	MedianMessages float64 `json:"median_messages"`
	BossFallback   bool    `json:"boss_fallback,omitempty"`
}

// Summarize computes clan-wide totals and medians under ctx.
func Summarize(members []roster.Member, ctx ComputationContext) (Summary, error) {
	xpSel, err := ctx.Select(MetricXP)
	if err != nil {
		return Summary{}, err
	}
	msgSel, err := ctx.Select(MetricMessages)
	if err != nil {
		return Summary{}, err
	}
	bossSel, err := ctx.Select(MetricBoss)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Period: ctx.Period, TotalMembers: len(members), BossFallback: bossSel.Fallback}
	xps := make([]int64, 0, len(members))
	msgs := make([]int64, 0, len(members))
	for _, m := range members {
		xp := xpSel.Field.Value(m)
		msg := msgSel.Field.Value(m)
		s.TotalXP += xp
		s.TotalMessages += msg
		s.TotalBoss += bossSel.Field.Value(m)
		xps = append(xps, xp)
		msgs = append(msgs, msg)
		if m.Msgs30d > 0 || m.XP30d > 0 {
			s.ActiveMembers++
		}
	}
	s.MedianXP = CalculateMedian(xps)
	s.MedianMessages = CalculateMedian(msgs)
	return s, nil
}
