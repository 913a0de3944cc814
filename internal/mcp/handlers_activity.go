package mcp

import (
	"context"
	"fmt"
	"strings"

	"clanpulse/internal/roster"
	"clanpulse/internal/stats"
	"clanpulse/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Distribution kinds accepted by activity_distribution.
const (
	DistributionHourly = "hourly"
	DistributionTenure = "tenure"
	DistributionHealth = "health"
)

// DistributionInput is the activity_distribution argument set.
type DistributionInput struct {
	Kind   string `json:"kind" jsonschema:"hourly, tenure or health"`
	Period string `json:"period,omitempty" jsonschema:"reporting window for health bands; defaults to the active period"`
}

// DistributionResult is the activity_distribution response.
type DistributionResult struct {
	Kind        string                 `json:"kind"`
	Period      stats.Period           `json:"period,omitempty"`
	Buckets     []stats.TemporalBucket `json:"buckets"`
	HasActivity bool                   `json:"has_activity"`
	Peak        *stats.TemporalBucket  `json:"peak,omitempty"`
	Chart       string                 `json:"chart,omitempty"`
	Guidance    []string               `json:"guidance,omitempty"`
}

func (s *Server) handleActivityDistribution(ctx context.Context, _ *mcp.CallToolRequest, in DistributionInput) (*mcp.CallToolResult, DistributionResult, error) {
	snap, cctx, err := s.contextFor(in.Period)
	if err != nil {
		return nil, DistributionResult{}, err
	}

	res := DistributionResult{Kind: strings.ToLower(in.Kind)}
	switch res.Kind {
	case DistributionHourly:
		res.Buckets = snap.Heatmap
		if s.cfg.EnableMermaidCharts {
			res.Chart = visuals.GenerateHeatmapChart(res.Buckets)
		}
	case DistributionTenure:
		res.Buckets = stats.TenureBands(snap.Members)
		if s.cfg.EnableMermaidCharts {
			res.Chart = visuals.GenerateDistributionPie("Tenure", res.Buckets)
		}
	case DistributionHealth:
		res.Period = cctx.Period
		if res.Buckets, err = stats.HealthBands(snap.Members, cctx); err != nil {
			return nil, DistributionResult{}, err
		}
		if s.cfg.EnableMermaidCharts {
			res.Chart = visuals.GenerateDistributionPie("Clan Health", res.Buckets)
		}
	default:
		return nil, DistributionResult{}, fmt.Errorf("unknown distribution kind %q: use hourly, tenure or health", in.Kind)
	}

	if res.Buckets == nil {
		res.Buckets = []stats.TemporalBucket{}
	}
	res.HasActivity = stats.HasActivity(res.Buckets)
	if peak, ok := stats.PeakBucket(res.Buckets); ok {
		res.Peak = &peak
	}
	if res.Kind == DistributionHourly && !res.HasActivity {
		res.Guidance = append(res.Guidance, "The snapshot carries no hourly activity; an empty heatmap means missing data, not a silent clan.")
	}
	return nil, res, nil
}

// TrendInput is the trend_stability argument set.
type TrendInput struct {
	Metric string `json:"metric,omitempty" jsonschema:"xp (default) or messages"`
}

// TrendResult is the trend_stability response.
type TrendResult struct {
	Stability stats.TrendStability `json:"stability"`
	Days      int                  `json:"days"`
	Chart     string               `json:"chart,omitempty"`
}

func (s *Server) handleTrendStability(ctx context.Context, _ *mcp.CallToolRequest, in TrendInput) (*mcp.CallToolResult, TrendResult, error) {
	snap, _, err := s.contextFor("")
	if err != nil {
		return nil, TrendResult{}, err
	}

	metric := stats.MetricXP
	if in.Metric != "" {
		if metric, err = stats.ParseMetric(in.Metric); err != nil {
			return nil, TrendResult{}, err
		}
	}
	if metric == stats.MetricBoss {
		return nil, TrendResult{}, &stats.InvalidMetricError{Metric: string(metric), Period: "daily"}
	}

	points := snap.Trend()
	stability, err := stats.AnalyzeTrendStability(points, metric)
	if err != nil {
		return nil, TrendResult{}, err
	}
	res := TrendResult{Stability: stability, Days: len(points)}
	if s.cfg.EnableMermaidCharts {
		res.Chart = visuals.GenerateStabilityChart(stability)
	}
	return nil, res, nil
}

// InsightsInput is the member_insights argument set.
type InsightsInput struct {
	Username string `json:"username,omitempty" jsonschema:"member to profile, matched case-insensitively; omit for clan highlights"`
	Period   string `json:"period,omitempty" jsonschema:"reporting window; defaults to the active period"`
}

// MemberProfile describes one member under the active context.
type MemberProfile struct {
	Member      roster.Member              `json:"member"`
	Ranks       map[string]int             `json:"ranks"`
	Score       float64                    `json:"composite_score"`
	TenureBand  string                     `json:"tenure_band"`
	SocialRatio float64                    `json:"xp_per_message"`
	Purge       *stats.PurgeCandidate      `json:"purge,omitempty"`
	Outlier     *stats.Outlier             `json:"outlier,omitempty"`
	Milestone   *stats.MilestoneProjection `json:"milestone,omitempty"`
}

// InsightsResult is the member_insights response. Exactly one of Profile
// and Highlights is set.
type InsightsResult struct {
	Period     stats.Period      `json:"period"`
	Profile    *MemberProfile    `json:"profile,omitempty"`
	Highlights *stats.Highlights `json:"highlights,omitempty"`
	Outliers   []stats.Outlier   `json:"outliers,omitempty"`
}

func (s *Server) handleMemberInsights(ctx context.Context, _ *mcp.CallToolRequest, in InsightsInput) (*mcp.CallToolResult, InsightsResult, error) {
	snap, cctx, err := s.contextFor(in.Period)
	if err != nil {
		return nil, InsightsResult{}, err
	}
	res := InsightsResult{Period: cctx.Period}

	if strings.TrimSpace(in.Username) == "" {
		h, err := stats.CollectHighlights(snap.Members, cctx)
		if err != nil {
			return nil, InsightsResult{}, err
		}
		res.Highlights = &h
		res.Outliers = stats.DetectOutliers(snap.Members)
		return nil, res, nil
	}

	profile, err := buildProfile(snap.Members, cctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, InsightsResult{}, err
	}
	res.Profile = profile
	return nil, res, nil
}

func buildProfile(members []roster.Member, cctx stats.ComputationContext, username string) (*MemberProfile, error) {
	idx := -1
	for i, m := range members {
		if strings.EqualFold(m.Username, username) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("member %q not found in the snapshot", username)
	}
	m := members[idx]

	p := &MemberProfile{
		Member:      m,
		Ranks:       make(map[string]int),
		TenureBand:  stats.TenureBandDefs[stats.BandFor(m.DaysInClan)].Key,
		SocialRatio: stats.SocialRatio(m),
	}

	for _, metric := range []stats.Metric{stats.MetricXP, stats.MetricMessages, stats.MetricBoss} {
		ranked, _, err := stats.RankBy(members, cctx, metric, stats.Descending, stats.NoLimit)
		if err != nil {
			return nil, err
		}
		p.Ranks[string(metric)] = rankOf(ranked, m.Username)
	}

	scorer, err := stats.NewScorer(cctx)
	if err != nil {
		return nil, err
	}
	p.Score = scorer.Score(m)
	p.Ranks["composite"] = rankOf(stats.Rank(members, scorer.Accessor(), stats.Descending, stats.NoLimit), m.Username)

	if v := stats.ClassifyMember(m, cctx.Settings); v.Flagged {
		p.Purge = &stats.PurgeCandidate{Member: m, Status: v.Status, Priority: v.Priority}
	}
	if outliers := stats.DetectOutliers([]roster.Member{m}); len(outliers) > 0 {
		p.Outlier = &outliers[0]
	}
	if proj := stats.ProjectMilestones([]roster.Member{m}, 1); len(proj) > 0 {
		p.Milestone = &proj[0]
	}
	return p, nil
}

func rankOf(entries []stats.RankedEntry, username string) int {
	for _, e := range entries {
		if e.Member.Username == username {
			return e.Rank
		}
	}
	return 0
}
