package report

import (
	"context"
	"fmt"
	"time"

	"clanpulse/internal/snapshot"
	"clanpulse/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	annualizedSize = 25
	milestoneSize  = 5
)

// Report is every dashboard section computed from one snapshot under one
// computation context.
type Report struct {
	ID          string                   `json:"id"`
	GeneratedAt time.Time                `json:"generated_at"`
	BuiltAt     time.Time                `json:"built_at"`
	Context     stats.ComputationContext `json:"context"`

	Summary    stats.Summary    `json:"summary"`
	Highlights stats.Highlights `json:"highlights"`

	Composite      []stats.RankedEntry `json:"composite_leaderboard"`
	XPLeaders      []stats.RankedEntry `json:"xp_leaders"`
	MessageLeaders []stats.RankedEntry `json:"message_leaders"`
	BossLeaders    []stats.RankedEntry `json:"boss_leaders"`

	PurgeCandidates []stats.PurgeCandidate `json:"purge_candidates"`
	PurgeCounts     map[string]int         `json:"purge_counts"`
	Outliers        []stats.Outlier        `json:"outliers"`

	Heatmap     []stats.TemporalBucket `json:"heatmap"`
	HasHeatmap  bool                   `json:"has_heatmap"`
	TenureBands []stats.TemporalBucket `json:"tenure_bands"`
	HealthBands []stats.TemporalBucket `json:"health_bands"`

	Trend        []stats.TrendPoint          `json:"trend"`
	XPStability  stats.TrendStability        `json:"xp_stability"`
	MsgStability stats.TrendStability        `json:"message_stability"`
	Annualized   []stats.RankedEntry         `json:"annualized"`
	Milestones   []stats.MilestoneProjection `json:"milestones"`
	Warnings     []string                    `json:"warnings,omitempty"`
}

// Build computes all sections concurrently. The engine calls are pure, so
// each goroutine writes only its own fields.
func Build(ctx context.Context, snap *snapshot.Snapshot, cctx stats.ComputationContext) (*Report, error) {
	members := snap.Members
	size := cctx.Settings.LeaderboardSize

	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: snap.GeneratedAt,
		BuiltAt:     time.Now().UTC(),
		Context:     cctx,
		Warnings:    snap.Warnings,
	}

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	run("summary", func() (err error) {
		r.Summary, err = stats.Summarize(members, cctx)
		return err
	})
	run("highlights", func() (err error) {
		r.Highlights, err = stats.CollectHighlights(members, cctx)
		return err
	})
	run("composite", func() (err error) {
		r.Composite, err = stats.Leaderboard(members, cctx, size)
		return err
	})
	run("xp leaders", func() (err error) {
		r.XPLeaders, _, err = stats.RankBy(members, cctx, stats.MetricXP, stats.Descending, size)
		return err
	})
	run("message leaders", func() (err error) {
		r.MessageLeaders, _, err = stats.RankBy(members, cctx, stats.MetricMessages, stats.Descending, size)
		return err
	})
	run("boss leaders", func() (err error) {
		r.BossLeaders, _, err = stats.RankBy(members, cctx, stats.MetricBoss, stats.Descending, size)
		return err
	})
	run("purge", func() error {
		r.PurgeCandidates = stats.ClassifyPurge(members, cctx.Settings)
		r.PurgeCounts = stats.CountByStatus(r.PurgeCandidates)
		return nil
	})
	run("outliers", func() error {
		r.Outliers = stats.DetectOutliers(members)
		return nil
	})
	run("distributions", func() (err error) {
		r.Heatmap = snap.Heatmap
		r.HasHeatmap = stats.HasActivity(snap.Heatmap)
		r.TenureBands = stats.TenureBands(members)
		r.HealthBands, err = stats.HealthBands(members, cctx)
		return err
	})
	run("trend", func() (err error) {
		r.Trend = snap.Trend()
		if r.XPStability, err = stats.AnalyzeTrendStability(r.Trend, stats.MetricXP); err != nil {
			return err
		}
		r.MsgStability, err = stats.AnalyzeTrendStability(r.Trend, stats.MetricMessages)
		return err
	})
	run("projections", func() error {
		r.Annualized = stats.AnnualizedContribution(members, annualizedSize)
		r.Milestones = stats.ProjectMilestones(members, milestoneSize)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	log.Info().
		Str("report_id", r.ID).
		Str("period", string(cctx.Period)).
		Int("members", len(members)).
		Int("purge_candidates", len(r.PurgeCandidates)).
		Msg("Dashboard report built")
	return r, nil
}
