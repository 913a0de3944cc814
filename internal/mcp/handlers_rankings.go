package mcp

import (
	"context"
	"fmt"

	"clanpulse/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// RankInput is the rank_members argument set.
type RankInput struct {
	Metric string `json:"metric,omitempty" jsonschema:"logical metric resolved against the period (xp, messages, boss)"`
	Field  string `json:"field,omitempty" jsonschema:"concrete member column; takes precedence over metric"`
	Period string `json:"period,omitempty" jsonschema:"reporting window; defaults to the active period"`
	Order  string `json:"order,omitempty" jsonschema:"desc (default) or asc"`
	Limit  *int   `json:"limit,omitempty" jsonschema:"maximum entries; defaults to the configured leaderboard size, negative for everyone"`
}

// RankResult is the rank_members response.
type RankResult struct {
	Period   stats.Period        `json:"period"`
	Metric   string              `json:"metric,omitempty"`
	Field    stats.Field         `json:"field"`
	Fallback bool                `json:"fallback,omitempty"`
	Order    string              `json:"order"`
	Entries  []stats.RankedEntry `json:"entries"`
	Guidance []string            `json:"guidance,omitempty"`
}

func (s *Server) handleRankMembers(ctx context.Context, _ *mcp.CallToolRequest, in RankInput) (*mcp.CallToolResult, RankResult, error) {
	snap, cctx, err := s.contextFor(in.Period)
	if err != nil {
		return nil, RankResult{}, err
	}
	order, err := stats.ParseOrder(in.Order)
	if err != nil {
		return nil, RankResult{}, err
	}
	limit := limitOr(in.Limit, cctx.Settings.LeaderboardSize)

	res := RankResult{Period: cctx.Period, Order: order.String()}
	switch {
	case in.Field != "":
		field, err := stats.ParseField(in.Field)
		if err != nil {
			return nil, RankResult{}, err
		}
		res.Field = field
		res.Entries = stats.Rank(snap.Members, field.Accessor(), order, limit)
	case in.Metric != "":
		metric, err := stats.ParseMetric(in.Metric)
		if err != nil {
			return nil, RankResult{}, err
		}
		entries, sel, err := stats.RankBy(snap.Members, cctx, metric, order, limit)
		if err != nil {
			return nil, RankResult{}, err
		}
		res.Metric = string(metric)
		res.Field = sel.Field
		res.Fallback = sel.Fallback
		res.Entries = entries
		if sel.Fallback {
			res.Guidance = append(res.Guidance, "The snapshot has no 30-day boss column; weekly kills were ranked instead.")
		}
	default:
		return nil, RankResult{}, fmt.Errorf("either 'metric' or 'field' is required")
	}

	log.Debug().
		Str("field", string(res.Field)).
		Str("order", res.Order).
		Int("entries", len(res.Entries)).
		Msg("rank_members")
	return nil, res, nil
}

// CompositeInput is the composite_leaderboard argument set.
type CompositeInput struct {
	Period     string   `json:"period,omitempty" jsonschema:"reporting window; defaults to the active period"`
	Limit      *int     `json:"limit,omitempty" jsonschema:"maximum entries; defaults to the configured leaderboard size"`
	BossWeight *float64 `json:"boss_weight,omitempty" jsonschema:"points per boss kill for this call"`
	MsgWeight  *float64 `json:"msg_weight,omitempty" jsonschema:"points per message for this call"`
	XPDivisor  *float64 `json:"xp_divisor,omitempty" jsonschema:"experience per point for this call; must be positive"`
}

// CompositeEntry is one composite leaderboard row.
type CompositeEntry struct {
	Rank         int     `json:"rank"`
	Username     string  `json:"username"`
	Score        float64 `json:"score"`
	DisplayScore int64   `json:"display_score"`
	Messages     int64   `json:"messages"`
	Boss         int64   `json:"boss"`
	XP           int64   `json:"xp"`
}

// CompositeResult is the composite_leaderboard response.
type CompositeResult struct {
	Period       stats.Period     `json:"period"`
	Weights      stats.Weights    `json:"weights"`
	Formula      string           `json:"formula"`
	BossFallback bool             `json:"boss_fallback,omitempty"`
	Entries      []CompositeEntry `json:"entries"`
}

func (s *Server) handleCompositeLeaderboard(ctx context.Context, _ *mcp.CallToolRequest, in CompositeInput) (*mcp.CallToolResult, CompositeResult, error) {
	snap, cctx, err := s.contextFor(in.Period)
	if err != nil {
		return nil, CompositeResult{}, err
	}

	overrides := map[string]any{}
	if in.BossWeight != nil {
		overrides[stats.KeyBossWeight] = *in.BossWeight
	}
	if in.MsgWeight != nil {
		overrides[stats.KeyMsgWeight] = *in.MsgWeight
	}
	if in.XPDivisor != nil {
		overrides[stats.KeyXPDivisor] = *in.XPDivisor
	}
	if len(overrides) > 0 {
		settings, err := cctx.Settings.WithOverrides(overrides)
		if err != nil {
			return nil, CompositeResult{}, err
		}
		cctx = cctx.WithSettings(settings)
	}

	scorer, err := stats.NewScorer(cctx)
	if err != nil {
		return nil, CompositeResult{}, err
	}
	ranked := stats.Rank(snap.Members, scorer.Accessor(), stats.Descending, limitOr(in.Limit, cctx.Settings.LeaderboardSize))

	w := scorer.Weights
	res := CompositeResult{
		Period:       cctx.Period,
		Weights:      w,
		Formula:      fmt.Sprintf("msgs*%g + boss*%g + xp/%g", w.Messages, w.Boss, w.XPDivisor),
		BossFallback: scorer.Boss.Fallback,
		Entries:      make([]CompositeEntry, 0, len(ranked)),
	}
	for _, r := range ranked {
		res.Entries = append(res.Entries, CompositeEntry{
			Rank:         r.Rank,
			Username:     r.Member.Username,
			Score:        r.Value,
			DisplayScore: stats.DisplayScore(r.Value),
			Messages:     scorer.Messages.Field.Value(r.Member),
			Boss:         scorer.Boss.Field.Value(r.Member),
			XP:           scorer.XP.Field.Value(r.Member),
		})
	}
	return nil, res, nil
}

// PurgeInput is the purge_candidates argument set.
type PurgeInput struct {
	ThresholdDays *int64 `json:"threshold_days,omitempty" jsonschema:"tenure in days after which inactivity counts"`
	MinXP         *int64 `json:"min_xp,omitempty" jsonschema:"30-day experience floor"`
	MinBoss       *int64 `json:"min_boss,omitempty" jsonschema:"30-day boss kill floor"`
	MinMsgs       *int64 `json:"min_msgs,omitempty" jsonschema:"30-day message floor"`
}

// PurgeResult is the purge_candidates response.
type PurgeResult struct {
	ThresholdDays int64                  `json:"threshold_days"`
	MinXP         int64                  `json:"min_xp"`
	MinBoss       int64                  `json:"min_boss"`
	MinMsgs       int64                  `json:"min_msgs"`
	Total         int                    `json:"total"`
	Counts        map[string]int         `json:"counts"`
	Candidates    []stats.PurgeCandidate `json:"candidates"`
}

func (s *Server) handlePurgeCandidates(ctx context.Context, _ *mcp.CallToolRequest, in PurgeInput) (*mcp.CallToolResult, PurgeResult, error) {
	snap, cctx, err := s.contextFor("")
	if err != nil {
		return nil, PurgeResult{}, err
	}

	overrides := map[string]any{}
	if in.ThresholdDays != nil {
		overrides[stats.KeyPurgeThresholdDays] = *in.ThresholdDays
	}
	if in.MinXP != nil {
		overrides[stats.KeyPurgeMinXP] = *in.MinXP
	}
	if in.MinBoss != nil {
		overrides[stats.KeyPurgeMinBoss] = *in.MinBoss
	}
	if in.MinMsgs != nil {
		overrides[stats.KeyPurgeMinMsgs] = *in.MinMsgs
	}
	settings := cctx.Settings
	if len(overrides) > 0 {
		if settings, err = settings.WithOverrides(overrides); err != nil {
			return nil, PurgeResult{}, err
		}
	}

	candidates := stats.ClassifyPurge(snap.Members, settings)
	return nil, PurgeResult{
		ThresholdDays: settings.PurgeThresholdDays,
		MinXP:         settings.PurgeMinXP,
		MinBoss:       settings.PurgeMinBoss,
		MinMsgs:       settings.PurgeMinMsgs,
		Total:         len(candidates),
		Counts:        stats.CountByStatus(candidates),
		Candidates:    candidates,
	}, nil
}
