package stats

import (
	"math"

	"clanpulse/internal/roster"
)

// Weights parameterize the composite engagement score.
//
// XPDivisor scales raw experience down to the magnitude of message and kill
// counts; without it experience dominates regardless of the other weights.
type Weights struct {
	Messages  float64 `json:"leaderboard_weight_msgs" validate:"gte=0"`
	Boss      float64 `json:"leaderboard_weight_boss" validate:"gte=0"`
	XPDivisor float64 `json:"xp_divisor" validate:"gt=0"`
}

// Validate rejects negative weights and a non-positive divisor.
func (w Weights) Validate() error {
	return validateStruct(w)
}

// CompositeScore is the raw formula: msgs*W_msg + boss*W_boss + xp/divisor.
func CompositeScore(messages, boss, xp float64, w Weights) float64 {
	return messages*w.Messages + boss*w.Boss + xp/w.XPDivisor
}

// Score computes the 7-day composite score of m. Use a Scorer for other
// periods.
func Score(m roster.Member, w Weights) float64 {
	return CompositeScore(float64(m.Msgs7d), float64(m.Boss7d), float64(m.XP7d), w)
}

// DisplayScore rounds a composite score for presentation. Rankings must use
// the unrounded value.
func DisplayScore(score float64) int64 {
	return int64(math.Round(score))
}

// Scorer computes composite scores for the fields of one period.
type Scorer struct {
	Weights  Weights
	Messages Selection
	Boss     Selection
	XP       Selection
}

// NewScorer resolves the period fields and validates the weights of ctx.
func NewScorer(ctx ComputationContext) (Scorer, error) {
	w := ctx.Settings.Weights()
	if err := w.Validate(); err != nil {
		return Scorer{}, err
	}
	msgs, err := ctx.Select(MetricMessages)
	if err != nil {
		return Scorer{}, err
	}
	boss, err := ctx.Select(MetricBoss)
	if err != nil {
		return Scorer{}, err
	}
	xp, err := ctx.Select(MetricXP)
	if err != nil {
		return Scorer{}, err
	}
	return Scorer{Weights: w, Messages: msgs, Boss: boss, XP: xp}, nil
}

// Score computes the unrounded composite score of m.
func (s Scorer) Score(m roster.Member) float64 {
	return CompositeScore(
		float64(s.Messages.Field.Value(m)),
		float64(s.Boss.Field.Value(m)),
		float64(s.XP.Field.Value(m)),
		s.Weights,
	)
}

// Accessor exposes the scorer to the ranking engine.
func (s Scorer) Accessor() Accessor {
	return s.Score
}

// Leaderboard ranks members by composite score, highest first.
func Leaderboard(members []roster.Member, ctx ComputationContext, limit int) ([]RankedEntry, error) {
	scorer, err := NewScorer(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(members, scorer.Accessor(), Descending, limit), nil
}
