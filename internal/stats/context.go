package stats

import "clanpulse/internal/roster"

// ComputationContext carries everything a period- or threshold-dependent
// computation needs. It is a value: switching the period or the settings
// yields a new context, and results computed from an older one must be
// discarded by the caller.
type ComputationContext struct {
	Period   Period   `json:"period"`
	Settings Settings `json:"settings"`
	// Boss30dAvailable reports whether the snapshot carries the 30-day boss
	// column at all.
	Boss30dAvailable bool `json:"boss_30d_available"`
}

// NewComputationContext derives a context for members under the given period
// and settings.
func NewComputationContext(members []roster.Member, period Period, settings Settings) ComputationContext {
	if period == "" {
		period = Period7d
	}
	return ComputationContext{
		Period:           period,
		Settings:         settings,
		Boss30dAvailable: roster.AnyBoss30d(members),
	}
}

// WithPeriod returns a copy of c reading the given window.
func (c ComputationContext) WithPeriod(p Period) ComputationContext {
	c.Period = p
	return c
}

// WithSettings returns a copy of c using s.
func (c ComputationContext) WithSettings(s Settings) ComputationContext {
	c.Settings = s
	return c
}

// Select resolves metric under the context's period.
func (c ComputationContext) Select(metric Metric) (Selection, error) {
	return SelectMetric(metric, c.Period, c.Boss30dAvailable)
}
