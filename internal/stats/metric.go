package stats

import (
	"errors"
	"fmt"

	"clanpulse/internal/roster"
)

// Period selects the reporting window whose fields are read.
type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// Metric is a logical activity measure independent of the window.
type Metric string

const (
	MetricXP       Metric = "xp"
	MetricMessages Metric = "messages"
	MetricBoss     Metric = "boss"
)

// Field identifies one concrete numeric column of a roster.Member.
type Field string

const (
	FieldXP7d       Field = "xp_7d"
	FieldXP30d      Field = "xp_30d"
	FieldTotalXP    Field = "total_xp"
	FieldBoss7d     Field = "boss_7d"
	FieldBoss30d    Field = "boss_30d"
	FieldTotalBoss  Field = "total_boss"
	FieldMsgs7d     Field = "msgs_7d"
	FieldMsgs30d    Field = "msgs_30d"
	FieldMsgsTotal  Field = "msgs_total"
	FieldDaysInClan Field = "days_in_clan"
)

// ErrInvalidMetric is matched by every InvalidMetricError.
var ErrInvalidMetric = errors.New("invalid metric")

// InvalidMetricError reports a metric/period combination the selector cannot
// resolve. It is a programming error on the caller's side.
type InvalidMetricError struct {
	Metric string
	Period string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid metric %q for period %q", e.Metric, e.Period)
}

func (e *InvalidMetricError) Is(target error) bool {
	return target == ErrInvalidMetric
}

// Selection is the outcome of resolving a metric for a period.
type Selection struct {
	Field Field `json:"field"`
	// Fallback is set when the requested window does not exist in the
	// snapshot and the legacy 7-day column was chosen instead.
	Fallback bool `json:"fallback,omitempty"`
}

// ParsePeriod validates a user-supplied period. An empty string yields the
// 7-day default.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return Period7d, nil
	case Period7d, Period30d:
		return Period(s), nil
	}
	return "", &InvalidMetricError{Period: s}
}

// ParseMetric validates a user-supplied metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricXP, MetricMessages, MetricBoss:
		return Metric(s), nil
	}
	return "", &InvalidMetricError{Metric: s}
}

// SelectMetric resolves which member field backs metric for period.
//
// Boss kills only carry a 30-day column in newer snapshots. When it is
// missing, the 7-day column is returned with Fallback set so that callers
// can label the result instead of presenting it as 30-day data.
func SelectMetric(metric Metric, period Period, boss30dAvailable bool) (Selection, error) {
	switch period {
	case Period7d, Period30d:
	default:
		return Selection{}, &InvalidMetricError{Metric: string(metric), Period: string(period)}
	}

	switch metric {
	case MetricXP:
		if period == Period30d {
			return Selection{Field: FieldXP30d}, nil
		}
		return Selection{Field: FieldXP7d}, nil
	case MetricMessages:
		if period == Period30d {
			return Selection{Field: FieldMsgs30d}, nil
		}
		return Selection{Field: FieldMsgs7d}, nil
	case MetricBoss:
		if period == Period30d {
			if boss30dAvailable {
				return Selection{Field: FieldBoss30d}, nil
			}
			return Selection{Field: FieldBoss7d, Fallback: true}, nil
		}
		return Selection{Field: FieldBoss7d}, nil
	}
	return Selection{}, &InvalidMetricError{Metric: string(metric), Period: string(period)}
}

// Accessor is a pure projection of a member onto a number.
type Accessor func(roster.Member) float64

// Accessor returns the projection reading f. Unknown fields read as 0.
func (f Field) Accessor() Accessor {
	return func(m roster.Member) float64 {
		return float64(f.Value(m))
	}
}

// Value reads f from m.
func (f Field) Value(m roster.Member) int64 {
	switch f {
	case FieldXP7d:
		return m.XP7d
	case FieldXP30d:
		return m.XP30d
	case FieldTotalXP:
		return m.TotalXP
	case FieldBoss7d:
		return m.Boss7d
	case FieldBoss30d:
		return m.Boss30d
	case FieldTotalBoss:
		return m.TotalBoss
	case FieldMsgs7d:
		return m.Msgs7d
	case FieldMsgs30d:
		return m.Msgs30d
	case FieldMsgsTotal:
		return m.MsgsTotal
	case FieldDaysInClan:
		return m.DaysInClan
	}
	return 0
}

// ParseField validates a raw column name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	switch f {
	case FieldXP7d, FieldXP30d, FieldTotalXP,
		FieldBoss7d, FieldBoss30d, FieldTotalBoss,
		FieldMsgs7d, FieldMsgs30d, FieldMsgsTotal,
		FieldDaysInClan:
		return f, nil
	}
	return "", &InvalidMetricError{Metric: s}
}
