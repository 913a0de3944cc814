package stats

import (
	"fmt"
	"math"
	"time"
)

// XmRResult is an Individuals and Moving Range chart over a series.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
}

// Signal marks a point that the chart considers exceptional.
type Signal struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Type        string `json:"type"` // "spike", "drop", "shift"
	Description string `json:"description"`
}

const (
	SignalSpike = "spike"
	SignalDrop  = "drop"
	SignalShift = "shift"

	// Wheeler's scaling constant for individuals charts.
	xmrScale = 2.66
	// Consecutive points on one side of the average that count as a shift.
	shiftRun = 8
)

// CalculateXmR computes limits and signals for values. keys label the
// points in reported signals and may be shorter than values.
func CalculateXmR(values []float64, keys []string) XmRResult {
	if len(values) == 0 {
		return XmRResult{}
	}

	result := XmRResult{Values: values}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	result.Average = sum / float64(len(values))

	if len(values) > 1 {
		mrSum := 0.0
		result.MovingRange = make([]float64, len(values)-1)
		for i := 0; i < len(values)-1; i++ {
			mr := math.Abs(values[i+1] - values[i])
			result.MovingRange[i] = mr
			mrSum += mr
		}
		result.AmR = mrSum / float64(len(values)-1)
	}

	// activity cannot go negative, so the lower limit is floored at zero
	result.UNPL = result.Average + xmrScale*result.AmR
	result.LNPL = math.Max(0, result.Average-xmrScale*result.AmR)
	result.Signals = detectSignals(values, result.Average, result.UNPL, result.LNPL, keys)
	return result
}

// Trend stability labels.
const (
	TrendStable   = "stable"
	TrendVolatile = "volatile"
	TrendShifting = "shifting"
)

// TrendStability is the behavior of a daily activity series.
type TrendStability struct {
	Metric Metric    `json:"metric"`
	Daily  XmRResult `json:"daily"`
	// Weekly charts the averages of complete ISO weeks.
	Weekly []WeekSubgroup `json:"weekly"`
	Status string         `json:"status"`
}

// WeekSubgroup is the average daily value of one ISO week.
type WeekSubgroup struct {
	Label   string    `json:"label"` // 2024-W09
	Average float64   `json:"average"`
	Values  []float64 `json:"values"`
}

// AnalyzeTrendStability charts a daily trend for metric. The status is
// "shifting" when the daily series shows a sustained run on one side of its
// average, "volatile" when single days break the limits, and "stable"
// otherwise.
func AnalyzeTrendStability(points []TrendPoint, metric Metric) (TrendStability, error) {
	buckets, err := TrendBuckets(points, metric)
	if err != nil {
		return TrendStability{}, err
	}

	values := make([]float64, len(buckets))
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = b.Value
		keys[i] = b.BucketKey
	}

	result := TrendStability{
		Metric: metric,
		Daily:  CalculateXmR(values, keys),
		Weekly: GroupByWeek(points, metric),
		Status: TrendStable,
	}
	for _, s := range result.Daily.Signals {
		if s.Type == SignalShift {
			result.Status = TrendShifting
			break
		}
		result.Status = TrendVolatile
	}
	return result, nil
}

// GroupByWeek averages a daily trend per ISO week, oldest first. Weeks with
// fewer than seven recorded days are partial and left out.
func GroupByWeek(points []TrendPoint, metric Metric) []WeekSubgroup {
	groups := make(map[string]*WeekSubgroup)
	var order []string

	for _, p := range points {
		day, err := ParseDay(p.Date)
		if err != nil {
			continue
		}
		label := weekLabel(day)
		g, ok := groups[label]
		if !ok {
			g = &WeekSubgroup{Label: label}
			groups[label] = g
			order = append(order, label)
		}
		v := p.XP
		if metric == MetricMessages {
			v = p.Messages
		}
		g.Values = append(g.Values, float64(v))
	}

	result := make([]WeekSubgroup, 0, len(order))
	for _, label := range order {
		g := groups[label]
		if len(g.Values) < 7 {
			continue
		}
		sum := 0.0
		for _, v := range g.Values {
			sum += v
		}
		g.Average = sum / float64(len(g.Values))
		result = append(result, *g)
	}
	return result
}

func weekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func detectSignals(values []float64, avg, unpl, lnpl float64, keys []string) []Signal {
	var signals []Signal
	keyAt := func(i int) string {
		if i < len(keys) {
			return keys[i]
		}
		return ""
	}

	for i, v := range values {
		if v > unpl {
			signals = append(signals, Signal{
				Index:       i,
				Key:         keyAt(i),
				Type:        SignalSpike,
				Description: "Above the upper natural process limit",
			})
		} else if v < lnpl {
			signals = append(signals, Signal{
				Index:       i,
				Key:         keyAt(i),
				Type:        SignalDrop,
				Description: "Below the lower natural process limit",
			})
		}
	}

	if len(values) >= shiftRun {
		side := 0
		count := 0
		for i, v := range values {
			current := 0
			if v > avg {
				current = 1
			} else if v < avg {
				current = -1
			}

			if current == side && current != 0 {
				count++
			} else {
				side = current
				count = 1
			}

			if count == shiftRun {
				signals = append(signals, Signal{
					Index:       i,
					Key:         keyAt(i),
					Type:        SignalShift,
					Description: "Eight consecutive days on one side of the average",
				})
			}
		}
	}
	return signals
}
