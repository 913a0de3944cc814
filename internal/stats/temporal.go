package stats

import (
	"fmt"
	"slices"
	"time"

	"clanpulse/internal/roster"
)

// TemporalBucket is one slot of a fixed-width histogram.
type TemporalBucket struct {
	BucketKey string  `json:"bucket_key"`
	Value     float64 `json:"value"`
}

// HoursPerDay is the fixed width of the hourly heatmap.
const HoursPerDay = 24

// HourlyHeatmap sums message volume per hour of day. The result always has
// 24 buckets keyed "00".."23"; hours outside that range are ignored.
// Use HasActivity to tell an empty window apart from quiet hours.
func HourlyHeatmap(observations []roster.HourlyObservation) []TemporalBucket {
	var sums [HoursPerDay]float64
	for _, o := range observations {
		if o.Hour < 0 || o.Hour >= HoursPerDay {
			continue
		}
		sums[o.Hour] += float64(o.Value)
	}
	return hourBuckets(sums)
}

// HeatmapFromCounts builds the heatmap from a legacy positional array where
// index i holds the count for hour i. Extra entries are ignored and missing
// ones read as 0.
func HeatmapFromCounts(counts []float64) []TemporalBucket {
	var sums [HoursPerDay]float64
	for i := 0; i < len(counts) && i < HoursPerDay; i++ {
		if counts[i] > 0 {
			sums[i] = counts[i]
		}
	}
	return hourBuckets(sums)
}

func hourBuckets(sums [HoursPerDay]float64) []TemporalBucket {
	buckets := make([]TemporalBucket, HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		buckets[h] = TemporalBucket{BucketKey: fmt.Sprintf("%02d", h), Value: sums[h]}
	}
	return buckets
}

// HasActivity reports whether any bucket holds a non-zero value. An all-zero
// heatmap means "no data", not "zero activity at every hour".
func HasActivity(buckets []TemporalBucket) bool {
	for _, b := range buckets {
		if b.Value != 0 {
			return true
		}
	}
	return false
}

// PeakBucket returns the bucket with the highest value, earliest key first on
// ties. ok is false when there is no activity.
func PeakBucket(buckets []TemporalBucket) (TemporalBucket, bool) {
	var peak TemporalBucket
	found := false
	for _, b := range buckets {
		if b.Value > 0 && (!found || b.Value > peak.Value) {
			peak = b
			found = true
		}
	}
	return peak, found
}

// TenureBand is a closed day range; Max < 0 means unbounded.
type TenureBand struct {
	Key string
	Min int64
	Max int64
}

// TenureBandDefs are the four fixed, non-overlapping tenure bands.
var TenureBandDefs = []TenureBand{
	{Key: "0-30", Min: 0, Max: 30},
	{Key: "31-90", Min: 31, Max: 90},
	{Key: "91-180", Min: 91, Max: 180},
	{Key: "181+", Min: 181, Max: -1},
}

// BandFor returns the index of the tenure band containing days.
func BandFor(days int64) int {
	for i, b := range TenureBandDefs {
		if days <= b.Max || b.Max < 0 {
			return i
		}
	}
	return len(TenureBandDefs) - 1
}

// TenureBands counts members per tenure band. Every member falls into
// exactly one band, so the values sum to len(members).
func TenureBands(members []roster.Member) []TemporalBucket {
	counts := make([]float64, len(TenureBandDefs))
	for _, m := range members {
		counts[BandFor(m.DaysInClan)]++
	}
	buckets := make([]TemporalBucket, len(TenureBandDefs))
	for i, b := range TenureBandDefs {
		buckets[i] = TemporalBucket{BucketKey: b.Key, Value: counts[i]}
	}
	return buckets
}

// TrendPoint is one day of the clan-wide activity series.
type TrendPoint struct {
	Date     string `json:"date"`
	XP       int64  `json:"xp"`
	Messages int64  `json:"messages"`
}

// ParseDay accepts YYYY-MM-DD or RFC 3339 and returns the calendar day.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DailyTrend returns one point per day present in history, oldest first.
// Entries sharing a day are summed. Missing days are not filled in; whether
// to interpolate is the caller's decision. Undated entries are skipped.
func DailyTrend(history []roster.HistoryPoint) []TrendPoint {
	byDay := make(map[time.Time]*TrendPoint)
	var days []time.Time
	for _, h := range history {
		day, err := ParseDay(h.Date)
		if err != nil {
			continue
		}
		p, ok := byDay[day]
		if !ok {
			p = &TrendPoint{Date: day.Format(time.DateOnly)}
			byDay[day] = p
			days = append(days, day)
		}
		p.XP += h.XP
		p.Messages += h.Messages
	}

	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})

	points := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		points = append(points, *byDay[d])
	}
	return points
}

// TrendBuckets projects a trend series onto the shared bucket contract.
// metric must be MetricXP or MetricMessages.
func TrendBuckets(points []TrendPoint, metric Metric) ([]TemporalBucket, error) {
	if metric != MetricXP && metric != MetricMessages {
		return nil, &InvalidMetricError{Metric: string(metric), Period: "daily"}
	}
	buckets := make([]TemporalBucket, 0, len(points))
	for _, p := range points {
		v := p.XP
		if metric == MetricMessages {
			v = p.Messages
		}
		buckets = append(buckets, TemporalBucket{BucketKey: p.Date, Value: float64(v)})
	}
	return buckets, nil
}
