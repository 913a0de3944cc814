package stats

import (
	"errors"
	"testing"

	"clanpulse/internal/roster"
)

func TestHourlyHeatmap(t *testing.T) {
	obs := []roster.HourlyObservation{
		{Day: 0, Hour: 9, Value: 5},
		{Day: 3, Hour: 9, Value: 7},
		{Day: 1, Hour: 23, Value: 1},
		{Day: 1, Hour: 24, Value: 100},
		{Day: 1, Hour: -1, Value: 100},
	}

	buckets := HourlyHeatmap(obs)

	if len(buckets) != HoursPerDay {
		t.Fatalf("Expected %d buckets, got %d", HoursPerDay, len(buckets))
	}
	if buckets[0].BucketKey != "00" || buckets[23].BucketKey != "23" {
		t.Errorf("Unexpected bucket keys %s..%s", buckets[0].BucketKey, buckets[23].BucketKey)
	}
	if buckets[9].Value != 12 {
		t.Errorf("Expected hour 09 = 12, got %v", buckets[9].Value)
	}
	if buckets[23].Value != 1 {
		t.Errorf("Expected hour 23 = 1, got %v", buckets[23].Value)
	}

	peak, ok := PeakBucket(buckets)
	if !ok || peak.BucketKey != "09" {
		t.Errorf("Expected peak at 09, got %+v (ok=%v)", peak, ok)
	}
}

func TestHourlyHeatmap_NoData(t *testing.T) {
	buckets := HourlyHeatmap(nil)
	if len(buckets) != HoursPerDay {
		t.Fatalf("Expected %d buckets for empty input, got %d", HoursPerDay, len(buckets))
	}
	if HasActivity(buckets) {
		t.Errorf("Empty heatmap must report no activity")
	}
	if _, ok := PeakBucket(buckets); ok {
		t.Errorf("Empty heatmap must have no peak")
	}
}

func TestHeatmapFromCounts(t *testing.T) {
	counts := make([]float64, 30)
	counts[2] = 4
	counts[25] = 99

	buckets := HeatmapFromCounts(counts)
	if len(buckets) != HoursPerDay {
		t.Fatalf("Expected %d buckets, got %d", HoursPerDay, len(buckets))
	}
	if buckets[2].Value != 4 {
		t.Errorf("Expected hour 02 = 4, got %v", buckets[2].Value)
	}

	short := HeatmapFromCounts([]float64{1})
	if len(short) != HoursPerDay || short[23].Value != 0 {
		t.Errorf("Short input must be padded to 24 buckets")
	}
}

func TestTenureBands_OnePerBand(t *testing.T) {
	var members []roster.Member
	for _, d := range []int64{10, 45, 120, 200} {
		members = append(members, roster.Member{DaysInClan: d})
	}

	bands := TenureBands(members)

	want := map[string]float64{"0-30": 1, "31-90": 1, "91-180": 1, "181+": 1}
	for _, b := range bands {
		if b.Value != want[b.BucketKey] {
			t.Errorf("Band %s = %v, want %v", b.BucketKey, b.Value, want[b.BucketKey])
		}
	}
}

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		days int64
		want string
	}{
		{0, "0-30"},
		{30, "0-30"},
		{31, "31-90"},
		{90, "31-90"},
		{91, "91-180"},
		{180, "91-180"},
		{181, "181+"},
		{5000, "181+"},
	}

	for _, tt := range tests {
		if got := TenureBandDefs[BandFor(tt.days)].Key; got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestTenureBands_Partition(t *testing.T) {
	var members []roster.Member
	for d := int64(0); d < 400; d += 7 {
		members = append(members, roster.Member{DaysInClan: d})
	}

	var total float64
	for _, b := range TenureBands(members) {
		total += b.Value
	}
	if int(total) != len(members) {
		t.Errorf("Band counts sum to %v, want %d", total, len(members))
	}
}

func TestDailyTrend(t *testing.T) {
	history := []roster.HistoryPoint{
		{Date: "2024-03-03", XP: 30, Messages: 3},
		{Date: "2024-03-01", XP: 10, Messages: 1},
		{Date: "not a date", XP: 999, Messages: 999},
		{Date: "2024-03-03T18:00:00Z", XP: 5, Messages: 1},
	}

	points := DailyTrend(history)

	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d: %+v", len(points), points)
	}
	if points[0].Date != "2024-03-01" || points[1].Date != "2024-03-03" {
		t.Errorf("Points not sorted ascending: %+v", points)
	}
	if points[1].XP != 35 || points[1].Messages != 4 {
		t.Errorf("Expected same-day entries summed, got %+v", points[1])
	}
}

func TestTrendBuckets(t *testing.T) {
	points := []TrendPoint{{Date: "2024-01-01", XP: 7, Messages: 2}}

	xp, err := TrendBuckets(points, MetricXP)
	if err != nil || xp[0].Value != 7 || xp[0].BucketKey != "2024-01-01" {
		t.Errorf("TrendBuckets(xp) = %+v, %v", xp, err)
	}
	msgs, err := TrendBuckets(points, MetricMessages)
	if err != nil || msgs[0].Value != 2 {
		t.Errorf("TrendBuckets(messages) = %+v, %v", msgs, err)
	}
	if _, err := TrendBuckets(points, MetricBoss); err == nil {
		t.Errorf("Expected an error for boss trend")
	}
	if _, err := TrendBuckets(nil, MetricBoss); !errors.Is(err, ErrInvalidMetric) {
		t.Errorf("Expected ErrInvalidMetric for an empty boss trend, got %v", err)
	}
}
