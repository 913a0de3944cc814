package visuals

import (
	"fmt"
	"strings"
	"testing"

	"clanpulse/internal/roster"
	"clanpulse/internal/stats"
)

func TestGenerateLeaderboardChart(t *testing.T) {
	entries := []stats.RankedEntry{
		{Member: roster.Member{Username: "Ann"}, Value: 340, Rank: 1},
		{Member: roster.Member{Username: `Bo"b`}, Value: 120.5, Rank: 2},
	}

	chart := GenerateLeaderboardChart("Engagement", "Score", entries)

	for _, want := range []string{
		"xychart-beta",
		`title "Engagement"`,
		`x-axis ["Ann", "Bo'b"]`,
		`y-axis "Score" 0 --> `,
		"bar [340.0, 120.5]",
	} {
		if !strings.Contains(chart, want) {
			t.Errorf("Chart missing %q:\n%s", want, chart)
		}
	}

	if GenerateLeaderboardChart("x", "y", nil) != "" {
		t.Errorf("Expected empty chart for no entries")
	}
}

func TestGenerateHeatmapChart(t *testing.T) {
	if GenerateHeatmapChart(stats.HourlyHeatmap(nil)) != "" {
		t.Errorf("Expected no chart for a heatmap without data")
	}

	buckets := stats.HourlyHeatmap([]roster.HourlyObservation{{Hour: 5, Value: 10}})
	chart := GenerateHeatmapChart(buckets)
	if !strings.Contains(chart, `"00", "01"`) || !strings.Contains(chart, "0 --> 12") {
		t.Errorf("Unexpected heatmap chart:\n%s", chart)
	}
	if strings.Count(chart, ",") != 2*(stats.HoursPerDay-1) {
		t.Errorf("Expected 24 labels and 24 values:\n%s", chart)
	}
}

func TestGenerateTrendChart_Subsamples(t *testing.T) {
	var points []stats.TrendPoint
	for i := 0; i < 150; i++ {
		points = append(points, stats.TrendPoint{Date: fmt.Sprintf("d%03d", i), XP: int64(i)})
	}

	chart := GenerateTrendChart(points, stats.MetricXP)

	// step 3 -> 50 sampled points plus the final one
	if got := strings.Count(chart, `"d`); got != 51 {
		t.Errorf("Expected 51 labels, got %d", got)
	}
	if !strings.Contains(chart, `"d149"`) {
		t.Errorf("Expected the last point to be kept")
	}
	if GenerateTrendChart(points, stats.MetricBoss) != "" {
		t.Errorf("Expected no chart for an unsupported metric")
	}
}

func TestGenerateStabilityChart(t *testing.T) {
	points := []stats.TrendPoint{
		{Date: "2024-01-01", Messages: 10},
		{Date: "2024-01-02", Messages: 12},
		{Date: "2024-01-03", Messages: 11},
	}
	result, err := stats.AnalyzeTrendStability(points, stats.MetricMessages)
	if err != nil {
		t.Fatalf("AnalyzeTrendStability() unexpected error: %v", err)
	}

	chart := GenerateStabilityChart(result)
	if strings.Count(chart, "line [") != 3 {
		t.Errorf("Expected three lines:\n%s", chart)
	}
	if GenerateStabilityChart(stats.TrendStability{}) != "" {
		t.Errorf("Expected no chart for an empty series")
	}
}

func TestGenerateDistributionPie(t *testing.T) {
	buckets := []stats.TemporalBucket{
		{BucketKey: "0-30", Value: 2},
		{BucketKey: "31-90", Value: 0},
		{BucketKey: "181+", Value: 5},
	}

	pie := GenerateDistributionPie("Tenure", buckets)
	if !strings.Contains(pie, "pie title Tenure") || !strings.Contains(pie, `"181+" : 5`) {
		t.Errorf("Unexpected pie:\n%s", pie)
	}
	if strings.Contains(pie, "31-90") {
		t.Errorf("Empty slices must be left out:\n%s", pie)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Errorf("FormatCount() = %s", got)
	}
	if got := FormatScore(339.6); got != "340" {
		t.Errorf("FormatScore() = %s", got)
	}

	compact := map[float64]string{
		950:        "950",
		12500:      "12.5k",
		3400000:    "3.4M",
		1200000000: "1.2B",
	}
	for v, want := range compact {
		if got := FormatCompact(v); got != want {
			t.Errorf("FormatCompact(%v) = %s, want %s", v, got, want)
		}
	}
}
