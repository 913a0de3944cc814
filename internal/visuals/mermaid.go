package visuals

import (
	"fmt"
	"math"
	"strings"

	"clanpulse/internal/stats"
)

// maxChartPoints is where xychart labels start to overlap.
const maxChartPoints = 60

// GenerateLeaderboardChart creates a Mermaid bar chart of ranked members.
func GenerateLeaderboardChart(title, yLabel string, entries []stats.RankedEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for _, e := range entries {
		labels = append(labels, quote(e.Member.Username))
		values = append(values, fmt.Sprintf("%.1f", e.Value))
		if e.Value > maxVal {
			maxVal = e.Value
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s 0 --> %d\n", quote(yLabel), axisMax(maxVal, 1.1)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateHeatmapChart creates a Mermaid bar chart of messages per hour.
// It returns "" when the heatmap carries no data at all.
func GenerateHeatmapChart(buckets []stats.TemporalBucket) string {
	if !stats.HasActivity(buckets) {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for _, b := range buckets {
		labels = append(labels, quote(b.BucketKey))
		values = append(values, fmt.Sprintf("%.0f", b.Value))
		maxVal = math.Max(maxVal, b.Value)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Activity by Hour (UTC)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Messages\" 0 --> %d\n", axisMax(maxVal, 1.2)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart creates a Mermaid line chart of the daily series for
// metric, subsampled when it is too wide to render.
func GenerateTrendChart(points []stats.TrendPoint, metric stats.Metric) string {
	buckets, err := stats.TrendBuckets(points, metric)
	if err != nil || len(buckets) == 0 {
		return ""
	}

	step := 1
	if len(buckets) > maxChartPoints {
		step = int(math.Ceil(float64(len(buckets)) / maxChartPoints))
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for i, b := range buckets {
		maxVal = math.Max(maxVal, b.Value)
		if i%step == 0 || i == len(buckets)-1 {
			labels = append(labels, quote(b.BucketKey))
			values = append(values, fmt.Sprintf("%.0f", b.Value))
		}
	}

	yLabel := "XP"
	if metric == stats.MetricMessages {
		yLabel = "Messages"
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Daily %s\"\n", yLabel))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s 0 --> %d\n", quote(yLabel), axisMax(maxVal, 1.1)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateStabilityChart plots the daily series against its average and
// upper natural process limit.
func GenerateStabilityChart(result stats.TrendStability) string {
	xmr := result.Daily
	if len(xmr.Values) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var averages []string
	var unpls []string

	for i, v := range xmr.Values {
		labels = append(labels, fmt.Sprintf("%d", i+1))
		values = append(values, fmt.Sprintf("%.0f", v))
		averages = append(averages, fmt.Sprintf("%.0f", xmr.Average))
		unpls = append(unpls, fmt.Sprintf("%.0f", xmr.UNPL))
	}

	maxY := xmr.UNPL * 1.2
	for _, v := range xmr.Values {
		if v > maxY {
			maxY = v * 1.1
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Trend Stability (%s)\"\n", result.Metric))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Per Day\" 0 --> %d\n", int(math.Ceil(maxY))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(averages, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(unpls, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateDistributionPie creates a Mermaid pie chart from buckets, leaving
// out empty slices.
func GenerateDistributionPie(title string, buckets []stats.TemporalBucket) string {
	if !stats.HasActivity(buckets) {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", title))
	for _, b := range buckets {
		if b.Value == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s : %.0f\n", quote(b.BucketKey), b.Value))
	}
	sb.WriteString("```")
	return sb.String()
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "'") + "\""
}

func axisMax(maxVal, headroom float64) int {
	return int(math.Max(1, math.Ceil(maxVal*headroom)))
}
