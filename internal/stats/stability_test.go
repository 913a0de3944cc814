package stats

import (
	"fmt"
	"math"
	"testing"
)

func TestCalculateXmR(t *testing.T) {
	values := []float64{10, 12, 11, 13, 11}
	result := CalculateXmR(values, nil)

	if math.Abs(result.Average-11.4) > 0.001 {
		t.Errorf("Expected average 11.4, got %v", result.Average)
	}
	if math.Abs(result.AmR-1.75) > 0.001 {
		t.Errorf("Expected AmR 1.75, got %v", result.AmR)
	}
	if math.Abs(result.UNPL-16.055) > 0.001 {
		t.Errorf("Expected UNPL 16.055, got %v", result.UNPL)
	}
	if len(result.Signals) != 0 {
		t.Errorf("Expected 0 signals, got %v", len(result.Signals))
	}
}

func TestCalculateXmR_Empty(t *testing.T) {
	if r := CalculateXmR(nil, nil); r.Average != 0 || r.Signals != nil {
		t.Errorf("Expected zero result, got %+v", r)
	}
}

func TestXmRSignals(t *testing.T) {
	values := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100}
	keys := make([]string, len(values))
	for i := range keys {
		keys[i] = fmt.Sprintf("d%d", i)
	}

	result := CalculateXmR(values, keys)
	found := false
	for _, s := range result.Signals {
		if s.Type == SignalSpike && s.Index == 10 && s.Key == "d10" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected spike at d10. UNPL was %v", result.UNPL)
	}

	values = []float64{10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2}
	result = CalculateXmR(values, nil)
	shifts := 0
	for _, s := range result.Signals {
		if s.Type == SignalShift {
			shifts++
		}
	}
	if shifts != 2 {
		t.Errorf("Expected 2 shift signals, got %v", shifts)
	}
}

func dailyPoints(start int, xps ...int64) []TrendPoint {
	points := make([]TrendPoint, len(xps))
	for i, xp := range xps {
		points[i] = TrendPoint{Date: fmt.Sprintf("2024-01-%02d", start+i), XP: xp, Messages: 1}
	}
	return points
}

func TestAnalyzeTrendStability(t *testing.T) {
	stable := dailyPoints(1, 10, 12, 11, 13, 11)
	res, err := AnalyzeTrendStability(stable, MetricXP)
	if err != nil {
		t.Fatalf("AnalyzeTrendStability() unexpected error: %v", err)
	}
	if res.Status != TrendStable {
		t.Errorf("Expected stable, got %s", res.Status)
	}

	spiky := dailyPoints(1, 10, 11, 10, 11, 10, 60)
	res, _ = AnalyzeTrendStability(spiky, MetricXP)
	if res.Status != TrendVolatile {
		t.Errorf("Expected volatile, got %s", res.Status)
	}

	shifted := dailyPoints(1, 10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2)
	res, _ = AnalyzeTrendStability(shifted, MetricXP)
	if res.Status != TrendShifting {
		t.Errorf("Expected shifting, got %s", res.Status)
	}

	if _, err := AnalyzeTrendStability(stable, MetricBoss); err == nil {
		t.Errorf("Expected an error for boss trend")
	}
}

func TestGroupByWeek_SkipsPartialWeeks(t *testing.T) {
	// 2024-01-01 is a Monday; days 1..7 form 2024-W01, 8..10 are partial
	points := dailyPoints(1, 1, 2, 3, 4, 5, 6, 7, 100, 100, 100)

	weeks := GroupByWeek(points, MetricXP)

	if len(weeks) != 1 {
		t.Fatalf("Expected 1 complete week, got %d", len(weeks))
	}
	if weeks[0].Label != "2024-W01" || weeks[0].Average != 4 {
		t.Errorf("Unexpected week: %+v", weeks[0])
	}

	msgs := GroupByWeek(points, MetricMessages)
	if msgs[0].Average != 1 {
		t.Errorf("Expected message average 1, got %v", msgs[0].Average)
	}
}
