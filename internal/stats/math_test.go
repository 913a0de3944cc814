package stats

import (
	"math"
	"reflect"
	"testing"
)

func TestCalculateMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []int64
		expected float64
	}{
		{"Empty", []int64{}, 0},
		{"SingleItem", []int64{5}, 5},
		{"OddCount", []int64{1, 3, 2, 4, 5}, 3},
		{"EvenCount", []int64{1, 2, 3, 4}, 2.5},
		{"Unsorted", []int64{10, 2, 8, 4, 6}, 6},
		{"LargeEvenCount", []int64{math.MaxInt64, math.MaxInt64}, float64(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateMedian(tt.values); got != tt.expected {
				t.Errorf("CalculateMedian() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateMedian_DoesNotReorder(t *testing.T) {
	values := []float64{3.3, 1.1, 2.2}
	_ = CalculateMedian(values)
	if !reflect.DeepEqual(values, []float64{3.3, 1.1, 2.2}) {
		t.Errorf("CalculateMedian reordered its input: %v", values)
	}
}

func TestClampNonNegative(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{2.5, 2.5},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ClampNonNegative(tt.in); got != tt.want {
			t.Errorf("ClampNonNegative(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
