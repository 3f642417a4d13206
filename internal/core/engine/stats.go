package engine

import (
	"math"
	"sort"
)

// Percentile interpolates linearly between the order statistics that bracket
// index (n-1)*p of an ascending slice. p is clamped to [0,1]; an empty slice
// yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))

	idx := float64(n-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// positiveDurations returns the positive durations ascending, and their sum.
func positiveDurations(durations []int) ([]float64, int) {
	out := make([]float64, 0, len(durations))
	sum := 0
	for _, d := range durations {
		if d > 0 {
			out = append(out, float64(d))
			sum += d
		}
	}
	sort.Float64s(out)
	return out, sum
}
