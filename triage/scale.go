package triage

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MinMaxScale maps each feature column of b into [0, 1] using the batch's own
// min and max, and returns one row per district in batch order.
// A constant column maps to 0 for every district.
func MinMaxScale(b Batch, features []Feature) [][]float64 {
	points := make([][]float64, len(b))
	for i := range points {
		points[i] = make([]float64, len(features))
	}
	if len(b) == 0 {
		return points
	}

	for j, f := range features {
		col := b.Column(f)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		for i, v := range col {
			if span == 0 {
				points[i][j] = 0
				continue
			}
			points[i][j] = (v - lo) / span
		}
	}
	return points
}

// checkFinite rejects any NaN or infinite feature value, naming the district.
func checkFinite(b Batch, features []Feature) error {
	for _, d := range b {
		for _, f := range features {
			v := f.Value(d)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("district %s: feature %s must be a finite number, got %f", d.DistrictID, f, v)
			}
		}
	}
	return nil
}
