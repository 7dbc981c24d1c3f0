// Package testutil provides shared batch fixtures and assertions for the
// triage and report test packages.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/project-drishti/drishti/triage"
)

// District builds an unscored district record.
func District(id string, total, successful int, rejection, delayHrs float64) *triage.District {
	return &triage.District{
		DistrictID:           id,
		TotalUpdateRequests:  total,
		SuccessfulUpdates:    successful,
		AvgRejectionRate:     rejection,
		PacketUploadDelayHrs: delayHrs,
	}
}

// SeparatedBatch returns three scored districts whose USR scores are roughly
// 1.1, 5.0 and 49.6, with rejection rate and delay rising alongside.
// Order: low, mid, high.
func SeparatedBatch() triage.Batch {
	return triage.Score(triage.Batch{
		District("District_low", 1000, 918, 0.01, 2),
		District("District_mid", 1000, 230, 0.15, 30),
		District("District_high", 1000, 27, 0.34, 70),
	})
}

// UniformBatch returns n scored districts with identical metrics.
func UniformBatch(n int) triage.Batch {
	b := make(triage.Batch, n)
	for i := range b {
		b[i] = District(fmt.Sprintf("District_%03d", i+1), 20000, 15000, 0.1, 24)
	}
	return triage.Score(b)
}

// MeanUSRByCategory returns the mean USR of each tier present in b.
func MeanUSRByCategory(b triage.Batch) map[triage.RiskCategory]float64 {
	sums := make(map[triage.RiskCategory]float64)
	counts := make(map[triage.RiskCategory]int)
	for _, d := range b {
		sums[d.RiskCategory] += d.USRScore
		counts[d.RiskCategory]++
	}
	means := make(map[triage.RiskCategory]float64, len(sums))
	for c, s := range sums {
		means[c] = s / float64(counts[c])
	}
	return means
}

// AssertTiered fails t unless every district carries one of the known tiers.
func AssertTiered(t *testing.T, b triage.Batch) {
	t.Helper()
	for _, d := range b {
		if !d.RiskCategory.Valid() {
			t.Errorf("district %s: risk category %q is not a known tier", d.DistrictID, d.RiskCategory)
		}
	}
}

// AssertTierOrdering fails t unless mean USR is non-decreasing from Stable
// through Watchlist to Critical, skipping tiers absent from b.
func AssertTierOrdering(t *testing.T, b triage.Batch) {
	t.Helper()
	means := MeanUSRByCategory(b)
	prev, prevName := math.Inf(-1), ""
	for _, c := range triage.RiskCategories() {
		m, ok := means[c]
		if !ok {
			continue
		}
		if m < prev {
			t.Errorf("mean usr of %s (%.4f) is below %s (%.4f)", c, m, prevName, prev)
		}
		prev, prevName = m, string(c)
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
