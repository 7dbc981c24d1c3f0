package triage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Formula(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		successful int
		rejection  float64
		wantRatio  float64
		wantUSR    float64
	}{
		{"perfect success no rejection", 1000, 1000, 0, 1, 1},
		{"half success", 1000, 500, 0.2, 0.5, 2.4},
		{"quarter success", 4000, 1000, 0.1, 0.25, 4.4},
		{"zero total divides by one", 0, 3, 0.5, 3, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &District{TotalUpdateRequests: tt.total, SuccessfulUpdates: tt.successful, AvgRejectionRate: tt.rejection}
			Score(Batch{d})
			assert.InDelta(t, tt.wantRatio, d.SuccessRatio, 1e-12)
			assert.InDelta(t, tt.wantUSR, d.USRScore, 1e-12)
		})
	}
}

func TestScore_GeneratedBatch_USRAtLeastOne(t *testing.T) {
	batch := Score(Generate(DefaultGeneratorConfig(), 42))
	for _, d := range batch {
		assert.Greater(t, d.SuccessRatio, 0.0, d.DistrictID)
		assert.LessOrEqual(t, d.SuccessRatio, 1.0, d.DistrictID)
		assert.GreaterOrEqual(t, d.USRScore, 1.0, d.DistrictID)
	}
}

func TestScore_StrictlyDecreasingInSuccessRatio(t *testing.T) {
	// GIVEN districts with a fixed rejection rate and rising success counts
	var batch Batch
	for s := 100; s <= 1000; s += 100 {
		batch = append(batch, &District{TotalUpdateRequests: 1000, SuccessfulUpdates: s, AvgRejectionRate: 0.2})
	}

	Score(batch)

	// THEN USR MUST strictly fall as the success ratio rises
	for i := 1; i < len(batch); i++ {
		require.Greater(t, batch[i].SuccessRatio, batch[i-1].SuccessRatio)
		assert.Less(t, batch[i].USRScore, batch[i-1].USRScore)
	}
}

func TestScore_IncreasingInRejectionRate(t *testing.T) {
	low := &District{TotalUpdateRequests: 1000, SuccessfulUpdates: 600, AvgRejectionRate: 0.05}
	high := &District{TotalUpdateRequests: 1000, SuccessfulUpdates: 600, AvgRejectionRate: 0.30}
	Score(Batch{low, high})
	assert.Less(t, low.USRScore, high.USRScore)
}

func TestScore_ZeroSuccesses_YieldsInfinity(t *testing.T) {
	d := &District{DistrictID: "District_001", TotalUpdateRequests: 1000, SuccessfulUpdates: 0, AvgRejectionRate: 0.1}
	Score(Batch{d})
	assert.Equal(t, 0.0, d.SuccessRatio)
	assert.True(t, math.IsInf(d.USRScore, 1), "usr = %v, want +Inf", d.USRScore)
}

func TestScore_EmptyBatch(t *testing.T) {
	assert.Empty(t, Score(Batch{}))
}
