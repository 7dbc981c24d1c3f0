package triage_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-drishti/drishti/triage"
	"github.com/project-drishti/drishti/triage/internal/testutil"
)

func TestCluster_ThreeSeparatedDistricts_OnePerTier(t *testing.T) {
	// GIVEN three districts with USR near 1.1, 5.0 and 49.6
	batch := testutil.SeparatedBatch()

	// WHEN clustered with k=3
	out, err := triage.Cluster(batch, triage.DefaultClusterConfig(), 42)
	require.NoError(t, err)

	// THEN each district MUST get its own tier in ascending stress order
	assert.Equal(t, triage.RiskStable, out[0].RiskCategory)
	assert.Equal(t, triage.RiskWatchlist, out[1].RiskCategory)
	assert.Equal(t, triage.RiskCritical, out[2].RiskCategory)
	labels := map[int]bool{out[0].ClusterLabel: true, out[1].ClusterLabel: true, out[2].ClusterLabel: true}
	assert.Len(t, labels, 3, "each district must sit in its own cluster")
}

func TestCluster_IdenticalDistricts_NoDivisionByZero(t *testing.T) {
	// GIVEN 25 districts with identical features
	batch := testutil.UniformBatch(25)

	// WHEN clustered
	out, err := triage.Cluster(batch, triage.DefaultClusterConfig(), 42)

	// THEN clustering MUST succeed with every district in one Stable group
	require.NoError(t, err)
	for _, d := range out {
		assert.Equal(t, triage.RiskStable, d.RiskCategory, d.DistrictID)
		assert.False(t, math.IsNaN(d.USRScore))
	}
}

func TestCluster_TwoDistinctVectors_StableAndCritical(t *testing.T) {
	batch := triage.Score(triage.Batch{
		testutil.District("District_001", 1000, 900, 0.02, 3),
		testutil.District("District_002", 1000, 900, 0.02, 3),
		testutil.District("District_003", 1000, 100, 0.30, 60),
	})

	out, err := triage.Cluster(batch, triage.DefaultClusterConfig(), 42)
	require.NoError(t, err)

	assert.Equal(t, triage.RiskStable, out[0].RiskCategory)
	assert.Equal(t, triage.RiskStable, out[1].RiskCategory)
	assert.Equal(t, triage.RiskCritical, out[2].RiskCategory)
}

func TestCluster_SingleDistrict_Stable(t *testing.T) {
	batch := triage.Score(triage.Batch{testutil.District("District_001", 5000, 2500, 0.1, 12)})
	out, err := triage.Cluster(batch, triage.DefaultClusterConfig(), 42)
	require.NoError(t, err)
	assert.Equal(t, triage.RiskStable, out[0].RiskCategory)
}

func TestCluster_EmptyBatch_ReturnsErrEmptyBatch(t *testing.T) {
	_, err := triage.Cluster(triage.Batch{}, triage.DefaultClusterConfig(), 42)
	assert.True(t, errors.Is(err, triage.ErrEmptyBatch), "got %v", err)
}

func TestCluster_NonFiniteScore_ReturnsError(t *testing.T) {
	// GIVEN a district with zero successes, which scores +Inf
	batch := testutil.SeparatedBatch()
	batch = append(batch, triage.Score(triage.Batch{testutil.District("District_zero", 1000, 0, 0.1, 5)})...)

	_, err := triage.Cluster(batch, triage.DefaultClusterConfig(), 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "District_zero")
}

func TestCluster_GeneratedBatches_PartitionAndOrdering(t *testing.T) {
	for _, seed := range []int64{1, 42, 1234, -9} {
		cfg := triage.DefaultGeneratorConfig()
		cfg.Districts = 300
		batch := triage.Score(triage.Generate(cfg, seed))

		out, err := triage.Cluster(batch, triage.DefaultClusterConfig(), seed)
		require.NoError(t, err)

		// every district in exactly one tier; tiers partition the batch
		testutil.AssertTiered(t, out)
		counts := out.CountByCategory()
		assert.Equal(t, len(out), counts[triage.RiskStable]+counts[triage.RiskWatchlist]+counts[triage.RiskCritical])
		for _, c := range triage.RiskCategories() {
			assert.Positive(t, counts[c], "seed %d: tier %s is empty", seed, c)
		}
		testutil.AssertTierOrdering(t, out)
	}
}

func TestAssignRiskCategories_IndependentOfRawLabelNumbering(t *testing.T) {
	// GIVEN the same three groups under two different raw numberings
	build := func(labels [3]int) triage.Batch {
		b := testutil.SeparatedBatch()
		for i, d := range b {
			d.ClusterLabel = labels[i]
		}
		return b
	}
	numberings := [][3]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}, {2, 1, 0}}

	for _, n := range numberings {
		b := build(n)
		require.NoError(t, triage.AssignRiskCategories(b))

		// THEN tiers MUST follow stress, not the raw label
		assert.Equal(t, triage.RiskStable, b[0].RiskCategory, "numbering %v", n)
		assert.Equal(t, triage.RiskWatchlist, b[1].RiskCategory, "numbering %v", n)
		assert.Equal(t, triage.RiskCritical, b[2].RiskCategory, "numbering %v", n)
	}
}

func TestAssignRiskCategories_UsesGroupMeans(t *testing.T) {
	// GIVEN a group whose max is high but whose mean is middling
	b := triage.Batch{
		{DistrictID: "a", USRScore: 1.0, ClusterLabel: 0},
		{DistrictID: "b", USRScore: 1.2, ClusterLabel: 0},
		{DistrictID: "c", USRScore: 1.1, ClusterLabel: 1},
		{DistrictID: "d", USRScore: 9.0, ClusterLabel: 1}, // group 1 mean 5.05
		{DistrictID: "e", USRScore: 6.0, ClusterLabel: 2},
		{DistrictID: "f", USRScore: 6.5, ClusterLabel: 2}, // group 2 mean 6.25
	}

	require.NoError(t, triage.AssignRiskCategories(b))

	want := []triage.RiskCategory{
		triage.RiskStable, triage.RiskStable,
		triage.RiskWatchlist, triage.RiskWatchlist,
		triage.RiskCritical, triage.RiskCritical,
	}
	for i, d := range b {
		assert.Equal(t, want[i], d.RiskCategory, d.DistrictID)
	}
}

func TestAssignRiskCategories_RelativeToBatch(t *testing.T) {
	// GIVEN the same USR value in two different populations
	lowPop := triage.Batch{
		{DistrictID: "x", USRScore: 3.0, ClusterLabel: 0},
		{DistrictID: "y", USRScore: 1.0, ClusterLabel: 1},
		{DistrictID: "z", USRScore: 2.0, ClusterLabel: 2},
	}
	highPop := triage.Batch{
		{DistrictID: "x", USRScore: 3.0, ClusterLabel: 0},
		{DistrictID: "y", USRScore: 10.0, ClusterLabel: 1},
		{DistrictID: "z", USRScore: 20.0, ClusterLabel: 2},
	}

	require.NoError(t, triage.AssignRiskCategories(lowPop))
	require.NoError(t, triage.AssignRiskCategories(highPop))

	// THEN the tier MUST depend on the rest of the batch
	assert.Equal(t, triage.RiskCritical, lowPop[0].RiskCategory)
	assert.Equal(t, triage.RiskStable, highPop[0].RiskCategory)
}

func TestAssignRiskCategories_TooManyClusters(t *testing.T) {
	b := triage.Batch{
		{ClusterLabel: 0}, {ClusterLabel: 1}, {ClusterLabel: 2}, {ClusterLabel: 3},
	}
	assert.Error(t, triage.AssignRiskCategories(b))
}

func TestRiskCategory_Rank(t *testing.T) {
	assert.Equal(t, 0, triage.RiskStable.Rank())
	assert.Equal(t, 1, triage.RiskWatchlist.Rank())
	assert.Equal(t, 2, triage.RiskCritical.Rank())
	assert.Equal(t, -1, triage.RiskCategory("Unknown").Rank())
	assert.False(t, triage.RiskCategory("").Valid())
}
