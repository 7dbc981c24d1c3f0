package triage

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyBatch is returned when a stage that needs the whole population
// receives no districts.
var ErrEmptyBatch = errors.New("batch has no districts")

// ClusterConfig selects the clustering features and k-means parameters.
type ClusterConfig struct {
	K        int       `yaml:"k"`
	Inits    int       `yaml:"inits"`
	MaxIter  int       `yaml:"max_iter"`
	Features []Feature `yaml:"features"`
}

// DefaultClusterConfig returns k=3 over usr_score, avg_rejection_rate and
// packet_upload_delay_hrs with 10 restarts and a 300-iteration cap.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		K:       3,
		Inits:   10,
		MaxIter: 300,
		Features: []Feature{
			FeatureUSRScore,
			FeatureAvgRejectionRate,
			FeaturePacketUploadDelayHrs,
		},
	}
}

// Cluster scales the configured features, runs k-means, and assigns a risk
// tier to every district of b. b must already be scored.
//
// When b holds fewer distinct feature vectors than cfg.K, k is lowered to that
// count so every cluster is populated; a batch of identical districts ends up
// in a single Stable group.
func Cluster(b Batch, cfg ClusterConfig, seed int64) (Batch, error) {
	if len(b) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := checkFinite(b, cfg.Features); err != nil {
		return nil, err
	}

	points := MinMaxScale(b, cfg.Features)

	k := cfg.K
	if distinct := countDistinct(points); distinct < k {
		logrus.Warnf("only %d distinct feature vectors across %d districts; reducing k from %d to %d",
			distinct, len(b), k, distinct)
		k = distinct
	}

	rng := NewPartitionedRNG(seed).ForSubsystem(SubsystemKMeans)
	res, err := KMeans(points, KMeansConfig{K: k, Inits: cfg.Inits, MaxIter: cfg.MaxIter}, rng)
	if err != nil {
		return nil, fmt.Errorf("k-means: %w", err)
	}
	logrus.Debugf("k-means k=%d: best init %d, inertia=%.6f", k, res.Init, res.Inertia)

	for i, d := range b {
		d.ClusterLabel = res.Labels[i]
	}
	if err := AssignRiskCategories(b); err != nil {
		return nil, err
	}
	return b, nil
}

// clusterStress is the mean USR of one raw cluster.
type clusterStress struct {
	label   int
	meanUSR float64
}

// AssignRiskCategories maps raw ClusterLabel values to ordered tiers using the
// mean USRScore of each label within b. The lowest-mean label is Stable; with
// two or more labels the highest is Critical; with three the middle one is
// Watchlist. Equal means are ordered by label.
func AssignRiskCategories(b Batch) error {
	if len(b) == 0 {
		return ErrEmptyBatch
	}

	groups := make(map[int][]float64)
	for _, d := range b {
		groups[d.ClusterLabel] = append(groups[d.ClusterLabel], d.USRScore)
	}
	if len(groups) > len(riskCategories) {
		return fmt.Errorf("%d clusters cannot map onto %d risk tiers", len(groups), len(riskCategories))
	}

	ranked := make([]clusterStress, 0, len(groups))
	for label, scores := range groups {
		ranked = append(ranked, clusterStress{label: label, meanUSR: stat.Mean(scores, nil)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].meanUSR != ranked[j].meanUSR {
			return ranked[i].meanUSR < ranked[j].meanUSR
		}
		return ranked[i].label < ranked[j].label
	})

	tiers := tiersFor(len(ranked))
	mapping := make(map[int]RiskCategory, len(ranked))
	for i, cs := range ranked {
		mapping[cs.label] = tiers[i]
		logrus.Debugf("cluster %d -> %s (mean usr %.4f)", cs.label, tiers[i], cs.meanUSR)
	}
	for _, d := range b {
		d.RiskCategory = mapping[d.ClusterLabel]
	}
	return nil
}

// tiersFor returns the tiers used for m ranked groups, lowest stress first.
func tiersFor(m int) []RiskCategory {
	switch m {
	case 1:
		return []RiskCategory{RiskStable}
	case 2:
		return []RiskCategory{RiskStable, RiskCritical}
	default:
		return RiskCategories()
	}
}

// countDistinct counts unique rows in points by exact bit pattern.
func countDistinct(points [][]float64) int {
	seen := make(map[string]struct{}, len(points))
	var sb strings.Builder
	for _, p := range points {
		sb.Reset()
		for _, v := range p {
			sb.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			sb.WriteByte(',')
		}
		seen[sb.String()] = struct{}{}
	}
	return len(seen)
}
