package triage

import (
	"fmt"
	"sort"
)

// District is one row of the triage batch.
// Raw columns are filled by Generate; derived columns by Score and Cluster.
type District struct {
	DistrictID           string  `json:"district_id"`
	TotalUpdateRequests  int     `json:"total_update_requests"`
	SuccessfulUpdates    int     `json:"successful_updates"` // <= TotalUpdateRequests when generated
	AvgRejectionRate     float64 `json:"avg_rejection_rate"`
	PacketUploadDelayHrs float64 `json:"packet_upload_delay_hrs"`

	SuccessRatio float64      `json:"success_ratio"`
	USRScore     float64      `json:"usr_score"`
	ClusterLabel int          `json:"cluster_label"` // raw k-means index, no ordering
	RiskCategory RiskCategory `json:"risk_category"`
}

// Batch is the full population processed together by the pipeline.
type Batch []*District

// === Risk tiers ===

// RiskCategory is an ordered risk tier.
type RiskCategory string

const (
	RiskStable    RiskCategory = "Stable"
	RiskWatchlist RiskCategory = "Watchlist"
	RiskCritical  RiskCategory = "Critical"
)

var riskCategories = []RiskCategory{RiskStable, RiskWatchlist, RiskCritical}

// RiskCategories returns the tiers in ascending stress order.
func RiskCategories() []RiskCategory {
	return append([]RiskCategory(nil), riskCategories...)
}

// Rank returns the tier's position in ascending stress order, or -1 if unknown.
func (c RiskCategory) Rank() int {
	for i, rc := range riskCategories {
		if rc == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the three known tiers.
func (c RiskCategory) Valid() bool {
	return c.Rank() >= 0
}

// === Features ===

// Feature names a numeric District column that can feed clustering.
type Feature string

const (
	FeatureUSRScore             Feature = "usr_score"
	FeatureAvgRejectionRate     Feature = "avg_rejection_rate"
	FeaturePacketUploadDelayHrs Feature = "packet_upload_delay_hrs"
	FeatureSuccessRatio         Feature = "success_ratio"
	FeatureTotalUpdateRequests  Feature = "total_update_requests"
	FeatureSuccessfulUpdates    Feature = "successful_updates"
)

var featureAccessors = map[Feature]func(d *District) float64{
	FeatureUSRScore:             func(d *District) float64 { return d.USRScore },
	FeatureAvgRejectionRate:     func(d *District) float64 { return d.AvgRejectionRate },
	FeaturePacketUploadDelayHrs: func(d *District) float64 { return d.PacketUploadDelayHrs },
	FeatureSuccessRatio:         func(d *District) float64 { return d.SuccessRatio },
	FeatureTotalUpdateRequests:  func(d *District) float64 { return float64(d.TotalUpdateRequests) },
	FeatureSuccessfulUpdates:    func(d *District) float64 { return float64(d.SuccessfulUpdates) },
}

// IsValidFeature reports whether name is a known feature column.
func IsValidFeature(name Feature) bool {
	_, ok := featureAccessors[name]
	return ok
}

// ValidFeatureNames returns the known feature names, sorted.
func ValidFeatureNames() []string {
	names := make([]string, 0, len(featureAccessors))
	for f := range featureAccessors {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Value reads the feature column from d. Panics on an unknown feature;
// callers validate feature lists up front.
func (f Feature) Value(d *District) float64 {
	get, ok := featureAccessors[f]
	if !ok {
		panic(fmt.Sprintf("unknown feature %q", f))
	}
	return get(d)
}

// Column reads one feature for every district in b, in batch order.
func (b Batch) Column(f Feature) []float64 {
	col := make([]float64, len(b))
	for i, d := range b {
		col[i] = f.Value(d)
	}
	return col
}

// CountByCategory returns how many districts carry each tier.
func (b Batch) CountByCategory() map[RiskCategory]int {
	counts := make(map[RiskCategory]int, len(riskCategories))
	for _, d := range b {
		counts[d.RiskCategory]++
	}
	return counts
}

// Categories returns the district_id -> risk_category mapping.
func (b Batch) Categories() map[string]RiskCategory {
	out := make(map[string]RiskCategory, len(b))
	for _, d := range b {
		out[d.DistrictID] = d.RiskCategory
	}
	return out
}
