// Package report builds the views the presentation layer shows for one
// triage run: headline counters, the Critical priority list, and the
// rejection-rate vs USR scatter series.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/project-drishti/drishti/triage"
)

// Summary holds the dashboard headline counters.
type Summary struct {
	TotalDistricts int     `json:"total_districts"`
	Critical       int     `json:"critical"`
	Watchlist      int     `json:"watchlist"`
	Stable         int     `json:"stable"`
	MeanUSR        float64 `json:"mean_usr"` // rounded to 2 decimals
}

// Summarize computes the headline counters for b.
// Safe for an empty batch (returns zero-value fields).
func Summarize(b triage.Batch) *Summary {
	s := &Summary{TotalDistricts: len(b)}
	if len(b) == 0 {
		return s
	}
	counts := b.CountByCategory()
	s.Critical = counts[triage.RiskCritical]
	s.Watchlist = counts[triage.RiskWatchlist]
	s.Stable = counts[triage.RiskStable]
	s.MeanUSR = math.Round(stat.Mean(b.Column(triage.FeatureUSRScore), nil)*100) / 100
	return s
}

// PriorityList returns up to n Critical districts, highest USR first.
// Equal scores are ordered by district id.
func PriorityList(b triage.Batch, n int) []*triage.District {
	var critical []*triage.District
	for _, d := range b {
		if d.RiskCategory == triage.RiskCritical {
			critical = append(critical, d)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		if critical[i].USRScore != critical[j].USRScore {
			return critical[i].USRScore > critical[j].USRScore
		}
		return critical[i].DistrictID < critical[j].DistrictID
	})
	if n >= 0 && len(critical) > n {
		critical = critical[:n]
	}
	return critical
}

// ScatterPoint is one bubble of the risk scatter plot: rejection rate on x,
// USR on y, sized by request volume and colored by tier.
type ScatterPoint struct {
	DistrictID           string              `json:"district_id"`
	X                    float64             `json:"avg_rejection_rate"`
	Y                    float64             `json:"usr_score"`
	Size                 int                 `json:"total_update_requests"`
	RiskCategory         triage.RiskCategory `json:"risk_category"`
	PacketUploadDelayHrs float64             `json:"packet_upload_delay_hrs"`
}

// Scatter returns one point per district in batch order.
func Scatter(b triage.Batch) []ScatterPoint {
	points := make([]ScatterPoint, len(b))
	for i, d := range b {
		points[i] = ScatterPoint{
			DistrictID:           d.DistrictID,
			X:                    d.AvgRejectionRate,
			Y:                    d.USRScore,
			Size:                 d.TotalUpdateRequests,
			RiskCategory:         d.RiskCategory,
			PacketUploadDelayHrs: d.PacketUploadDelayHrs,
		}
	}
	return points
}

// TierColors maps each tier to its display color.
var TierColors = map[triage.RiskCategory]string{
	triage.RiskStable:    "#00CC96",
	triage.RiskWatchlist: "#FFA15A",
	triage.RiskCritical:  "#EF553B",
}
