package triage

// Score fills SuccessRatio and USRScore for every district in b.
//
//	success_ratio = successful / max(total, 1)   (a zero total divides by 1)
//	usr_score     = (1 / success_ratio) * (1 + avg_rejection_rate)
//
// Inputs are not validated. Negative counts or rates outside [0, 1) produce
// whatever the formula gives; a zero success ratio yields +Inf, which Cluster
// rejects.
func Score(b Batch) Batch {
	for _, d := range b {
		denom := d.TotalUpdateRequests
		if denom == 0 {
			denom = 1
		}
		d.SuccessRatio = float64(d.SuccessfulUpdates) / float64(denom)
		d.USRScore = (1 / d.SuccessRatio) * (1 + d.AvgRejectionRate)
	}
	return b
}
