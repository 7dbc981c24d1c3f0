package report

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"

	"github.com/project-drishti/drishti/triage"
)

// frameRow is the tabular layout of one district; column names follow the
// dashboard's table headers.
type frameRow struct {
	DistrictID           string  `dataframe:"District_ID"`
	TotalUpdateRequests  int     `dataframe:"Total_Update_Requests"`
	SuccessfulUpdates    int     `dataframe:"Successful_Updates"`
	AvgRejectionRate     float64 `dataframe:"Avg_Rejection_Rate"`
	PacketUploadDelayHrs float64 `dataframe:"Packet_Upload_Delay_Hrs"`
	SuccessRatio         float64 `dataframe:"Success_Ratio"`
	USRScore             float64 `dataframe:"USR_Score"`
	ClusterLabel         int     `dataframe:"Cluster_Label"`
	RiskCategory         string  `dataframe:"Risk_Category"`
}

// Columns lists the frame's column names in order.
var Columns = []string{
	"District_ID", "Total_Update_Requests", "Successful_Updates",
	"Avg_Rejection_Rate", "Packet_Upload_Delay_Hrs", "Success_Ratio",
	"USR_Score", "Cluster_Label", "Risk_Category",
}

// Frame converts b into a data frame with one row per district in batch order.
func Frame(b triage.Batch) (dataframe.DataFrame, error) {
	if len(b) == 0 {
		return dataframe.DataFrame{}, triage.ErrEmptyBatch
	}
	rows := make([]frameRow, len(b))
	for i, d := range b {
		rows[i] = frameRow{
			DistrictID:           d.DistrictID,
			TotalUpdateRequests:  d.TotalUpdateRequests,
			SuccessfulUpdates:    d.SuccessfulUpdates,
			AvgRejectionRate:     d.AvgRejectionRate,
			PacketUploadDelayHrs: d.PacketUploadDelayHrs,
			SuccessRatio:         d.SuccessRatio,
			USRScore:             d.USRScore,
			ClusterLabel:         d.ClusterLabel,
			RiskCategory:         string(d.RiskCategory),
		}
	}
	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return df, fmt.Errorf("building data frame: %w", df.Err)
	}
	return df, nil
}

// WriteCSV writes the full batch as CSV with a header row.
func WriteCSV(w io.Writer, b triage.Batch) error {
	df, err := Frame(b)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
