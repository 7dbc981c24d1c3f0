package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/project-drishti/drishti/triage"
)

// Report bundles every view of one run for machine-readable output.
type Report struct {
	RunID     string             `json:"run_id"`
	Seed      int64              `json:"seed"`
	Summary   *Summary           `json:"summary"`
	Priority  []*triage.District `json:"priority"`
	Scatter   []ScatterPoint     `json:"scatter"`
	ElapsedMs float64            `json:"elapsed_ms"`
}

// Build assembles the report for res with a priority list of up to top districts.
func Build(res *triage.Result, top int) *Report {
	return &Report{
		RunID:     res.RunID,
		Seed:      res.Seed,
		Summary:   Summarize(res.Batch),
		Priority:  PriorityList(res.Batch, top),
		Scatter:   Scatter(res.Batch),
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000,
	}
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, res *triage.Result, top int) error {
	data, err := json.MarshalIndent(Build(res, top), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// === Text rendering ===

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#003366")).
			Bold(true).
			MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7A89"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7A89"))
)

func tierStyle(c triage.RiskCategory) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(TierColors[c])).Bold(true)
}

// RenderText writes the counters and the Critical priority list as styled
// terminal text.
func RenderText(w io.Writer, res *triage.Result, top int) error {
	var sb strings.Builder
	s := Summarize(res.Batch)

	sb.WriteString(titleStyle.Render("Drishti Service Triage"))
	sb.WriteString("\n")
	kpis := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Total Districts Monitored", fmt.Sprint(s.TotalDistricts), valueStyle},
		{"Critical Zones", fmt.Sprint(s.Critical), tierStyle(triage.RiskCritical)},
		{"Watchlist Zones", fmt.Sprint(s.Watchlist), tierStyle(triage.RiskWatchlist)},
		{"Avg. Update Stress Ratio", fmt.Sprintf("%.2f", s.MeanUSR), valueStyle},
	}
	for _, k := range kpis {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-26s", k.label)))
		sb.WriteString(k.style.Render(k.value))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	priority := PriorityList(res.Batch, top)
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Priority Action List (top %d)", len(priority))))
	sb.WriteString("\n")
	if len(priority) == 0 {
		sb.WriteString(labelStyle.Render("no critical districts"))
		sb.WriteString("\n")
	} else {
		rows := make([][]string, len(priority))
		for i, d := range priority {
			rows[i] = []string{
				d.DistrictID,
				fmt.Sprintf("%.2f", d.USRScore),
				fmt.Sprintf("%.2f", d.AvgRejectionRate*100),
			}
		}
		sb.WriteString(renderTable([]string{"District", "Stress Level", "Rejection %"}, rows))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// renderTable lays out a header and rows in padded, pipe-separated columns.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2 // padding
		total += widths[i]
	}

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(cells)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers, headerStyle)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row, cellStyle)
	}
	return sb.String()
}
