package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/project-drishti/drishti/triage"
	"github.com/project-drishti/drishti/triage/report"
)

var (
	// CLI flags for the run command
	configPath string // YAML config file; flags override its values
	seed       int64  // Seed for district generation and k-means restarts
	districts  int    // Number of districts to synthesize
	top        int    // Length of the Critical priority list
	format     string // Output format: text, json, csv
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "drishti",
	Short: "District operational stress triage",
}

// runCmd generates, scores and clusters a batch, then prints the report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the triage pipeline and print the report",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		logrus.Infof("Starting triage with seed=%d, districts=%d, k=%d, features=%v",
			cfg.Seed, cfg.Generator.Districts, cfg.Clustering.K, cfg.Clustering.Features)

		res, err := triage.Run(cfg)
		if err != nil {
			logrus.Fatalf("Triage failed: %v", err)
		}
		if err := writeReport(os.Stdout, res, cfg.Report.Top, format); err != nil {
			logrus.Fatalf("Failed to write report: %v", err)
		}
	},
}

// resolveConfig loads --config (or the defaults) and applies any flag the
// user set explicitly.
func resolveConfig(cmd *cobra.Command) (*triage.Config, error) {
	cfg := triage.DefaultConfig()
	if configPath != "" {
		loaded, err := triage.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("districts") {
		cfg.Generator.Districts = districts
	}
	if cmd.Flags().Changed("top") {
		cfg.Report.Top = top
	}
	return cfg, nil
}

// writeReport renders res to w in the requested format.
func writeReport(w io.Writer, res *triage.Result, top int, format string) error {
	switch format {
	case "text":
		return report.RenderText(w, res, top)
	case "json":
		return report.WriteJSON(w, res, top)
	case "csv":
		return report.WriteCSV(w, res.Batch)
	default:
		return fmt.Errorf("unknown format %q; valid: text, json, csv", format)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := triage.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config (see `drishti config`)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for district generation and clustering")
	runCmd.Flags().IntVar(&districts, "districts", defaults.Generator.Districts, "Number of districts to synthesize")
	runCmd.Flags().IntVar(&top, "top", defaults.Report.Top, "Number of Critical districts in the priority list")
	runCmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
