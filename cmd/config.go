package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/project-drishti/drishti/triage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default pipeline config as YAML",
	Long:  "Print the default pipeline config as YAML. Output is written to stdout; edit it and pass it back with `drishti run --config`.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := triage.DefaultConfig().WriteYAML(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
