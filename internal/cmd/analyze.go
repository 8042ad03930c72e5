package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project-file>",
	Short: "Compute cost and schedule for a project",
	Long: `Analyze computes the deterministic results for a project: the per-task
cost breakdown, the risk-adjusted total, the critical path, and the timeline
scenarios. When the team is smaller than the peak concurrent demand, the
resource-constrained schedule is included.

Examples:
  # Analyze a project
  costplan analyze project.yaml

  # Machine-readable output
  costplan analyze project.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeJSON bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	eng, renderer, _, err := newEngine()
	if err != nil {
		return err
	}

	p, err := loadProject(args[0])
	if err != nil {
		return err
	}

	analysis, err := eng.Analyze(p)
	if err != nil {
		return err
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderer.Analysis(p, analysis))
	return nil
}
