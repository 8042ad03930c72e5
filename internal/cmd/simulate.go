package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/costplan/costplan/internal/montecarlo"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <project-file>",
	Short: "Run a Monte Carlo risk simulation",
	Long: `Simulate samples the project's cost and duration distributions by
perturbing task estimates according to the risk level. Runs with the same
seed produce identical results regardless of worker count.

Examples:
  # Simulate with configured defaults
  costplan simulate project.yaml

  # A reproducible 10000-iteration run
  costplan simulate project.yaml --iterations 10000 --seed 42

  # Re-run the resource-constrained scheduler per iteration
  costplan simulate project.yaml --constrained`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

var (
	simulateIterations  int
	simulateSeed        uint64
	simulateWorkers     int
	simulateConstrained bool
	simulateJSON        bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVarP(&simulateIterations, "iterations", "n", 0, "Number of iterations (default from config)")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 0, "Random seed (default from config)")
	simulateCmd.Flags().IntVar(&simulateWorkers, "workers", 0, "Concurrent workers (0 = one per CPU)")
	simulateCmd.Flags().BoolVar(&simulateConstrained, "constrained", false, "Use the resource-constrained scheduler")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "Output as JSON")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	eng, renderer, cfg, err := newEngine()
	if err != nil {
		return err
	}

	p, err := loadProject(args[0])
	if err != nil {
		return err
	}

	// Interrupt stops dispatching and reports the completed iterations.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := montecarlo.Options{
		Iterations:  simulateIterations,
		Seed:        simulateSeed,
		Workers:     simulateWorkers,
		Constrained: simulateConstrained || cfg.Simulation.Constrained,
	}

	result, err := eng.SimulateRisk(ctx, p, opts)
	if err != nil {
		return err
	}

	if simulateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderer.Simulation(p, result))
	return nil
}
