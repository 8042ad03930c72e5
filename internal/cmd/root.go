// Package cmd wires the costplan CLI. Commands load a project file, run the
// engine, and render the result; all analysis lives in the engine and its
// packages, never here.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/costplan/costplan/internal/config"
	"github.com/costplan/costplan/internal/engine"
	"github.com/costplan/costplan/internal/logging"
	"github.com/costplan/costplan/internal/report"
)

var rootCmd = &cobra.Command{
	Use:   "costplan",
	Short: "Project cost and schedule risk estimation",
	Long: `Costplan estimates the cost and duration of a project from its task
breakdown. It validates the dependency graph, computes the critical path and
a risk-adjusted cost, and quantifies uncertainty with a reproducible Monte
Carlo simulation.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/costplan/config.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable styled output")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/costplan")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("COSTPLAN")
	// Replace dots with underscores for nested keys in env vars
	// e.g., COSTPLAN_SIMULATION_ITERATIONS for simulation.iterations
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newEngine builds the engine and renderer from the loaded configuration.
func newEngine() (*engine.Engine, *report.Renderer, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	color := cfg.Output.Color && !viper.GetBool("no_color")
	return engine.New(cfg, logger), report.NewRenderer(color), cfg, nil
}
