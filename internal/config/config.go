package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/costplan/costplan/internal/costing"
	"github.com/costplan/costplan/internal/montecarlo"
	"github.com/costplan/costplan/internal/project"
)

// Config represents the complete costplan configuration
type Config struct {
	Risk       RiskConfig       `mapstructure:"risk"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// RiskConfig controls deterministic risk adjustment
type RiskConfig struct {
	// Factors maps risk levels ("low", "medium", "high") to the cost
	// multiplier applied on top of the base estimate.
	Factors map[string]float64 `mapstructure:"factors"`
}

// SimulationConfig controls Monte Carlo defaults
type SimulationConfig struct {
	// Iterations is the default sample count per run
	Iterations int `mapstructure:"iterations"`
	// MaxIterations caps the per-run sample count (default: 100000)
	MaxIterations int `mapstructure:"max_iterations"`
	// Seed is the default random seed; runs with the same seed and project
	// produce identical results
	Seed uint64 `mapstructure:"seed"`
	// Workers is the number of concurrent simulation workers (0 = NumCPU)
	Workers int `mapstructure:"workers"`
	// Constrained re-runs the resource-constrained scheduler per iteration
	Constrained bool `mapstructure:"constrained"`
	// Perturbations maps risk levels to their sampling parameters
	Perturbations map[string]PerturbationConfig `mapstructure:"perturbations"`
}

// PerturbationConfig mirrors montecarlo.Perturbation for file loading
type PerturbationConfig struct {
	// DurationSpread is the relative variation applied to task durations
	DurationSpread float64 `mapstructure:"duration_spread"`
	// CostSpread is the relative variation applied to task costs
	CostSpread float64 `mapstructure:"cost_spread"`
	// GlobalBase is the center of the run-wide risk factor (>= 1)
	GlobalBase float64 `mapstructure:"global_base"`
	// GlobalSigma is the standard deviation of the run-wide risk factor
	GlobalSigma float64 `mapstructure:"global_sigma"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	// Format is the default output format: "text" or "json" (default: "text")
	Format string `mapstructure:"format"`
	// Color enables styled terminal output (default: true)
	Color bool `mapstructure:"color"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for log files; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	riskFactors := costing.DefaultRiskFactors()
	perturbations := montecarlo.DefaultPerturbations()

	factors := make(map[string]float64, len(riskFactors))
	for level, factor := range riskFactors {
		factors[string(level)] = factor
	}
	perts := make(map[string]PerturbationConfig, len(perturbations))
	for level, p := range perturbations {
		perts[string(level)] = PerturbationConfig{
			DurationSpread: p.DurationSpread,
			CostSpread:     p.CostSpread,
			GlobalBase:     p.GlobalBase,
			GlobalSigma:    p.GlobalSigma,
		}
	}

	return &Config{
		Risk: RiskConfig{
			Factors: factors,
		},
		Simulation: SimulationConfig{
			Iterations:    1000,
			MaxIterations: montecarlo.DefaultMaxIterations,
			Seed:          montecarlo.DefaultSeed,
			Workers:       0, // 0 means one worker per CPU
			Constrained:   false,
			Perturbations: perts,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "", // Empty means log to stderr
		},
	}
}

// RiskFactors converts the configured factors into the costing table
func (c *RiskConfig) RiskFactors() costing.RiskFactors {
	factors := make(costing.RiskFactors, len(c.Factors))
	for level, factor := range c.Factors {
		factors[project.RiskLevel(level)] = factor
	}
	return factors
}

// PerturbationTable converts the configured perturbations into the
// simulation table
func (c *SimulationConfig) PerturbationTable() montecarlo.PerturbationTable {
	table := make(montecarlo.PerturbationTable, len(c.Perturbations))
	for level, p := range c.Perturbations {
		table[project.RiskLevel(level)] = montecarlo.Perturbation{
			DurationSpread: p.DurationSpread,
			CostSpread:     p.CostSpread,
			GlobalBase:     p.GlobalBase,
			GlobalSigma:    p.GlobalSigma,
		}
	}
	return table
}

// Options builds the default simulation options from the configuration
func (c *SimulationConfig) Options() montecarlo.Options {
	return montecarlo.Options{
		Iterations:    c.Iterations,
		MaxIterations: c.MaxIterations,
		Seed:          c.Seed,
		Workers:       c.Workers,
		Constrained:   c.Constrained,
		Perturbations: c.PerturbationTable(),
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Risk defaults
	viper.SetDefault("risk.factors", defaults.Risk.Factors)

	// Simulation defaults
	viper.SetDefault("simulation.iterations", defaults.Simulation.Iterations)
	viper.SetDefault("simulation.max_iterations", defaults.Simulation.MaxIterations)
	viper.SetDefault("simulation.seed", defaults.Simulation.Seed)
	viper.SetDefault("simulation.workers", defaults.Simulation.Workers)
	viper.SetDefault("simulation.constrained", defaults.Simulation.Constrained)
	for level, p := range defaults.Simulation.Perturbations {
		viper.SetDefault("simulation.perturbations."+level+".duration_spread", p.DurationSpread)
		viper.SetDefault("simulation.perturbations."+level+".cost_spread", p.CostSpread)
		viper.SetDefault("simulation.perturbations."+level+".global_base", p.GlobalBase)
		viper.SetDefault("simulation.perturbations."+level+".global_sigma", p.GlobalSigma)
	}

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "costplan")
	}
	// Fall back to ~/.config/costplan
	home, err := os.UserHomeDir()
	if err != nil {
		return ".costplan"
	}
	return filepath.Join(home, ".config", "costplan")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
