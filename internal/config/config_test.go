package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/costplan/costplan/internal/project"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Default() config fails validation: %v", ValidationErrors(errs))
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Risk.Factors["low"] != 1.10 {
		t.Errorf("low risk factor = %v, want 1.10", cfg.Risk.Factors["low"])
	}
	if cfg.Risk.Factors["high"] != 1.50 {
		t.Errorf("high risk factor = %v, want 1.50", cfg.Risk.Factors["high"])
	}
	if cfg.Simulation.Iterations != 1000 {
		t.Errorf("simulation iterations = %d, want 1000", cfg.Simulation.Iterations)
	}
	if cfg.Simulation.Seed != 1 {
		t.Errorf("simulation seed = %d, want 1", cfg.Simulation.Seed)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("output format = %q, want text", cfg.Output.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q, want info", cfg.Logging.Level)
	}
}

func TestSetDefaultsAndLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if cfg.Simulation.Iterations != want.Simulation.Iterations {
		t.Errorf("iterations = %d, want %d", cfg.Simulation.Iterations, want.Simulation.Iterations)
	}
	if cfg.Risk.Factors["medium"] != want.Risk.Factors["medium"] {
		t.Errorf("medium factor = %v, want %v", cfg.Risk.Factors["medium"], want.Risk.Factors["medium"])
	}
	if cfg.Simulation.Perturbations["high"].DurationSpread != 0.50 {
		t.Errorf("high duration spread = %v, want 0.50",
			cfg.Simulation.Perturbations["high"].DurationSpread)
	}
}

func TestLoadOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("simulation.iterations", 5000)
	viper.Set("risk.factors.high", 2.0)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Simulation.Iterations != 5000 {
		t.Errorf("iterations = %d, want 5000", cfg.Simulation.Iterations)
	}
	if cfg.Risk.Factors["high"] != 2.0 {
		t.Errorf("high factor = %v, want 2.0", cfg.Risk.Factors["high"])
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("simulation.iterations", 0)

	if _, err := Load(); err == nil {
		t.Error("Load() accepted zero iterations")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Risk.Factors["low"] = 0.5
	cfg.Simulation.Iterations = -1
	cfg.Output.Format = "xml"
	cfg.Logging.Level = "verbose"

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Fatalf("got %d validation errors, want 4: %v", len(errs), ValidationErrors(errs))
	}

	msg := ValidationErrors(errs).Error()
	for _, field := range []string{"risk.factors.low", "simulation.iterations", "output.format", "logging.level"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error message missing field %q: %s", field, msg)
		}
	}
}

func TestValidateMissingRiskLevel(t *testing.T) {
	cfg := Default()
	delete(cfg.Risk.Factors, "medium")
	delete(cfg.Simulation.Perturbations, "medium")

	errs := cfg.Validate()
	if len(errs) != 2 {
		t.Fatalf("got %d validation errors, want 2: %v", len(errs), ValidationErrors(errs))
	}
}

func TestValidateUnknownRiskLevel(t *testing.T) {
	cfg := Default()
	cfg.Risk.Factors["catastrophic"] = 3.0

	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d validation errors, want 1: %v", len(errs), ValidationErrors(errs))
	}
	if errs[0].Field != "risk.factors.catastrophic" {
		t.Errorf("Field = %q, want risk.factors.catastrophic", errs[0].Field)
	}
}

func TestValidatePerturbationBounds(t *testing.T) {
	cfg := Default()
	p := cfg.Simulation.Perturbations["high"]
	p.DurationSpread = 1.0
	p.GlobalBase = 0.5
	cfg.Simulation.Perturbations["high"] = p

	errs := cfg.Validate()
	if len(errs) != 2 {
		t.Fatalf("got %d validation errors, want 2: %v", len(errs), ValidationErrors(errs))
	}
}

func TestRiskFactorsConversion(t *testing.T) {
	cfg := Default()
	factors := cfg.Risk.RiskFactors()

	if factors[project.RiskMedium] != 1.25 {
		t.Errorf("medium factor = %v, want 1.25", factors[project.RiskMedium])
	}
	if err := factors.Validate(); err != nil {
		t.Errorf("converted factors fail validation: %v", err)
	}
}

func TestOptionsConversion(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Seed = 99
	cfg.Simulation.Workers = 2

	opts := cfg.Simulation.Options()
	if opts.Seed != 99 || opts.Workers != 2 || opts.Iterations != 1000 {
		t.Errorf("unexpected options: %+v", opts)
	}
	if err := opts.Perturbations.Validate(); err != nil {
		t.Errorf("converted perturbations fail validation: %v", err)
	}
}
