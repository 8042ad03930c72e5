package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/costplan/costplan/internal/project"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "simulation.iterations")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidOutputFormats returns the list of valid output formats
func ValidOutputFormats() []string {
	return []string{"text", "json"}
}

// riskLevels are the level keys every table must cover
var riskLevels = []string{
	string(project.RiskLow),
	string(project.RiskMedium),
	string(project.RiskHigh),
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Risk config
	errors = append(errors, c.validateRisk()...)

	// Validate Simulation config
	errors = append(errors, c.validateSimulation()...)

	// Validate Output config
	errors = append(errors, c.validateOutput()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateRisk validates the RiskConfig
func (c *Config) validateRisk() []ValidationError {
	var errors []ValidationError

	for _, level := range riskLevels {
		factor, ok := c.Risk.Factors[level]
		if !ok {
			errors = append(errors, ValidationError{
				Field:   "risk.factors." + level,
				Value:   nil,
				Message: "risk level has no factor",
			})
			continue
		}
		if factor < 1 {
			errors = append(errors, ValidationError{
				Field:   "risk.factors." + level,
				Value:   factor,
				Message: "must be at least 1.0",
			})
		}
	}

	for level := range c.Risk.Factors {
		if !slices.Contains(riskLevels, level) {
			errors = append(errors, ValidationError{
				Field:   "risk.factors." + level,
				Value:   c.Risk.Factors[level],
				Message: fmt.Sprintf("unknown risk level, must be one of: %s", strings.Join(riskLevels, ", ")),
			})
		}
	}

	return errors
}

// validateSimulation validates the SimulationConfig
func (c *Config) validateSimulation() []ValidationError {
	var errors []ValidationError

	maxIterations := c.Simulation.MaxIterations
	if maxIterations <= 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.max_iterations",
			Value:   maxIterations,
			Message: "must be positive",
		})
	}

	if c.Simulation.Iterations < 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.iterations",
			Value:   c.Simulation.Iterations,
			Message: "must be at least 1",
		})
	} else if maxIterations > 0 && c.Simulation.Iterations > maxIterations {
		errors = append(errors, ValidationError{
			Field:   "simulation.iterations",
			Value:   c.Simulation.Iterations,
			Message: fmt.Sprintf("exceeds maximum of %d", maxIterations),
		})
	}

	if c.Simulation.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.workers",
			Value:   c.Simulation.Workers,
			Message: "must be non-negative (0 = one worker per CPU)",
		})
	}

	for _, level := range riskLevels {
		p, ok := c.Simulation.Perturbations[level]
		if !ok {
			errors = append(errors, ValidationError{
				Field:   "simulation.perturbations." + level,
				Value:   nil,
				Message: "risk level has no perturbation parameters",
			})
			continue
		}
		errors = append(errors, validatePerturbation(level, p)...)
	}

	return errors
}

// validatePerturbation validates a single perturbation entry
func validatePerturbation(level string, p PerturbationConfig) []ValidationError {
	var errors []ValidationError
	prefix := "simulation.perturbations." + level

	if p.DurationSpread < 0 || p.DurationSpread >= 1 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".duration_spread",
			Value:   p.DurationSpread,
			Message: "must be in [0, 1)",
		})
	}
	if p.CostSpread < 0 || p.CostSpread >= 1 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".cost_spread",
			Value:   p.CostSpread,
			Message: "must be in [0, 1)",
		})
	}
	if p.GlobalBase < 1 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".global_base",
			Value:   p.GlobalBase,
			Message: "must be at least 1.0",
		})
	}
	if p.GlobalSigma < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".global_sigma",
			Value:   p.GlobalSigma,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Format != "" && !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOutputFormats(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
