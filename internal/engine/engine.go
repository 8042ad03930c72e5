// Package engine exposes the synchronous costplan API: project validation,
// deterministic cost and schedule analysis, and Monte Carlo risk simulation.
// An Engine is stateless between calls; the same inputs always produce the
// same outputs.
package engine

import (
	"context"

	"github.com/costplan/costplan/internal/config"
	"github.com/costplan/costplan/internal/costing"
	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/graph"
	"github.com/costplan/costplan/internal/logging"
	"github.com/costplan/costplan/internal/montecarlo"
	"github.com/costplan/costplan/internal/project"
	"github.com/costplan/costplan/internal/schedule"
)

// Engine evaluates projects against the configured risk model.
type Engine struct {
	cfg *config.Config
	log *logging.Logger
}

// New creates an Engine. A nil config uses the defaults; a nil logger
// discards output.
func New(cfg *config.Config, log *logging.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Engine{
		cfg: cfg,
		log: log.WithComponent("engine"),
	}
}

// ValidationResult reports the outcome of project validation. When the
// dependency graph contains a cycle, CyclePath holds it in dependency order
// with the first task repeated at the end.
type ValidationResult struct {
	OK        bool     `json:"ok"`
	Err       error    `json:"-"`
	Message   string   `json:"message,omitempty"`
	CyclePath []string `json:"cycle_path,omitempty"`
}

// Validate checks the project's scalar fields and its dependency graph.
// It never returns an error; failures are reported in the result so callers
// can render them.
func (e *Engine) Validate(p *project.Project) *ValidationResult {
	if err := p.Validate(); err != nil {
		e.log.Warn("project rejected", "project", p.Name, "error", err)
		return &ValidationResult{Err: err, Message: err.Error()}
	}

	if _, err := graph.Build(p); err != nil {
		e.log.Warn("dependency graph rejected", "project", p.Name, "error", err)
		result := &ValidationResult{Err: err, Message: err.Error()}
		var cycleErr *errors.CycleError
		if errors.As(err, &cycleErr) {
			result.CyclePath = cycleErr.Path
		}
		return result
	}

	e.log.Debug("project validated", "project", p.Name, "tasks", len(p.Tasks))
	return &ValidationResult{OK: true}
}

// Analysis bundles the deterministic results for one project.
type Analysis struct {
	Cost     *costing.CostResult `json:"cost"`
	Schedule *schedule.Result    `json:"schedule"`
	// Constrained holds the resource-constrained schedule when the team is
	// smaller than the peak concurrent demand, nil otherwise.
	Constrained *schedule.Result `json:"constrained,omitempty"`
}

// Analyze computes the cost breakdown and schedule for the project. The
// project is not mutated and repeated calls return identical results.
func (e *Engine) Analyze(p *project.Project) (*Analysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cost, err := costing.Compute(p, e.cfg.Risk.RiskFactors())
	if err != nil {
		return nil, err
	}

	sched, err := schedule.CriticalPath(p)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Cost: cost, Schedule: sched}
	if cost.Timelines.Constrained {
		constrained, err := schedule.WithResources(p)
		if err != nil {
			return nil, err
		}
		analysis.Constrained = constrained
	}

	e.log.Info("analysis complete",
		"project", p.Name,
		"tasks", len(p.Tasks),
		"base_cost", cost.BaseCost,
		"adjusted_cost", cost.RiskAdjustedCost,
		"critical_path_days", sched.Duration,
		"constrained", cost.Timelines.Constrained)

	return analysis, nil
}

// SimulateRisk runs the Monte Carlo simulation. Zero-valued option fields
// fall back to the configured defaults.
func (e *Engine) SimulateRisk(ctx context.Context, p *project.Project, opts montecarlo.Options) (*montecarlo.SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	defaults := e.cfg.Simulation
	if opts.Iterations == 0 {
		opts.Iterations = defaults.Iterations
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = defaults.MaxIterations
	}
	if opts.Seed == 0 {
		opts.Seed = defaults.Seed
	}
	if opts.Workers == 0 {
		opts.Workers = defaults.Workers
	}
	if opts.Perturbations == nil {
		opts.Perturbations = defaults.PerturbationTable()
	}

	result, err := montecarlo.Run(ctx, p, opts)
	if err != nil {
		return nil, err
	}

	e.log.Info("simulation complete",
		"project", p.Name,
		"iterations", result.Completed,
		"seed", result.Seed,
		"duration_p50", result.Duration.P50,
		"cost_p50", result.Cost.P50,
		"canceled", result.Canceled)

	return result, nil
}
