package montecarlo

import (
	"runtime"

	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/project"
)

// DefaultMaxIterations bounds the runtime of a single simulation request.
const DefaultMaxIterations = 100000

// DefaultSeed is used when the caller does not supply one, keeping repeated
// runs on the same project reproducible by default.
const DefaultSeed uint64 = 1

// Perturbation describes how task estimates are randomly varied for one
// risk level. Duration multipliers are drawn uniformly from
// [1 - 0.3*DurationSpread, 1 + 1.2*DurationSpread] (delays dominate
// efficiency gains) and cost multipliers from
// [1 - 0.5*CostSpread, 1 + CostSpread]. On top of the per-task draws, a
// global factor of max(1, GlobalBase + N(0, GlobalSigma)) scales the
// iteration's total cost and duration to model correlated tail events.
type Perturbation struct {
	DurationSpread float64 `mapstructure:"duration_spread" yaml:"duration_spread"`
	CostSpread     float64 `mapstructure:"cost_spread" yaml:"cost_spread"`
	GlobalBase     float64 `mapstructure:"global_base" yaml:"global_base"`
	GlobalSigma    float64 `mapstructure:"global_sigma" yaml:"global_sigma"`
}

// PerturbationTable maps risk levels to their perturbation parameters.
type PerturbationTable map[project.RiskLevel]Perturbation

// DefaultPerturbations returns the documented defaults: ±15% variation for
// low risk, ±30% for medium, ±50% for high.
func DefaultPerturbations() PerturbationTable {
	return PerturbationTable{
		project.RiskLow:    {DurationSpread: 0.15, CostSpread: 0.15, GlobalBase: 1.05, GlobalSigma: 0.10},
		project.RiskMedium: {DurationSpread: 0.30, CostSpread: 0.30, GlobalBase: 1.15, GlobalSigma: 0.10},
		project.RiskHigh:   {DurationSpread: 0.50, CostSpread: 0.50, GlobalBase: 1.30, GlobalSigma: 0.10},
	}
}

// Validate checks the table covers every risk level with sane parameters.
func (t PerturbationTable) Validate() error {
	for _, level := range []project.RiskLevel{project.RiskLow, project.RiskMedium, project.RiskHigh} {
		p, ok := t[level]
		if !ok {
			return errors.NewConfigError("perturbation table missing level").
				WithField("perturbations").
				WithValue(string(level))
		}
		if p.DurationSpread < 0 || p.DurationSpread >= 1 {
			return errors.NewConfigError("duration spread must be in [0, 1)").
				WithField("duration_spread").
				WithValue(p.DurationSpread)
		}
		if p.CostSpread < 0 || p.CostSpread >= 1 {
			return errors.NewConfigError("cost spread must be in [0, 1)").
				WithField("cost_spread").
				WithValue(p.CostSpread)
		}
		if p.GlobalBase < 1 {
			return errors.NewConfigError("global base factor must be at least 1").
				WithField("global_base").
				WithValue(p.GlobalBase)
		}
		if p.GlobalSigma < 0 {
			return errors.NewConfigError("global sigma must be non-negative").
				WithField("global_sigma").
				WithValue(p.GlobalSigma)
		}
	}
	return nil
}

// Options configures a simulation run.
type Options struct {
	// Iterations is the number of Monte Carlo samples. Must be in
	// [1, MaxIterations]; out-of-range values are rejected, never clamped.
	Iterations int
	// MaxIterations caps Iterations; zero means DefaultMaxIterations.
	MaxIterations int
	// Seed makes the run reproducible. Zero means DefaultSeed. Every
	// iteration derives an independent sub-seeded source from (Seed, index),
	// so results are identical for any worker count.
	Seed uint64
	// Workers bounds the number of concurrent iteration workers. Zero
	// means runtime.NumCPU().
	Workers int
	// Perturbations overrides the per-risk-level perturbation parameters.
	// Nil means DefaultPerturbations.
	Perturbations PerturbationTable
	// Constrained re-runs the resource-constrained scheduler per iteration
	// instead of the unconstrained critical-path pass.
	Constrained bool
}

// withDefaults resolves zero values and validates the options.
func (o Options) withDefaults() (Options, error) {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Iterations < 1 || o.Iterations > o.MaxIterations {
		return o, errors.NewConfigError("iteration count out of bounds").
			WithField("iterations").
			WithValue(o.Iterations)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Perturbations == nil {
		o.Perturbations = DefaultPerturbations()
	}
	if err := o.Perturbations.Validate(); err != nil {
		return o, err
	}
	return o, nil
}
