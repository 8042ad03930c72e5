// Package montecarlo quantifies schedule and cost uncertainty by repeatedly
// perturbing task estimates per a risk profile and re-running the schedule
// analysis. Iterations are independent: each derives its own random source
// from (seed, iteration index), so a run is reproducible for any worker
// count, and aggregate statistics are computed over iteration-index order.
package montecarlo

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/graph"
	"github.com/costplan/costplan/internal/project"
	"github.com/costplan/costplan/internal/schedule"
)

// RiskDriver ranks a task's contribution to outcome variance.
type RiskDriver struct {
	TaskID string `json:"task_id"`
	// Correlation is the Pearson correlation between the task's sampled
	// duration and the total project duration.
	Correlation float64 `json:"correlation"`
	// CriticalRate is the fraction of iterations in which the task lay on
	// the critical path.
	CriticalRate float64 `json:"critical_rate"`
}

// SimulationResult holds the sampled distributions and their summary.
type SimulationResult struct {
	Requested int    `json:"requested"`
	Completed int    `json:"completed"`
	Seed      uint64 `json:"seed"`
	// Canceled is true when the run stopped before dispatching every
	// requested iteration; completed iterations are retained.
	Canceled bool `json:"canceled,omitempty"`
	// Durations and Costs hold one sample per completed iteration, in
	// iteration-index order.
	Durations []float64 `json:"durations"`
	Costs     []float64 `json:"costs"`
	Duration  Stats     `json:"duration"`
	Cost      Stats     `json:"cost"`
	// RiskDrivers are sorted by descending |Correlation|, ties broken by
	// task ID.
	RiskDrivers []RiskDriver `json:"risk_drivers"`
}

// iterationSample is the raw outcome of a single iteration.
type iterationSample struct {
	duration  float64
	cost      float64
	taskDays  []float64 // indexed like taskIDs
	critical  []bool    // indexed like taskIDs
	completed bool
}

// Run executes the Monte Carlo simulation. The project must pass scalar
// validation; dependency validation happens here via the graph build. Any
// iteration error aborts the whole run so statistics are never silently
// biased. Cancellation through ctx stops dispatching further iterations and
// retains the completed ones.
func Run(ctx context.Context, p *project.Project, opts Options) (*SimulationResult, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(p)
	if err != nil {
		return nil, err
	}
	taskIDs := g.TaskIDs()
	baseDays := make([]float64, len(taskIDs))
	baseCost := make([]float64, len(taskIDs))
	for i, id := range taskIDs {
		t := p.TaskByID(id)
		baseDays[i] = t.EstimatedDays
		baseCost[i] = t.BaseCost()
	}
	pert := opts.Perturbations[p.RiskLevel]

	samples := make([]iterationSample, opts.Iterations)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := 0; i < opts.Iterations; i++ {
			select {
			case indexes <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
		cancel()
	}

	workers := opts.Workers
	if workers > opts.Iterations {
		workers = opts.Iterations
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				sample, err := runIteration(p, g, taskIDs, baseDays, baseCost, pert, opts, i)
				if err != nil {
					fail(err)
					return
				}
				samples[i] = sample
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "monte carlo iteration failed")
	}

	return aggregate(taskIDs, samples, opts)
}

// runIteration perturbs the project per the risk profile using a source
// derived from (seed, index) and re-runs the schedule analysis.
func runIteration(p *project.Project, g *graph.DependencyGraph, taskIDs []string,
	baseDays, baseCost []float64, pert Perturbation, opts Options, index int) (iterationSample, error) {

	rng := rand.New(rand.NewPCG(opts.Seed, uint64(index)))

	days := make([]float64, len(taskIDs))
	durations := make(map[string]float64, len(taskIDs))
	var cost float64
	for i, id := range taskIDs {
		// Delays outweigh efficiency gains, so the duration range skews
		// upward; cost variation skews the same way but less sharply.
		durMult := uniform(rng, 1-0.3*pert.DurationSpread, 1+1.2*pert.DurationSpread)
		costMult := uniform(rng, 1-0.5*pert.CostSpread, 1+pert.CostSpread)

		days[i] = baseDays[i] * durMult
		durations[id] = days[i]
		cost += baseCost[i] * costMult
	}

	// Correlated tail events: one normally-distributed factor scales the
	// iteration's total cost and duration, floored at 1.
	global := pert.GlobalBase + rng.NormFloat64()*pert.GlobalSigma
	if global < 1 {
		global = 1
	}

	var result *schedule.Result
	var err error
	if opts.Constrained {
		result, err = schedule.WithResources(perturbedCopy(p, durations))
	} else {
		result, err = schedule.ForDurations(g, durations)
	}
	if err != nil {
		return iterationSample{}, err
	}

	critical := make([]bool, len(taskIDs))
	for i, id := range taskIDs {
		if ts, ok := result.Tasks[id]; ok {
			critical[i] = ts.Critical
		}
	}

	return iterationSample{
		duration:  result.Duration * global,
		cost:      cost * global,
		taskDays:  days,
		critical:  critical,
		completed: true,
	}, nil
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// perturbedCopy builds a fresh project whose task durations are replaced by
// the sampled values. The base project is never mutated.
func perturbedCopy(p *project.Project, durations map[string]float64) *project.Project {
	tasks := make([]project.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	for i := range tasks {
		tasks[i].EstimatedDays = durations[tasks[i].ID]
	}
	return &project.Project{
		Name:      p.Name,
		RiskLevel: p.RiskLevel,
		TeamSize:  p.TeamSize,
		Tasks:     tasks,
	}
}

// aggregate compacts completed iterations in index order and computes the
// summary statistics and risk-driver ranking.
func aggregate(taskIDs []string, samples []iterationSample, opts Options) (*SimulationResult, error) {
	result := &SimulationResult{
		Requested: opts.Iterations,
		Seed:      opts.Seed,
	}

	taskSamples := make([][]float64, len(taskIDs))
	criticalCount := make([]int, len(taskIDs))

	for i := range samples {
		s := &samples[i]
		if !s.completed {
			continue
		}
		result.Completed++
		result.Durations = append(result.Durations, s.duration)
		result.Costs = append(result.Costs, s.cost)
		for t := range taskIDs {
			taskSamples[t] = append(taskSamples[t], s.taskDays[t])
			if s.critical[t] {
				criticalCount[t]++
			}
		}
	}

	if result.Completed == 0 {
		return nil, errors.Wrap(errors.ErrSimulationCanceled, "no iterations completed")
	}
	result.Canceled = result.Completed < result.Requested

	result.Duration = summarize(result.Durations)
	result.Cost = summarize(result.Costs)

	drivers := make([]RiskDriver, 0, len(taskIDs))
	for t, id := range taskIDs {
		drivers = append(drivers, RiskDriver{
			TaskID:       id,
			Correlation:  correlation(taskSamples[t], result.Durations),
			CriticalRate: float64(criticalCount[t]) / float64(result.Completed),
		})
	}
	sort.Slice(drivers, func(i, j int) bool {
		ci, cj := math.Abs(drivers[i].Correlation), math.Abs(drivers[j].Correlation)
		if ci != cj {
			return ci > cj
		}
		return drivers[i].TaskID < drivers[j].TaskID
	})
	result.RiskDrivers = drivers

	return result, nil
}
