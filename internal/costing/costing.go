// Package costing aggregates base and risk-adjusted cost and the timeline
// scenarios for a project. Computation is a pure function of the project and
// a named risk-factor table; nothing here schedules or mutates state, so one
// engine instance can serve concurrent analysis requests.
package costing

import (
	"sort"

	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/project"
	"github.com/costplan/costplan/internal/schedule"
)

// RiskFactors maps each risk level to its cost multiplier. The table is
// explicit configuration passed into Compute, never package state.
type RiskFactors map[project.RiskLevel]float64

// DefaultRiskFactors returns the standard multiplier table: 10% overhead for
// low risk, 25% for medium, 50% for high.
func DefaultRiskFactors() RiskFactors {
	return RiskFactors{
		project.RiskLow:    1.10,
		project.RiskMedium: 1.25,
		project.RiskHigh:   1.50,
	}
}

// Validate checks that the table covers every risk level with a factor of
// at least 1.
func (f RiskFactors) Validate() error {
	for _, level := range []project.RiskLevel{project.RiskLow, project.RiskMedium, project.RiskHigh} {
		factor, ok := f[level]
		if !ok {
			return errors.NewConfigError("risk factor table missing level").
				WithField("risk_factors").
				WithValue(string(level))
		}
		if factor < 1 {
			return errors.NewConfigError("risk factor must be at least 1").
				WithField("risk_factors").
				WithValue(factor)
		}
	}
	return nil
}

// TaskCost is the per-task cost breakdown.
type TaskCost struct {
	TaskID       string  `json:"task_id"`
	Days         float64 `json:"days"`
	CostPerDay   float64 `json:"cost_per_day"`
	BaseCost     float64 `json:"base_cost"`
	AdjustedCost float64 `json:"adjusted_cost"`
}

// Timelines reports the duration scenarios for a project.
type Timelines struct {
	// Sequential is the sum of all task durations, no parallelism.
	Sequential float64 `json:"sequential"`
	// CriticalPath is the unconstrained minimum duration.
	CriticalPath float64 `json:"critical_path"`
	// ResourceConstrained is the simulated duration under the team's
	// capacity. Zero unless Constrained is true.
	ResourceConstrained float64 `json:"resource_constrained,omitempty"`
	// Constrained is true when the team size is below the project's peak
	// concurrent resource demand, making the constrained scenario
	// meaningful.
	Constrained bool `json:"constrained"`
}

// CostResult is the aggregate cost picture for a project.
type CostResult struct {
	BaseCost         float64    `json:"base_cost"`
	RiskAdjustedCost float64    `json:"risk_adjusted_cost"`
	RiskFactor       float64    `json:"risk_factor"`
	TaskCosts        []TaskCost `json:"task_costs"`
	Timelines        Timelines  `json:"timelines"`
}

// Compute calculates the cost result for a validated project using the
// given risk-factor table.
func Compute(p *project.Project, factors RiskFactors) (*CostResult, error) {
	if err := factors.Validate(); err != nil {
		return nil, err
	}
	factor := factors[p.RiskLevel]

	result := &CostResult{
		RiskFactor: factor,
		TaskCosts:  make([]TaskCost, 0, len(p.Tasks)),
	}
	for i := range p.Tasks {
		t := &p.Tasks[i]
		base := t.BaseCost()
		result.BaseCost += base
		result.TaskCosts = append(result.TaskCosts, TaskCost{
			TaskID:       t.ID,
			Days:         t.EstimatedDays,
			CostPerDay:   t.CostPerDay,
			BaseCost:     base,
			AdjustedCost: base * factor,
		})
	}
	result.RiskAdjustedCost = result.BaseCost * factor

	cp, err := schedule.CriticalPath(p)
	if err != nil {
		return nil, err
	}
	result.Timelines = Timelines{
		Sequential:   p.SequentialDays(),
		CriticalPath: cp.Duration,
	}

	// The constrained scenario only differs when the team cannot cover the
	// peak concurrent demand of the unconstrained schedule.
	if p.TeamSize < peakDemand(p, cp) {
		rc, err := schedule.WithResources(p)
		if err != nil {
			return nil, err
		}
		result.Timelines.ResourceConstrained = rc.Duration
		result.Timelines.Constrained = true
	}

	return result, nil
}

// peakDemand sweeps the unconstrained schedule's start/finish events and
// returns the maximum concurrent resource demand.
func peakDemand(p *project.Project, r *schedule.Result) int {
	type event struct {
		at    float64
		delta int
	}

	events := make([]event, 0, 2*len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		ts := r.Tasks[t.ID]
		events = append(events,
			event{at: ts.Start, delta: t.Resources},
			event{at: ts.Finish, delta: -t.Resources},
		)
	}

	// Process finishes before starts at equal times so back-to-back tasks
	// do not count as overlapping.
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	peak, cur := 0, 0
	for _, ev := range events {
		cur += ev.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}
