// Package schedule computes project schedules: the unconstrained critical
// path analysis and the resource-constrained simulation. Both are pure
// functions of a validated project; given identical inputs the output is
// identical.
package schedule

import (
	"github.com/costplan/costplan/internal/graph"
	"github.com/costplan/costplan/internal/project"
)

// slackEpsilon absorbs float rounding when classifying zero-slack tasks.
const slackEpsilon = 1e-9

// CriticalPath performs critical path analysis on the project, ignoring
// resource limits. It validates the dependency graph, then runs a forward
// pass (earliest start/finish in topological order) and a backward pass
// (latest finish/start in reverse order). Slack is latest start minus
// earliest start; the critical path is the zero-slack chain, tie-broken by
// smallest task ID.
func CriticalPath(p *project.Project) (*Result, error) {
	g, err := graph.Build(p)
	if err != nil {
		return nil, err
	}
	return ForDurations(g, durationsOf(p))
}

// durationsOf extracts the estimated duration of every task.
func durationsOf(p *project.Project) map[string]float64 {
	d := make(map[string]float64, len(p.Tasks))
	for i := range p.Tasks {
		d[p.Tasks[i].ID] = p.Tasks[i].EstimatedDays
	}
	return d
}

// ForDurations runs the forward/backward passes over an already-validated
// graph with the given task durations. The Monte Carlo simulator calls this
// directly with perturbed durations so the graph is built once per run.
func ForDurations(g *graph.DependencyGraph, durations map[string]float64) (*Result, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tasks: make(map[string]*TaskSchedule, len(order)),
		Order: order,
	}
	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id}
	}

	// Forward pass: earliest start is the max finish of all dependencies.
	for _, id := range order {
		ts := result.Tasks[id]
		for _, dep := range g.RevAdj[id] {
			if f := result.Tasks[dep].Finish; f > ts.Start {
				ts.Start = f
			}
		}
		ts.Finish = ts.Start + durations[id]
		if ts.Finish > result.Duration {
			result.Duration = ts.Finish
		}
	}

	// Backward pass: latest finish is the min latest start of dependents,
	// defaulting to the project duration for tasks with no dependents.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]

		lf := result.Duration
		for _, succ := range g.Adj[id] {
			if ls := result.Tasks[succ].LateStart; ls < lf {
				lf = ls
			}
		}
		ts.LateFinish = lf
		ts.LateStart = lf - durations[id]

		slack := ts.LateStart - ts.Start
		if slack < slackEpsilon && slack > -slackEpsilon {
			slack = 0
		}
		ts.Slack = slack
		ts.Critical = slack == 0
	}

	if len(order) > 0 {
		result.CriticalPath = criticalChain(result, g, durations)
	}

	return result, nil
}

// criticalChain walks the zero-slack chain from project start to finish.
// When several zero-slack tasks qualify at a step, the smallest task ID
// wins, keeping the reported path deterministic.
func criticalChain(r *Result, g *graph.DependencyGraph, durations map[string]float64) []string {
	// The chain starts at the zero-slack root with the smallest ID.
	start := ""
	for _, id := range r.Order {
		ts := r.Tasks[id]
		if !ts.Critical || ts.Start != 0 {
			continue
		}
		if start == "" || id < start {
			start = id
		}
	}
	if start == "" {
		return nil
	}

	var chain []string
	for cur := start; cur != ""; {
		chain = append(chain, cur)
		finish := r.Tasks[cur].Finish

		next := ""
		for _, succ := range g.Adj[cur] {
			ts := r.Tasks[succ]
			if !ts.Critical || ts.Start != finish {
				continue
			}
			if next == "" || succ < next {
				next = succ
			}
		}
		cur = next
	}
	return chain
}
