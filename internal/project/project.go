// Package project defines the task and project model the costplan engine
// analyzes. Instances are constructed once per analysis request and treated
// as read-only inputs; every derived result (schedules, costs, simulations)
// is a fresh object.
package project

import (
	"sort"
	"strings"

	"github.com/costplan/costplan/internal/errors"
)

// RiskLevel classifies a project's inherent uncertainty. It drives both the
// cost adjustment factor and the Monte Carlo perturbation magnitude.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel normalizes and validates a risk level string.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskHigh:
		return RiskHigh, nil
	default:
		return "", errors.NewConfigError("risk level must be one of low, medium, high").
			WithField("risk_level").
			WithValue(s)
	}
}

// Valid reports whether the risk level is one of the known values.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Task is a single unit of work in a project.
type Task struct {
	// ID uniquely identifies the task within its project.
	ID string `json:"id" yaml:"id"`
	// Name is a human-readable label.
	Name string `json:"name" yaml:"name"`
	// EstimatedDays is the estimated duration in days. Must be positive.
	EstimatedDays float64 `json:"estimated_days" yaml:"estimated_days"`
	// CostPerDay is the daily cost in currency units. Must be non-negative.
	CostPerDay float64 `json:"cost_per_day" yaml:"cost_per_day"`
	// DependsOn lists the IDs of tasks that must finish before this one
	// starts.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	// Resources is the number of concurrent team units the task occupies
	// while running. Zero is normalized to 1.
	Resources int `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// BaseCost returns the unadjusted cost of the task.
func (t *Task) BaseCost() float64 {
	return t.EstimatedDays * t.CostPerDay
}

// Project is a named set of interdependent tasks with a resource capacity
// and a risk classification.
type Project struct {
	Name      string    `json:"name" yaml:"name"`
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`
	// TeamSize is the total concurrent resource capacity. Must be positive.
	TeamSize int    `json:"team_size" yaml:"team_size"`
	Tasks    []Task `json:"tasks" yaml:"tasks"`
}

// New constructs a Project and validates its scalar invariants. Dependency
// structure (unknown references, cycles) is validated separately by the
// graph package before any scheduling or cost computation.
func New(name string, risk RiskLevel, teamSize int, tasks []Task) (*Project, error) {
	p := &Project{
		Name:      name,
		RiskLevel: risk,
		TeamSize:  teamSize,
		Tasks:     tasks,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the scalar invariants of the project and every task:
// positive durations and team size, non-negative costs, unique non-empty
// task IDs, and task resource demand of at least one unit. It also
// normalizes zero Resources fields to 1.
func (p *Project) Validate() error {
	if p.TeamSize <= 0 {
		return errors.NewConfigError("team size must be at least 1").
			WithField("team_size").
			WithValue(p.TeamSize)
	}
	if !p.RiskLevel.Valid() {
		return errors.NewConfigError("risk level must be one of low, medium, high").
			WithField("risk_level").
			WithValue(string(p.RiskLevel))
	}

	seen := make(map[string]bool, len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if strings.TrimSpace(t.ID) == "" {
			return errors.NewConfigError("task ID must not be empty").
				WithField("id")
		}
		if seen[t.ID] {
			return errors.NewConfigError("duplicate task ID").
				WithField("id").
				WithValue(t.ID)
		}
		seen[t.ID] = true

		if t.EstimatedDays <= 0 {
			return errors.NewConfigError("estimated duration must be positive").
				WithField("estimated_days").
				WithValue(t.EstimatedDays)
		}
		if t.CostPerDay < 0 {
			return errors.NewConfigError("daily cost must be non-negative").
				WithField("cost_per_day").
				WithValue(t.CostPerDay)
		}
		if t.Resources == 0 {
			t.Resources = 1
		}
		if t.Resources < 0 {
			return errors.NewConfigError("resource demand must be at least 1").
				WithField("resources").
				WithValue(t.Resources)
		}
	}

	return nil
}

// TaskByID returns the task with the given ID, or nil if absent.
func (p *Project) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// TaskIDs returns the sorted list of task IDs.
func (p *Project) TaskIDs() []string {
	ids := make([]string, 0, len(p.Tasks))
	for i := range p.Tasks {
		ids = append(ids, p.Tasks[i].ID)
	}
	sort.Strings(ids)
	return ids
}

// TotalBaseCost returns the sum of base costs across all tasks.
func (p *Project) TotalBaseCost() float64 {
	var total float64
	for i := range p.Tasks {
		total += p.Tasks[i].BaseCost()
	}
	return total
}

// SequentialDays returns the sum of all task durations, the timeline when
// nothing runs in parallel.
func (p *Project) SequentialDays() float64 {
	var total float64
	for i := range p.Tasks {
		total += p.Tasks[i].EstimatedDays
	}
	return total
}
