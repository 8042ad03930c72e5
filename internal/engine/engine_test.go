package engine

import (
	"context"
	"testing"

	"github.com/costplan/costplan/internal/config"
	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/montecarlo"
	"github.com/costplan/costplan/internal/project"
)

func testEngine() *Engine {
	return New(nil, nil)
}

func validProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New("release", project.RiskMedium, 2, []project.Task{
		{ID: "spec", Name: "Write spec", EstimatedDays: 3, CostPerDay: 600},
		{ID: "impl", Name: "Implement", EstimatedDays: 8, CostPerDay: 1000, DependsOn: []string{"spec"}},
		{ID: "test", Name: "Test", EstimatedDays: 4, CostPerDay: 700, DependsOn: []string{"impl"}},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func TestValidateOK(t *testing.T) {
	result := testEngine().Validate(validProject(t))

	if !result.OK {
		t.Errorf("Validate() = %+v, want OK", result)
	}
	if result.Err != nil || result.CyclePath != nil {
		t.Errorf("Validate() carried failure details on success: %+v", result)
	}
}

func TestValidateCycle(t *testing.T) {
	p := &project.Project{
		Name:      "tangled",
		RiskLevel: project.RiskLow,
		TeamSize:  2,
		Tasks: []project.Task{
			{ID: "a", Name: "A", EstimatedDays: 1, CostPerDay: 100, DependsOn: []string{"b"}, Resources: 1},
			{ID: "b", Name: "B", EstimatedDays: 1, CostPerDay: 100, DependsOn: []string{"a"}, Resources: 1},
		},
	}

	result := testEngine().Validate(p)
	if result.OK {
		t.Fatal("Validate() accepted a cyclic project")
	}
	if !errors.Is(result.Err, errors.ErrDependencyCycle) {
		t.Errorf("Err = %v, want ErrDependencyCycle", result.Err)
	}
	if len(result.CyclePath) != 3 {
		t.Fatalf("CyclePath = %v, want a closed two-task cycle", result.CyclePath)
	}
	if result.CyclePath[0] != result.CyclePath[len(result.CyclePath)-1] {
		t.Errorf("CyclePath %v does not close on itself", result.CyclePath)
	}
}

func TestValidateScalarFailure(t *testing.T) {
	p := &project.Project{
		Name:      "broken",
		RiskLevel: project.RiskLow,
		TeamSize:  0,
		Tasks: []project.Task{
			{ID: "a", Name: "A", EstimatedDays: 1, CostPerDay: 100, Resources: 1},
		},
	}

	result := testEngine().Validate(p)
	if result.OK {
		t.Fatal("Validate() accepted zero team size")
	}
	if !errors.Is(result.Err, errors.ErrInvalidConfiguration) {
		t.Errorf("Err = %v, want ErrInvalidConfiguration", result.Err)
	}
	if result.Message == "" {
		t.Error("Message is empty")
	}
}

func TestAnalyze(t *testing.T) {
	p := validProject(t)
	analysis, err := testEngine().Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	// 3*600 + 8*1000 + 4*700 = 12600, medium risk factor 1.25.
	if analysis.Cost.BaseCost != 12600 {
		t.Errorf("BaseCost = %v, want 12600", analysis.Cost.BaseCost)
	}
	if analysis.Cost.RiskAdjustedCost != 15750 {
		t.Errorf("RiskAdjustedCost = %v, want 15750", analysis.Cost.RiskAdjustedCost)
	}
	if analysis.Schedule.Duration != 15 {
		t.Errorf("Schedule.Duration = %v, want 15", analysis.Schedule.Duration)
	}
	// A pure chain never exceeds a two-person team.
	if analysis.Constrained != nil {
		t.Errorf("Constrained = %+v, want nil for a chain", analysis.Constrained)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	p := validProject(t)
	eng := testEngine()

	first, err := eng.Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	second, err := eng.Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if first.Cost.RiskAdjustedCost != second.Cost.RiskAdjustedCost {
		t.Errorf("cost diverged between runs: %v vs %v",
			first.Cost.RiskAdjustedCost, second.Cost.RiskAdjustedCost)
	}
	if first.Schedule.Duration != second.Schedule.Duration {
		t.Errorf("duration diverged between runs: %v vs %v",
			first.Schedule.Duration, second.Schedule.Duration)
	}
}

func TestAnalyzeConstrained(t *testing.T) {
	p, err := project.New("crowded", project.RiskLow, 1, []project.Task{
		{ID: "a", Name: "A", EstimatedDays: 4, CostPerDay: 100},
		{ID: "b", Name: "B", EstimatedDays: 4, CostPerDay: 100},
		{ID: "c", Name: "C", EstimatedDays: 4, CostPerDay: 100},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	analysis, err := testEngine().Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if analysis.Constrained == nil {
		t.Fatal("Constrained = nil, want resource-constrained schedule")
	}
	// One person, three 4-day tasks.
	if analysis.Constrained.Duration != 12 {
		t.Errorf("Constrained.Duration = %v, want 12", analysis.Constrained.Duration)
	}
	if analysis.Schedule.Duration != 4 {
		t.Errorf("Schedule.Duration = %v, want 4", analysis.Schedule.Duration)
	}
}

func TestAnalyzeRejectsInvalid(t *testing.T) {
	p := &project.Project{
		Name:      "broken",
		RiskLevel: "extreme",
		TeamSize:  2,
		Tasks: []project.Task{
			{ID: "a", Name: "A", EstimatedDays: 1, CostPerDay: 100, Resources: 1},
		},
	}

	if _, err := testEngine().Analyze(p); !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("Analyze() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestSimulateRiskDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Iterations = 50
	cfg.Simulation.Seed = 7
	eng := New(cfg, nil)

	result, err := eng.SimulateRisk(context.Background(), validProject(t), montecarlo.Options{})
	if err != nil {
		t.Fatalf("SimulateRisk() error: %v", err)
	}

	if result.Requested != 50 {
		t.Errorf("Requested = %d, want configured 50", result.Requested)
	}
	if result.Seed != 7 {
		t.Errorf("Seed = %d, want configured 7", result.Seed)
	}
	if result.Duration.P10 > result.Duration.P50 || result.Duration.P50 > result.Duration.P90 {
		t.Errorf("percentiles out of order: %+v", result.Duration)
	}
}

func TestSimulateRiskOverrides(t *testing.T) {
	eng := testEngine()
	p := validProject(t)

	first, err := eng.SimulateRisk(context.Background(), p, montecarlo.Options{Iterations: 80, Seed: 3})
	if err != nil {
		t.Fatalf("SimulateRisk() error: %v", err)
	}
	second, err := eng.SimulateRisk(context.Background(), p, montecarlo.Options{Iterations: 80, Seed: 3})
	if err != nil {
		t.Fatalf("SimulateRisk() error: %v", err)
	}

	if first.Duration != second.Duration || first.Cost != second.Cost {
		t.Errorf("same seed produced different stats: %+v vs %+v", first.Duration, second.Duration)
	}
}

func TestSimulateRiskRejectsInvalid(t *testing.T) {
	p := &project.Project{
		Name:      "broken",
		RiskLevel: project.RiskLow,
		TeamSize:  2,
		Tasks: []project.Task{
			{ID: "a", Name: "A", EstimatedDays: -2, CostPerDay: 100, Resources: 1},
		},
	}

	_, err := testEngine().SimulateRisk(context.Background(), p, montecarlo.Options{Iterations: 10})
	if !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("SimulateRisk() error = %v, want ErrInvalidConfiguration", err)
	}
}
