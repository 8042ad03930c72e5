package schedule

// TaskSchedule holds the computed timing for a single task.
type TaskSchedule struct {
	TaskID string `json:"task_id"`
	// Start and Finish are the scheduled times in days from project start.
	// In the unconstrained analysis these are the earliest start/finish.
	Start  float64 `json:"start"`
	Finish float64 `json:"finish"`
	// LateStart and LateFinish come from the backward pass of the
	// unconstrained analysis.
	LateStart  float64 `json:"late_start"`
	LateFinish float64 `json:"late_finish"`
	// Slack is how far the task can slip without delaying the project.
	Slack float64 `json:"slack"`
	// Critical is true when the task lies on the critical path.
	Critical bool `json:"critical"`
	// QueueDelay is time spent waiting for capacity after all dependencies
	// finished. Always zero in the unconstrained analysis.
	QueueDelay float64 `json:"queue_delay"`
}

// Result is a complete schedule for a project. Results are derived values:
// recomputed on every analysis run and never mutated in place.
type Result struct {
	// Tasks maps task ID to its computed schedule.
	Tasks map[string]*TaskSchedule `json:"tasks"`
	// Order is the deterministic topological order the tasks were processed
	// in.
	Order []string `json:"order"`
	// Duration is the overall project duration in days.
	Duration float64 `json:"duration"`
	// CriticalPath is the ordered chain of zero-slack task IDs.
	CriticalPath []string `json:"critical_path"`
	// Constrained is true when the schedule honored resource capacity.
	Constrained bool `json:"constrained"`
	// Capacity is the resource capacity the schedule honored; zero when
	// unconstrained.
	Capacity int `json:"capacity,omitempty"`
}

// TotalQueueDelay sums the per-task queuing delay, the portion of the
// constrained duration attributable to capacity contention.
func (r *Result) TotalQueueDelay() float64 {
	var total float64
	for _, ts := range r.Tasks {
		total += ts.QueueDelay
	}
	return total
}
