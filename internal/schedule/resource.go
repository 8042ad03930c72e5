package schedule

import (
	"container/heap"
	"sort"

	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/graph"
	"github.com/costplan/costplan/internal/project"
)

// completion is a scheduled task completion event.
type completion struct {
	at     float64
	taskID string
}

// eventQueue is a min-heap of completion events keyed by (finish time,
// task ID). The ID tie-break keeps the simulation deterministic when tasks
// finish simultaneously.
type eventQueue []completion

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].taskID < q[j].taskID
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(completion)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

// WithResources simulates the project schedule honoring both dependency
// order and the team's concurrent capacity. Ready tasks are admitted in
// priority order: least slack first (from the unconstrained analysis), then
// earliest unconstrained start, then task ID. A ready task that does not fit
// in the remaining capacity waits; the wait is reported as QueueDelay.
//
// The result duration is always >= the unconstrained critical path duration.
// The simulation is event driven and contains no randomness: identical
// inputs produce identical schedules.
func WithResources(p *project.Project) (*Result, error) {
	g, err := graph.Build(p)
	if err != nil {
		return nil, err
	}

	// The unconstrained analysis supplies slack and earliest starts for the
	// admission priority, and the critical path reported on the result.
	base, err := ForDurations(g, durationsOf(p))
	if err != nil {
		return nil, err
	}

	capacity := p.TeamSize
	demand := make(map[string]int, len(p.Tasks))
	duration := make(map[string]float64, len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		demand[t.ID] = t.Resources
		duration[t.ID] = t.EstimatedDays
		if t.Resources > capacity {
			return nil, errors.NewDeadlockError(t.ID, t.Resources, capacity)
		}
	}

	result := &Result{
		Tasks:        make(map[string]*TaskSchedule, len(p.Tasks)),
		Order:        base.Order,
		CriticalPath: base.CriticalPath,
		Constrained:  true,
		Capacity:     capacity,
	}

	depsLeft := make(map[string]int, len(p.Tasks))
	readyAt := make(map[string]float64, len(p.Tasks))
	var ready []string
	for _, id := range base.Order {
		depsLeft[id] = len(g.RevAdj[id])
		if depsLeft[id] == 0 {
			ready = append(ready, id)
			readyAt[id] = 0
		}
	}

	byPriority := func(ids []string) {
		sort.Slice(ids, func(i, j int) bool {
			a, b := base.Tasks[ids[i]], base.Tasks[ids[j]]
			if a.Slack != b.Slack {
				return a.Slack < b.Slack
			}
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return ids[i] < ids[j]
		})
	}

	events := &eventQueue{}
	heap.Init(events)

	now := 0.0
	available := capacity
	pending := len(p.Tasks)

	for pending > 0 {
		// Admit ready tasks in priority order while capacity allows,
		// skipping over tasks too wide for the remaining units.
		byPriority(ready)
		var waiting []string
		for _, id := range ready {
			if demand[id] > available {
				waiting = append(waiting, id)
				continue
			}
			available -= demand[id]
			finish := now + duration[id]
			result.Tasks[id] = &TaskSchedule{
				TaskID:     id,
				Start:      now,
				Finish:     finish,
				LateStart:  base.Tasks[id].LateStart,
				LateFinish: base.Tasks[id].LateFinish,
				Slack:      base.Tasks[id].Slack,
				Critical:   base.Tasks[id].Critical,
				QueueDelay: now - readyAt[id],
			}
			if finish > result.Duration {
				result.Duration = finish
			}
			heap.Push(events, completion{at: finish, taskID: id})
			pending--
		}
		ready = waiting

		if pending == 0 {
			break
		}
		if events.Len() == 0 {
			// Nothing running and nothing admissible: the per-task demand
			// check above should make this unreachable, but a wedged loop
			// must surface as an error rather than spin.
			blocked := ready[0]
			return nil, errors.NewDeadlockError(blocked, demand[blocked], capacity)
		}

		// Advance to the next completion, draining every event at that
		// time so freed capacity is pooled before the next admission round.
		ev := heap.Pop(events).(completion)
		now = ev.at
		available += demand[ev.taskID]
		finished := []string{ev.taskID}
		for events.Len() > 0 && (*events)[0].at == now {
			ev = heap.Pop(events).(completion)
			available += demand[ev.taskID]
			finished = append(finished, ev.taskID)
		}

		for _, id := range finished {
			for _, succ := range g.Adj[id] {
				depsLeft[succ]--
				if depsLeft[succ] == 0 {
					ready = append(ready, succ)
					readyAt[succ] = now
				}
			}
		}
	}

	return result, nil
}
