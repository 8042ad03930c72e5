// Package graph builds and validates the directed acyclic dependency graph
// over a project's tasks. Validation must run before any scheduling or cost
// computation; it reports unknown dependency references and the specific
// cycle path when one exists.
package graph

import (
	"sort"

	"github.com/costplan/costplan/internal/errors"
	"github.com/costplan/costplan/internal/project"
)

// DependencyGraph is the adjacency view of a project's dependency relation.
// Edges run from a task to the tasks that depend on it.
type DependencyGraph struct {
	// Adj maps a task to its dependents (tasks it must finish before).
	Adj map[string][]string
	// RevAdj maps a task to its dependencies.
	RevAdj map[string][]string
	// Roots are tasks with no dependencies.
	Roots []string
	// Leaves are tasks with no dependents.
	Leaves []string

	ids []string
}

// Build constructs the dependency graph for a project. It fails with an
// UnknownDependencyError if a task references a nonexistent ID, or a
// CycleError carrying the offending path if the relation is not acyclic.
func Build(p *project.Project) (*DependencyGraph, error) {
	g := &DependencyGraph{
		Adj:    make(map[string][]string, len(p.Tasks)),
		RevAdj: make(map[string][]string, len(p.Tasks)),
	}

	known := make(map[string]bool, len(p.Tasks))
	for i := range p.Tasks {
		known[p.Tasks[i].ID] = true
	}

	for i := range p.Tasks {
		t := &p.Tasks[i]
		g.ids = append(g.ids, t.ID)
		for _, dep := range t.DependsOn {
			if !known[dep] {
				return nil, errors.NewUnknownDependencyError(t.ID, dep)
			}
			g.Adj[dep] = append(g.Adj[dep], t.ID)
			g.RevAdj[t.ID] = append(g.RevAdj[t.ID], dep)
		}
	}
	sort.Strings(g.ids)

	// Sort adjacency lists so every traversal is deterministic.
	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}

	for _, id := range g.ids {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}

	if cycle := g.detectCycle(); cycle != nil {
		return nil, errors.NewCycleError(cycle)
	}

	return g, nil
}

// TaskIDs returns all task IDs in sorted order.
func (g *DependencyGraph) TaskIDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// TopoSort returns the task IDs in topological order using an iterative
// Kahn's algorithm. The ready queue is kept sorted so the order is
// deterministic. If the graph contains a cycle, the unresolved node set is
// returned as the cycle evidence inside a CycleError.
func (g *DependencyGraph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.ids))
	for _, id := range g.ids {
		inDegree[id] = len(g.RevAdj[id])
	}

	var queue []string
	for _, id := range g.ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.ids))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, succ := range g.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.ids) {
		var remaining []string
		for _, id := range g.ids {
			if inDegree[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, errors.NewCycleError(remaining)
	}

	return order, nil
}

// detectCycle returns the cycle path if one exists, or nil. Iterative DFS
// with coloring (white unvisited, gray in progress, black done) so large
// graphs cannot exhaust the call stack; the path is reconstructed from
// parent links when a gray node is revisited.
func (g *DependencyGraph) detectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.ids))
	parent := make(map[string]string, len(g.ids))

	type frame struct {
		node string
		next int
	}

	for _, start := range g.ids {
		if color[start] != white {
			continue
		}

		stack := []frame{{node: start}}
		color[start] = gray

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			succs := g.Adj[f.node]

			if f.next >= len(succs) {
				color[f.node] = black
				stack = stack[:len(stack)-1]
				continue
			}

			next := succs[f.next]
			f.next++

			switch color[next] {
			case gray:
				// Reconstruct the cycle from parent links, then append
				// the closing node so the path reads a -> ... -> a.
				cycle := []string{f.node}
				for cur := f.node; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return append(cycle, cycle[0])
			case white:
				parent[next] = f.node
				color[next] = gray
				stack = append(stack, frame{node: next})
			}
		}
	}

	return nil
}
