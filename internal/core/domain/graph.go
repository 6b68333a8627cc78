package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph of a task list. Tasks are indexed by the
// resource they create; task A depends on task B iff some entry of A.Depends
// equals B.Creates. Depends entries that match no task are leaf resources:
// pre-existing inputs that contribute to staleness but are not graph nodes.
//
// Construction is a pure function of the task sequence and performs no I/O.
// Declaration order is kept only as a deterministic tie-break, never as a
// correctness dependency. A graph is read-only after Validate and may be
// shared across goroutines.
type Graph struct {
	tasks      map[ResourceID]Task
	order      []ResourceID // declaration order
	declIndex  map[ResourceID]int
	deps       map[ResourceID][]ResourceID // internal edges, deduplicated, declaration order
	dependents map[ResourceID][]ResourceID // reverse internal edges
	leaves     map[ResourceID][]ResourceID // leaf-resource inputs per task
	topo       []ResourceID                // dependencies before dependents; set by Validate
}

// NewGraph builds a graph from tasks in declaration order. It returns
// ErrDuplicateTarget if two tasks declare the same created resource.
func NewGraph(tasks []Task) (*Graph, error) {
	g := &Graph{
		tasks:      make(map[ResourceID]Task, len(tasks)),
		order:      make([]ResourceID, 0, len(tasks)),
		declIndex:  make(map[ResourceID]int, len(tasks)),
		deps:       make(map[ResourceID][]ResourceID),
		dependents: make(map[ResourceID][]ResourceID),
		leaves:     make(map[ResourceID][]ResourceID),
	}

	for _, t := range tasks {
		if _, exists := g.tasks[t.Creates]; exists {
			return nil, zerr.With(ErrDuplicateTarget, "target", t.Creates.String())
		}
		g.declIndex[t.Creates] = len(g.order)
		g.tasks[t.Creates] = t
		g.order = append(g.order, t.Creates)
	}

	for _, id := range g.order {
		seen := make(map[ResourceID]bool)
		for _, dep := range g.tasks[id].Depends {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, internal := g.tasks[dep]; internal {
				g.deps[id] = append(g.deps[id], dep)
				g.dependents[dep] = append(g.dependents[dep], id)
			} else {
				g.leaves[id] = append(g.leaves[id], dep)
			}
		}
	}

	return g, nil
}

// Validate checks the internal dependency relation for cycles and computes
// the topological order used by Walk. The traversal is an iterative
// depth-first search with an explicit stack so that deep graphs cannot
// exhaust the call stack; visit order matches the recursive formulation.
func (g *Graph) Validate() error {
	const (
		unvisited = iota
		onStack
		done
	)

	g.topo = make([]ResourceID, 0, len(g.tasks))
	state := make(map[ResourceID]int, len(g.tasks))

	type frame struct {
		id   ResourceID
		next int
	}
	var stack []frame
	var path []ResourceID

	for _, root := range g.order {
		if state[root] != unvisited {
			continue
		}
		state[root] = onStack
		stack = append(stack[:0], frame{id: root})
		path = append(path[:0], root)

		for len(stack) > 0 {
			fr := &stack[len(stack)-1]
			deps := g.deps[fr.id]
			if fr.next < len(deps) {
				dep := deps[fr.next]
				fr.next++
				switch state[dep] {
				case onStack:
					return cycleError(path, dep)
				case unvisited:
					state[dep] = onStack
					stack = append(stack, frame{id: dep})
					path = append(path, dep)
				}
				continue
			}
			state[fr.id] = done
			g.topo = append(g.topo, fr.id)
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}

	return nil
}

// cycleError reports the full cycle, in dependency order, as error metadata.
func cycleError(path []ResourceID, dep ResourceID) error {
	start := 0
	for i, id := range path {
		if id == dep {
			start = i
			break
		}
	}

	members := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		members = append(members, id.String())
	}
	members = append(members, dep.String())

	return zerr.With(ErrCycleDetected, "cycle", strings.Join(members, " -> "))
}

// Closure restricts the graph to the requested targets and everything they
// transitively depend on. An empty target list returns the receiver. A target
// that is not a created resource yields ErrTaskNotFound.
func (g *Graph) Closure(targets []ResourceID) (*Graph, error) {
	if len(targets) == 0 {
		return g, nil
	}

	keep := make(map[ResourceID]bool)
	var stack []ResourceID
	for _, target := range targets {
		if _, ok := g.tasks[target]; !ok {
			return nil, zerr.With(ErrTaskNotFound, "target", target.String())
		}
		if !keep[target] {
			keep[target] = true
			stack = append(stack, target)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.deps[id] {
			if !keep[dep] {
				keep[dep] = true
				stack = append(stack, dep)
			}
		}
	}

	kept := make([]Task, 0, len(keep))
	for _, id := range g.order {
		if keep[id] {
			kept = append(kept, g.tasks[id])
		}
	}

	// The subset of an acyclic relation stays acyclic, so this cannot fail
	// after the receiver has been validated.
	sub, err := NewGraph(kept)
	if err != nil {
		return nil, err
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Walk yields tasks in topological order, dependencies first. Validate must
// have succeeded.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, id := range g.topo {
			if !yield(g.tasks[id]) {
				return
			}
		}
	}
}

// Tasks yields tasks in declaration order.
func (g *Graph) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, id := range g.order {
			if !yield(g.tasks[id]) {
				return
			}
		}
	}
}

// Task returns the task that creates the given resource.
func (g *Graph) Task(id ResourceID) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// InternalDeps returns the deduplicated internal dependencies of a task.
func (g *Graph) InternalDeps(id ResourceID) []ResourceID {
	return g.deps[id]
}

// LeafDeps returns the deduplicated leaf-resource inputs of a task.
func (g *Graph) LeafDeps(id ResourceID) []ResourceID {
	return g.leaves[id]
}

// Dependents returns the tasks that directly depend on the given task.
func (g *Graph) Dependents(id ResourceID) []ResourceID {
	return g.dependents[id]
}

// DeclIndex returns the declaration position of a task, used as the
// deterministic tie-break between otherwise unordered tasks.
func (g *Graph) DeclIndex(id ResourceID) int {
	return g.declIndex[id]
}

// ResourceIDs returns every distinct resource identity the graph touches:
// created resources of non-pseudo tasks followed by leaf inputs, in
// declaration order.
func (g *Graph) ResourceIDs() []ResourceID {
	seen := make(map[ResourceID]bool)
	var ids []ResourceID
	for _, id := range g.order {
		if !g.tasks[id].IsPseudo() && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range g.order {
		for _, leaf := range g.leaves[id] {
			if !seen[leaf] {
				seen[leaf] = true
				ids = append(ids, leaf)
			}
		}
	}
	return ids
}
