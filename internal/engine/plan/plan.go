// Package plan implements the staleness evaluator: given a validated task
// graph it computes the ordered subset of tasks that must execute.
package plan

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Planner evaluates resource freshness against a task graph.
//
// A task is dirty when its created resource is missing, when any dependency
// resource is fresher than the created resource, when its recorded content
// state no longer matches the resource, or when any internal dependency task
// is itself dirty. The last rule is unconditional propagation: rebuilding an
// ancestor always forces rebuilding every descendant, because the ancestor's
// output content may change.
type Planner struct {
	source ports.ResourceSource
	hasher ports.ContentHasher
	store  ports.StateStore
}

// NewPlanner creates a Planner. hasher and store enable content-state change
// detection on created resources; both may be nil to plan on fingerprints
// alone.
func NewPlanner(source ports.ResourceSource, hasher ports.ContentHasher, store ports.StateStore) *Planner {
	return &Planner{
		source: source,
		hasher: hasher,
		store:  store,
	}
}

type probe struct {
	exists  bool
	fp      domain.Fingerprint
	state   string
	stateOK bool
}

// Plan walks the graph in topological order and returns the ordered dirty
// set. With force set, every task in the graph is dirty.
func (p *Planner) Plan(ctx context.Context, g *domain.Graph, force bool) (*Plan, error) {
	probes, err := p.probeAll(ctx, g)
	if err != nil {
		return nil, err
	}

	dirty := make(map[domain.ResourceID]bool)
	var ordered []domain.Task
	for task := range g.Walk() {
		if force || p.isDirty(g, task, probes, dirty) {
			dirty[task.Creates] = true
			ordered = append(ordered, task)
		}
	}

	return &Plan{tasks: ordered, dirty: dirty}, nil
}

// probeAll observes every resource the graph touches. Probing is pure
// observation, so resources are checked concurrently.
func (p *Planner) probeAll(ctx context.Context, g *domain.Graph) (map[domain.ResourceID]probe, error) {
	ids := g.ResourceIDs()
	results := make([]probe, len(ids))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, id := range ids {
		eg.Go(func() error {
			res := p.source.Resolve(id)
			pr := probe{exists: res.Exists(), fp: res.Fingerprint()}
			if p.needsStateCheck(id) && pr.exists {
				if state, err := p.hasher.ResourceState(res); err == nil {
					pr.state = state
					pr.stateOK = true
				}
			}
			results[i] = pr
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	probes := make(map[domain.ResourceID]probe, len(ids))
	for i, id := range ids {
		probes[id] = results[i]
	}
	return probes, nil
}

// needsStateCheck reports whether a content state should be computed for the
// resource: only when a previous run recorded one.
func (p *Planner) needsStateCheck(id domain.ResourceID) bool {
	if p.hasher == nil || p.store == nil {
		return false
	}
	stored, ok := p.store.ResourceState(id.String())
	return ok && stored != ""
}

func (p *Planner) isDirty(g *domain.Graph, task domain.Task, probes map[domain.ResourceID]probe, dirty map[domain.ResourceID]bool) bool {
	// Propagation from dirty internal dependencies applies to every task,
	// pseudotasks included.
	for _, dep := range g.InternalDeps(task.Creates) {
		if dirty[dep] {
			return true
		}
	}

	// A pseudotask owns no resource; it is dirty exactly when a dependency
	// is, which the propagation rule above already decided.
	if task.IsPseudo() {
		return false
	}

	pr := probes[task.Creates]
	if !pr.exists {
		return true
	}

	if p.stateChanged(task.Creates, pr) {
		return true
	}

	for _, dep := range task.Depends {
		if dt, internal := g.Task(dep); internal && dt.IsPseudo() {
			continue
		}
		if pr.fp.OlderThan(probes[dep].fp) {
			return true
		}
	}

	return false
}

// stateChanged reports whether the stored content state of a created resource
// no longer matches the resource. An unreadable resource counts as changed.
func (p *Planner) stateChanged(id domain.ResourceID, pr probe) bool {
	if p.store == nil {
		return false
	}
	stored, ok := p.store.ResourceState(id.String())
	if !ok || stored == "" {
		return false
	}
	return !pr.stateOK || stored != pr.state
}

// Plan is the ordered dirty set of a single invocation.
type Plan struct {
	tasks []domain.Task
	dirty map[domain.ResourceID]bool
}

// Tasks returns the dirty tasks in execution order, dependencies first.
func (p *Plan) Tasks() []domain.Task {
	return p.tasks
}

// Dirty reports whether the task creating the given resource must execute.
func (p *Plan) Dirty(id domain.ResourceID) bool {
	return p.dirty[id]
}

// Empty reports whether nothing is out of sync.
func (p *Plan) Empty() bool {
	return len(p.tasks) == 0
}

// Estimate summarizes the expected duration of the plan from durations
// recorded by previous runs.
func (p *Plan) Estimate(store ports.StateStore) Estimate {
	var e Estimate
	for _, t := range p.tasks {
		if t.IsPseudo() {
			continue
		}
		e.Tasks++
		if store == nil {
			e.Unknown++
			continue
		}
		if d, ok := store.TaskDuration(t.Creates.String()); ok {
			e.Known += d
		} else {
			e.Unknown++
		}
	}
	return e
}

// Estimate is a duration summary for a plan.
type Estimate struct {
	// Tasks is the number of dirty tasks that will run commands.
	Tasks int
	// Unknown is how many of them have no recorded duration.
	Unknown int
	// Known is the summed duration of the rest.
	Known time.Duration
}

func (e Estimate) String() string {
	if e.Tasks == 0 {
		return "no tasks are out of sync"
	}
	msg := fmt.Sprintf("%d task(s) to run", e.Tasks)
	switch {
	case e.Unknown == e.Tasks:
		msg += ", which will take an indeterminate amount of time"
	case e.Unknown > 0:
		msg += fmt.Sprintf(", which will take at least %s (%d with unknown duration)",
			formatDuration(e.Known), e.Unknown)
	default:
		msg += fmt.Sprintf(", which will take approximately %s", formatDuration(e.Known))
	}
	return msg
}

// formatDuration humanizes a duration with coarser units as it grows.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	switch {
	case d < 10*time.Minute:
		return fmt.Sprintf("%.2f s", sec)
	case d < 2*time.Hour:
		return fmt.Sprintf("%.2f m", sec/60)
	case d < 48*time.Hour:
		return fmt.Sprintf("%.2f h", sec/3600)
	default:
		return fmt.Sprintf("%.2f d", sec/86400)
	}
}
