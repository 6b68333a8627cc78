// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/plan"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusSucceeded indicates the task finished successfully.
	StatusSucceeded TaskStatus = "Succeeded"
	// StatusFailed indicates a command of the task exited non-zero.
	StatusFailed TaskStatus = "Failed"
	// StatusSkipped indicates the task was abandoned because a transitive
	// dependency failed or the run was interrupted before it started.
	StatusSkipped TaskStatus = "Skipped"
	// StatusUpToDate indicates the task was not in the dirty set.
	StatusUpToDate TaskStatus = "UpToDate"
)

// severity orders statuses for the worst-status aggregation.
func severity(s TaskStatus) int {
	switch s {
	case StatusFailed:
		return 3
	case StatusSkipped:
		return 2
	case StatusSucceeded:
		return 1
	default:
		return 0
	}
}

// TaskResult is the final outcome of one task in a run.
type TaskResult struct {
	Task     domain.ResourceID
	Status   TaskStatus
	Err      error
	Duration time.Duration
}

// RunResult enumerates the outcome of every task in the selected closure, in
// declaration order.
type RunResult struct {
	results []TaskResult
}

// Results returns the per-task outcomes in declaration order.
func (r *RunResult) Results() []TaskResult {
	return r.results
}

// Worst returns the most severe status among all tasks.
func (r *RunResult) Worst() TaskStatus {
	worst := StatusUpToDate
	for _, res := range r.results {
		if severity(res.Status) > severity(worst) {
			worst = res.Status
		}
	}
	return worst
}

// Err returns a run-level error when any task failed or was skipped, nil
// otherwise.
func (r *RunResult) Err() error {
	var failed, skipped int
	for _, res := range r.results {
		switch res.Status {
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	if failed == 0 && skipped == 0 {
		return nil
	}
	return zerr.With(zerr.With(domain.ErrRunFailed, "failed", failed), "skipped", skipped)
}

// Scheduler walks a dirty set in dependency order, runs each task's commands
// through the injected runner and contains failures to the dependency
// closure of the failing task.
//
// The graph and its tasks are read-only during a run; the per-task status
// map is the only shared mutable state and is guarded by a mutex.
type Scheduler struct {
	runner    ports.CommandRunner
	store     ports.StateStore
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.ResourceID]TaskStatus
}

// NewScheduler creates a Scheduler with the given collaborators. store may be
// nil to skip duration recording.
func NewScheduler(runner ports.CommandRunner, store ports.StateStore, telemetry ports.Telemetry, logger ports.Logger) *Scheduler {
	return &Scheduler{
		runner:    runner,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
	}
}

func (s *Scheduler) setStatus(id domain.ResourceID, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[id] = status
}

func (s *Scheduler) getStatus(id domain.ResourceID) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[id]
}

// Run executes the dirty subset of the graph with the given parallelism.
// Tasks with no dependency relationship may run concurrently; a parallelism
// of one gives the strictly sequential baseline. The returned RunResult
// covers every task in the graph; the error return is reserved for
// infrastructure failures, not command failures.
func (s *Scheduler) Run(ctx context.Context, g *domain.Graph, pl *plan.Plan, parallelism int) (*RunResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	s.mu.Lock()
	s.status = make(map[domain.ResourceID]TaskStatus, g.TaskCount())
	for task := range g.Tasks() {
		if pl.Dirty(task.Creates) {
			s.status[task.Creates] = StatusPending
		} else {
			s.status[task.Creates] = StatusUpToDate
		}
	}
	s.mu.Unlock()

	state := s.newRunState(ctx, g, pl, parallelism)

	// Surface clean tasks on the telemetry stream so a run renders the
	// whole closure, not just what executes.
	for task := range g.Tasks() {
		if !pl.Dirty(task.Creates) && !task.IsPseudo() {
			_, vtx := s.telemetry.Record(ctx, task.Creates.String())
			vtx.Cached()
		}
	}

	for !state.isDone() {
		state.schedule()
		if state.active == 0 {
			// Nothing running and nothing dispatchable: either done or
			// the context was cancelled with tasks still pending.
			break
		}
		state.handleResult(<-state.resultsCh)
	}
	state.skipRemaining()

	return state.buildResult(), nil
}

// ExecutionOrder returns the dirty tasks in the order a sequential run would
// start them: dependencies first, declaration order breaking ties. Dry runs
// list the plan through this so the listing matches what Run would do.
func ExecutionOrder(g *domain.Graph, pl *plan.Plan) []domain.Task {
	dirty := pl.Tasks()
	tasks := make(map[domain.ResourceID]domain.Task, len(dirty))
	inDegree := make(map[domain.ResourceID]int, len(dirty))
	var ready []domain.ResourceID
	for _, task := range dirty {
		tasks[task.Creates] = task
		degree := 0
		for _, dep := range g.InternalDeps(task.Creates) {
			if pl.Dirty(dep) {
				degree++
			}
		}
		inDegree[task.Creates] = degree
		if degree == 0 {
			ready = append(ready, task.Creates)
		}
	}

	ordered := make([]domain.Task, 0, len(dirty))
	for len(ready) > 0 {
		slices.SortFunc(ready, func(a, b domain.ResourceID) int {
			return g.DeclIndex(a) - g.DeclIndex(b)
		})
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, tasks[id])
		for _, dep := range g.Dependents(id) {
			if _, ok := tasks[dep]; !ok {
				continue
			}
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	return ordered
}

type result struct {
	task     domain.ResourceID
	err      error
	duration time.Duration
}

type runState struct {
	s           *Scheduler
	g           *domain.Graph
	ctx         context.Context
	parallelism int

	tasks     map[domain.ResourceID]domain.Task // dirty tasks only
	inDegree  map[domain.ResourceID]int         // unresolved dirty dependencies
	ready     []domain.ResourceID
	active    int
	remaining int
	resultsCh chan result

	errs      map[domain.ResourceID]error
	durations map[domain.ResourceID]time.Duration
}

func (s *Scheduler) newRunState(ctx context.Context, g *domain.Graph, pl *plan.Plan, parallelism int) *runState {
	dirty := pl.Tasks()
	state := &runState{
		s:           s,
		g:           g,
		ctx:         ctx,
		parallelism: parallelism,
		tasks:       make(map[domain.ResourceID]domain.Task, len(dirty)),
		inDegree:    make(map[domain.ResourceID]int, len(dirty)),
		remaining:   len(dirty),
		resultsCh:   make(chan result, parallelism),
		errs:        make(map[domain.ResourceID]error),
		durations:   make(map[domain.ResourceID]time.Duration),
	}

	for _, task := range dirty {
		state.tasks[task.Creates] = task
		degree := 0
		for _, dep := range g.InternalDeps(task.Creates) {
			if pl.Dirty(dep) {
				degree++
			}
		}
		state.inDegree[task.Creates] = degree
		if degree == 0 {
			state.ready = append(state.ready, task.Creates)
		}
	}
	state.sortReady()

	return state
}

func (state *runState) isDone() bool {
	return state.remaining == 0
}

// sortReady keeps the ready queue in declaration order, the deterministic
// tie-break between tasks with no dependency relationship.
func (state *runState) sortReady() {
	slices.SortFunc(state.ready, func(a, b domain.ResourceID) int {
		return state.g.DeclIndex(a) - state.g.DeclIndex(b)
	})
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		id := state.ready[0]
		state.ready = state.ready[1:]

		// May have been skipped while queued.
		if state.s.getStatus(id) != StatusPending {
			continue
		}

		task := state.tasks[id]
		if task.IsPseudo() {
			// Executing a pseudotask is a no-op; it resolves as soon as
			// its dependencies have succeeded.
			state.s.setStatus(id, StatusSucceeded)
			state.remaining--
			state.cascade(id)
			continue
		}

		state.active++
		state.s.setStatus(id, StatusRunning)
		go func(t domain.Task) {
			dur, err := state.s.executeTask(state.ctx, t)
			state.resultsCh <- result{task: t.Creates, err: err, duration: dur}
		}(task)
	}
}

// executeTask runs the task's commands in sequence, stopping at the first
// failure.
func (s *Scheduler) executeTask(ctx context.Context, task domain.Task) (time.Duration, error) {
	vctx, vtx := s.telemetry.Record(ctx, task.Creates.String())
	start := time.Now()

	for _, command := range task.Commands {
		s.logger.Info(command)
		if err := s.runner.Run(vctx, command, vtx.Stdout(), vtx.Stderr()); err != nil {
			wrapped := zerr.With(zerr.Wrap(err, "command failed"), "task", task.Creates.String())
			vtx.Complete(wrapped)
			return time.Since(start), wrapped
		}
	}

	vtx.Complete(nil)
	return time.Since(start), nil
}

func (state *runState) handleResult(res result) {
	state.active--
	state.remaining--
	state.durations[res.task] = res.duration

	if res.err != nil {
		state.s.setStatus(res.task, StatusFailed)
		state.errs[res.task] = res.err
		state.s.logger.Error(res.err)
		state.skipDependents(res.task)
		return
	}

	state.s.setStatus(res.task, StatusSucceeded)
	if state.s.store != nil {
		if err := state.s.store.PutTaskDuration(res.task.String(), res.duration); err != nil {
			state.s.logger.Warn("failed to record task duration: " + err.Error())
		}
	}
	state.cascade(res.task)
}

// cascade releases dirty dependents whose dependencies have all resolved.
func (state *runState) cascade(id domain.ResourceID) {
	released := false
	for _, dep := range state.g.Dependents(id) {
		if _, dirty := state.tasks[dep]; !dirty {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
			released = true
		}
	}
	if released {
		state.sortReady()
	}
}

// skipDependents marks every dirty task transitively depending on the failed
// task as Skipped. Tasks with no path to the failure are unaffected.
func (state *runState) skipDependents(failed domain.ResourceID) {
	stack := []domain.ResourceID{failed}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range state.g.Dependents(id) {
			if _, dirty := state.tasks[dep]; !dirty {
				continue
			}
			if state.s.getStatus(dep) != StatusPending {
				continue
			}
			state.s.setStatus(dep, StatusSkipped)
			state.remaining--
			stack = append(stack, dep)
		}
	}
}

// skipRemaining marks dirty tasks never started (context cancelled) as
// Skipped.
func (state *runState) skipRemaining() {
	for id := range state.tasks {
		if state.s.getStatus(id) == StatusPending {
			state.s.setStatus(id, StatusSkipped)
			state.remaining--
		}
	}
}

func (state *runState) buildResult() *RunResult {
	r := &RunResult{results: make([]TaskResult, 0, state.g.TaskCount())}
	for task := range state.g.Tasks() {
		id := task.Creates
		r.results = append(r.results, TaskResult{
			Task:     id,
			Status:   state.s.getStatus(id),
			Err:      state.errs[id],
			Duration: state.durations[id],
		})
	}
	return r
}
