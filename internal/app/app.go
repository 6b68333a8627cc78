// Package app implements the application layer for flow.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/plan"
	"go.trai.ch/flow/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App wires the configuration loader, planner and scheduler into the
// use cases exposed by the CLI.
type App struct {
	loader    ports.ConfigLoader
	planner   *plan.Planner
	scheduler *scheduler.Scheduler
	store     ports.StateStore
	hasher    ports.ContentHasher
	source    ports.ResourceSource
	cleaner   ports.ResourceCleaner
	logger    ports.Logger

	configPath string
	input      io.Reader
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	planner *plan.Planner,
	sched *scheduler.Scheduler,
	store ports.StateStore,
	hasher ports.ContentHasher,
	source ports.ResourceSource,
	cleaner ports.ResourceCleaner,
	logger ports.Logger,
) *App {
	return &App{
		loader:     loader,
		planner:    planner,
		scheduler:  sched,
		store:      store,
		hasher:     hasher,
		source:     source,
		cleaner:    cleaner,
		logger:     logger,
		configPath: "flow.yaml",
		input:      os.Stdin,
	}
}

// SetConfigPath overrides the configuration file location.
func (a *App) SetConfigPath(path string) {
	if path != "" {
		a.configPath = path
	}
}

// SetInput overrides the reader used for interactive confirmation. Used by
// tests.
func (a *App) SetInput(r io.Reader) {
	a.input = r
}

// RunOptions controls a Run invocation.
type RunOptions struct {
	// Force marks every task in the selected closure dirty.
	Force bool
	// DryRun reports the plan without executing or persisting anything.
	DryRun bool
	// Jobs bounds task parallelism; zero means one worker per CPU.
	Jobs int
}

// Validate loads the configuration and checks the graph structure without
// executing anything.
func (a *App) Validate() error {
	if _, err := a.loadGraph(); err != nil {
		return err
	}
	a.logger.Info("configuration is valid")
	return nil
}

// Run executes the stale subset of the selected targets.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	g, pl, err := a.plan(ctx, targets, opts.Force)
	if err != nil {
		return err
	}

	a.logger.Info(pl.Estimate(a.store).String())

	if opts.DryRun {
		for _, task := range scheduler.ExecutionOrder(g, pl) {
			a.logger.Info("would run " + task.Creates.String())
		}
		return nil
	}
	if pl.Empty() {
		return nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	res, err := a.scheduler.Run(ctx, g, pl, jobs)
	if err != nil {
		return zerr.Wrap(err, "scheduling failed")
	}

	a.saveStates(g, res)
	a.report(res)
	return res.Err()
}

// Status reports which tasks are out of sync without running anything.
func (a *App) Status(ctx context.Context, targets []string) error {
	_, pl, err := a.plan(ctx, targets, false)
	if err != nil {
		return err
	}

	for _, task := range pl.Tasks() {
		a.logger.Info("out of sync: " + task.Creates.String())
	}
	a.logger.Info(pl.Estimate(a.store).String())
	return nil
}

// Clean deletes the resources created by the selected closure. Leaf
// resources are never touched; external resources are reported and skipped.
// Cleaning everything also drops the recorded state.
func (a *App) Clean(ctx context.Context, targets []string, force bool) error {
	g, err := a.closure(targets)
	if err != nil {
		return err
	}

	var ids []domain.ResourceID
	for task := range g.Tasks() {
		if task.IsPseudo() {
			continue
		}
		if domain.IsExternal(task.Creates) {
			a.logger.Warn("not cleaning external resource " + task.Creates.String())
			continue
		}
		ids = append(ids, task.Creates)
	}

	if len(ids) == 0 {
		a.logger.Info("nothing to clean")
		return nil
	}

	if !force {
		for _, id := range ids {
			a.logger.Info("would delete " + id.String())
		}
		ok, err := a.confirm("delete the files listed above? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	for _, id := range ids {
		if err := a.cleaner.Remove(id); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to clean resource"), "resource", id.String())
		}
		a.logger.Info("removed " + id.String())
	}

	if len(targets) == 0 {
		if err := a.store.Clear(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) confirm(prompt string) (bool, error) {
	fmt.Fprint(os.Stdout, prompt)
	line, err := bufio.NewReader(a.input).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, zerr.Wrap(err, "failed to read confirmation")
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (a *App) loadGraph() (*domain.Graph, error) {
	tasks, err := a.loader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	g, err := domain.NewGraph(tasks)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (a *App) closure(targets []string) (*domain.Graph, error) {
	g, err := a.loadGraph()
	if err != nil {
		return nil, err
	}
	ids := make([]domain.ResourceID, len(targets))
	for i, t := range targets {
		ids[i] = domain.NewResourceID(t)
	}
	return g.Closure(ids)
}

func (a *App) plan(ctx context.Context, targets []string, force bool) (*domain.Graph, *plan.Plan, error) {
	g, err := a.closure(targets)
	if err != nil {
		return nil, nil, err
	}
	pl, err := a.planner.Plan(ctx, g, force)
	if err != nil {
		return nil, nil, err
	}
	return g, pl, nil
}

// saveStates records the content state of every resource the run touched, so
// the next invocation can detect content changes that left timestamps
// intact. Created resources of failed tasks have their state cleared instead
// of recorded.
func (a *App) saveStates(g *domain.Graph, res *scheduler.RunResult) {
	failed := make(map[domain.ResourceID]bool)
	for _, tr := range res.Results() {
		if tr.Status == scheduler.StatusFailed {
			failed[tr.Task] = true
		}
	}

	for _, id := range g.ResourceIDs() {
		if failed[id] {
			if err := a.store.PutResourceState(id.String(), ""); err != nil {
				a.logger.Warn("failed to clear resource state: " + err.Error())
			}
			continue
		}
		resource := a.source.Resolve(id)
		if !resource.Exists() {
			continue
		}
		state, err := a.hasher.ResourceState(resource)
		if err != nil {
			a.logger.Warn("failed to hash resource: " + err.Error())
			continue
		}
		if err := a.store.PutResourceState(id.String(), state); err != nil {
			a.logger.Warn("failed to record resource state: " + err.Error())
		}
	}
}

func (a *App) report(res *scheduler.RunResult) {
	for _, tr := range res.Results() {
		if tr.Status == scheduler.StatusUpToDate {
			continue
		}
		a.logger.Info(fmt.Sprintf("%-9s %s", tr.Status, tr.Task.String()))
	}
}
