package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"go.trai.ch/flow/internal/adapters/telemetry"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports/mocks"
	"go.trai.ch/flow/internal/engine/plan"
	"go.trai.ch/flow/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func rid(s string) domain.ResourceID {
	return domain.NewResourceID(s)
}

type fakeResource struct {
	id     domain.ResourceID
	exists bool
	fp     domain.Fingerprint
}

func (f fakeResource) ID() domain.ResourceID           { return f.id }
func (f fakeResource) Exists() bool                    { return f.exists }
func (f fakeResource) Fingerprint() domain.Fingerprint { return f.fp }

// planFor probes a world where the listed identities exist fresh and
// everything else is missing, so exactly the tasks creating missing resources
// (and their dependents) are dirty.
func planFor(t *testing.T, ctrl *gomock.Controller, g *domain.Graph, existing ...string) *plan.Plan {
	t.Helper()
	fresh := make(map[domain.ResourceID]bool, len(existing))
	for _, id := range existing {
		fresh[rid(id)] = true
	}
	source := mocks.NewMockResourceSource(ctrl)
	source.EXPECT().Resolve(gomock.Any()).DoAndReturn(func(id domain.ResourceID) domain.Resource {
		if fresh[id] {
			return fakeResource{id: id, exists: true, fp: domain.TimeFingerprint(time.Unix(1000, 0))}
		}
		return fakeResource{id: id}
	}).AnyTimes()

	pl, err := plan.NewPlanner(source, nil, nil).Plan(context.Background(), g, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pl
}

func mustGraph(t *testing.T, tasks []domain.Task) *domain.Graph {
	t.Helper()
	g, err := domain.NewGraph(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	return g
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func statusOf(r *scheduler.RunResult, id string) scheduler.TaskStatus {
	for _, res := range r.Results() {
		if res.Task == rid(id) {
			return res.Status
		}
	}
	return ""
}

func TestScheduler_Run_Diamond_FailureContainment(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// a depends on b and c; b and c depend on d. b fails: a must be
		// skipped, c and d must complete.
		g := mustGraph(t, []domain.Task{
			{Creates: rid("a"), Depends: []domain.ResourceID{rid("b"), rid("c")}, Commands: []string{"make a"}},
			{Creates: rid("b"), Depends: []domain.ResourceID{rid("d")}, Commands: []string{"make b"}},
			{Creates: rid("c"), Depends: []domain.ResourceID{rid("d")}, Commands: []string{"make c"}},
			{Creates: rid("d"), Commands: []string{"make d"}},
		})
		pl := planFor(t, ctrl, g)

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, command string, _, _ io.Writer) error {
				switch command {
				case "make d", "make c":
					return nil
				case "make b":
					return errors.New("compiler exploded")
				case "make a":
					t.Error("a depends on the failed b and must not run")
					return nil
				default:
					t.Errorf("unexpected command: %s", command)
					return nil
				}
			}).AnyTimes()

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(context.Background(), g, pl, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := statusOf(res, "d"); got != scheduler.StatusSucceeded {
			t.Errorf("d: expected Succeeded, got %s", got)
		}
		if got := statusOf(res, "c"); got != scheduler.StatusSucceeded {
			t.Errorf("c: expected Succeeded, got %s", got)
		}
		if got := statusOf(res, "b"); got != scheduler.StatusFailed {
			t.Errorf("b: expected Failed, got %s", got)
		}
		if got := statusOf(res, "a"); got != scheduler.StatusSkipped {
			t.Errorf("a: expected Skipped, got %s", got)
		}
		if res.Worst() != scheduler.StatusFailed {
			t.Errorf("expected worst status Failed, got %s", res.Worst())
		}
		if !errors.Is(res.Err(), domain.ErrRunFailed) {
			t.Errorf("expected ErrRunFailed, got %v", res.Err())
		}
	})
}

func TestScheduler_Run_SequentialOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// No dependency relation between the three tasks; with parallelism 1
		// they run strictly in declaration order.
		g := mustGraph(t, []domain.Task{
			{Creates: rid("z"), Commands: []string{"make z"}},
			{Creates: rid("m"), Commands: []string{"make m"}},
			{Creates: rid("a"), Commands: []string{"make a"}},
		})
		pl := planFor(t, ctrl, g)

		var mu sync.Mutex
		var order []string
		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, command string, _, _ io.Writer) error {
				mu.Lock()
				order = append(order, command)
				mu.Unlock()
				return nil
			}).Times(3)

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(context.Background(), g, pl, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Err() != nil {
			t.Fatalf("unexpected run error: %v", res.Err())
		}

		want := []string{"make z", "make m", "make a"}
		if len(order) != len(want) {
			t.Fatalf("expected %d commands, got %v", len(want), order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})
}

func TestExecutionOrder_MatchesSequentialRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// The dependency-first listing of the plan ([b a c]) differs from the
		// declaration-order tie-break a run uses; the listing shown to the
		// user must follow the latter.
		g := mustGraph(t, []domain.Task{
			{Creates: rid("a"), Depends: []domain.ResourceID{rid("b")}, Commands: []string{"make a"}},
			{Creates: rid("c"), Commands: []string{"make c"}},
			{Creates: rid("b"), Commands: []string{"make b"}},
		})
		pl := planFor(t, ctrl, g)

		var listed []string
		for _, task := range scheduler.ExecutionOrder(g, pl) {
			listed = append(listed, task.Creates.String())
		}

		var mu sync.Mutex
		var started []string
		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, command string, _, _ io.Writer) error {
				mu.Lock()
				started = append(started, command[len("make "):])
				mu.Unlock()
				return nil
			}).Times(3)

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		if _, err := s.Run(context.Background(), g, pl, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"c", "b", "a"}
		if len(listed) != len(want) || len(started) != len(want) {
			t.Fatalf("expected %d tasks, listed %v, started %v", len(want), listed, started)
		}
		for i := range want {
			if listed[i] != want[i] {
				t.Fatalf("expected listing %v, got %v", want, listed)
			}
			if started[i] != want[i] {
				t.Fatalf("expected start order %v, got %v", want, started)
			}
		}
	})
}

func TestScheduler_Run_Pseudotask(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := mustGraph(t, []domain.Task{
			{Creates: rid("all"), Depends: []domain.ResourceID{rid("a")}},
			{Creates: rid("a"), Commands: []string{"make a"}},
		})
		pl := planFor(t, ctrl, g)

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "make a", gomock.Any(), gomock.Any()).Return(nil)

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(context.Background(), g, pl, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The pseudotask resolves without spawning a command.
		if got := statusOf(res, "all"); got != scheduler.StatusSucceeded {
			t.Errorf("all: expected Succeeded, got %s", got)
		}
		if got := statusOf(res, "a"); got != scheduler.StatusSucceeded {
			t.Errorf("a: expected Succeeded, got %s", got)
		}
	})
}

func TestScheduler_Run_UpToDateUntouched(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := mustGraph(t, []domain.Task{
			{Creates: rid("fresh"), Commands: []string{"make fresh"}},
			{Creates: rid("stale"), Commands: []string{"make stale"}},
		})
		pl := planFor(t, ctrl, g, "fresh")

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "make stale", gomock.Any(), gomock.Any()).Return(nil)

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(context.Background(), g, pl, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := statusOf(res, "fresh"); got != scheduler.StatusUpToDate {
			t.Errorf("fresh: expected UpToDate, got %s", got)
		}
		if got := statusOf(res, "stale"); got != scheduler.StatusSucceeded {
			t.Errorf("stale: expected Succeeded, got %s", got)
		}
		if res.Worst() != scheduler.StatusSucceeded {
			t.Errorf("expected worst status Succeeded, got %s", res.Worst())
		}
	})
}

func TestScheduler_Run_StopsAtFirstFailingCommand(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := mustGraph(t, []domain.Task{
			{Creates: rid("a"), Commands: []string{"first", "second"}},
		})
		pl := planFor(t, ctrl, g)

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "first", gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(context.Background(), g, pl, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := statusOf(res, "a"); got != scheduler.StatusFailed {
			t.Errorf("a: expected Failed, got %s", got)
		}
	})
}

func TestScheduler_Run_RecordsDurations(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := mustGraph(t, []domain.Task{
			{Creates: rid("a"), Commands: []string{"make a"}},
		})
		pl := planFor(t, ctrl, g)

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "make a", gomock.Any(), gomock.Any()).Return(nil)

		store := mocks.NewMockStateStore(ctrl)
		store.EXPECT().PutTaskDuration("a", gomock.Any()).Return(nil)

		s := scheduler.NewScheduler(runner, store, telemetry.NewNoOp(), quietLogger(ctrl))
		if _, err := s.Run(context.Background(), g, pl, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestScheduler_Run_CancelledContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := mustGraph(t, []domain.Task{
			{Creates: rid("a"), Commands: []string{"make a"}},
			{Creates: rid("b"), Depends: []domain.ResourceID{rid("a")}, Commands: []string{"make b"}},
		})
		pl := planFor(t, ctrl, g)

		ctx, cancel := context.WithCancel(context.Background())

		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "make a", gomock.Any(), gomock.Any()).
			DoAndReturn(func(runCtx context.Context, _ string, _, _ io.Writer) error {
				cancel()
				return runCtx.Err()
			})

		s := scheduler.NewScheduler(runner, nil, telemetry.NewNoOp(), quietLogger(ctrl))
		res, err := s.Run(ctx, g, pl, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := statusOf(res, "a"); got != scheduler.StatusFailed {
			t.Errorf("a: expected Failed, got %s", got)
		}
		// b never started: the cancelled context stops dispatch.
		if got := statusOf(res, "b"); got != scheduler.StatusSkipped {
			t.Errorf("b: expected Skipped, got %s", got)
		}
	})
}
