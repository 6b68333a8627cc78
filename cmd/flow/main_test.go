package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/flow/internal/adapters/telemetry"
	"go.trai.ch/flow/internal/app"
	"go.trai.ch/flow/internal/core/ports/mocks"
	"go.trai.ch/flow/internal/engine/plan"
	"go.trai.ch/flow/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func newTestComponents(ctrl *gomock.Controller) (*app.Components, *mocks.MockConfigLoader) {
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	source := mocks.NewMockResourceSource(ctrl)
	hasher := mocks.NewMockContentHasher(ctrl)
	store := mocks.NewMockStateStore(ctrl)
	runner := mocks.NewMockCommandRunner(ctrl)
	cleaner := mocks.NewMockResourceCleaner(ctrl)

	planner := plan.NewPlanner(source, hasher, store)
	sched := scheduler.NewScheduler(runner, store, telemetry.NewNoOp(), logger)
	application := app.New(loader, planner, sched, store, hasher, source, cleaner, logger)

	return &app.Components{App: application, Logger: logger}, loader
}

func TestRun_Version(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, _ := newTestComponents(ctrl)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, loader := newTestComponents(ctrl)
	loader.EXPECT().Load("flow.yaml").Return(nil, errors.New("load failed"))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"check"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}
