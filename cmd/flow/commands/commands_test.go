package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/cmd/flow/commands"
	"go.trai.ch/flow/internal/app"
)

type mockApp struct {
	runFunc      func(ctx context.Context, targets []string, opts app.RunOptions) error
	statusFunc   func(ctx context.Context, targets []string) error
	cleanFunc    func(ctx context.Context, targets []string, force bool) error
	validateFunc func() error
	configPath   string
}

func (m *mockApp) Run(ctx context.Context, targets []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targets, opts)
	}
	return nil
}

func (m *mockApp) Status(ctx context.Context, targets []string) error {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, targets)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, targets []string, force bool) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, targets, force)
	}
	return nil
}

func (m *mockApp) Validate() error {
	if m.validateFunc != nil {
		return m.validateFunc()
	}
	return nil
}

func (m *mockApp) SetConfigPath(path string) {
	m.configPath = path
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, targets []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targets
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "out/report.csv", "--force", "--dry-run", "--jobs", "4"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.True(t, capturedOpts.Force)
		assert.True(t, capturedOpts.DryRun)
		assert.Equal(t, 4, capturedOpts.Jobs)
		assert.Equal(t, []string{"out/report.csv"}, capturedTargets)
	})

	t.Run("runs the whole workflow without targets", func(t *testing.T) {
		var capturedTargets []string
		mock := &mockApp{
			runFunc: func(_ context.Context, targets []string, _ app.RunOptions) error {
				capturedTargets = targets
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Empty(t, capturedTargets)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("propagates the config flag", func(t *testing.T) {
		mock := &mockApp{}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "--config", "ci/flow.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "ci/flow.yaml", mock.configPath)
	})
}

func TestCommands_Status(t *testing.T) {
	var capturedTargets []string
	mock := &mockApp{
		statusFunc: func(_ context.Context, targets []string) error {
			capturedTargets = targets
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"status", "out/a", "out/b"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"out/a", "out/b"}, capturedTargets)
}

func TestCommands_Clean(t *testing.T) {
	t.Run("asks for confirmation by default", func(t *testing.T) {
		var capturedForce bool
		mock := &mockApp{
			cleanFunc: func(_ context.Context, _ []string, force bool) error {
				capturedForce = force
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"clean"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, capturedForce)
	})

	t.Run("force skips confirmation", func(t *testing.T) {
		var capturedForce bool
		mock := &mockApp{
			cleanFunc: func(_ context.Context, _ []string, force bool) error {
				capturedForce = force
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"clean", "--force"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, capturedForce)
	})
}

func TestCommands_Check(t *testing.T) {
	called := false
	mock := &mockApp{
		validateFunc: func() error {
			called = true
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"check"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
}

func TestCommands_Check_RejectsArgs(t *testing.T) {
	mock := &mockApp{
		validateFunc: func() error {
			t.Error("validate must not be called with extra arguments")
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"check", "something"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	require.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}

	cli := commands.New(mock)
	cli.SetArgs([]string{"version"})
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)

	require.NoError(t, cli.Execute(context.Background()))
}
