package ports

import "time"

// StateStore persists per-resource content states and per-task durations
// across invocations. States power change detection beyond timestamps;
// durations power dry-run estimates.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// ResourceState returns the stored content state for a resource.
	// The second return is false when no state has been recorded.
	ResourceState(id string) (string, bool)

	// PutResourceState records the content state for a resource. An empty
	// state clears the record, forcing the next comparison to miss.
	PutResourceState(id, state string) error

	// TaskDuration returns the last recorded wall-clock duration of a task.
	TaskDuration(name string) (time.Duration, bool)

	// PutTaskDuration records the wall-clock duration of a task.
	PutTaskDuration(name string, d time.Duration) error

	// Clear drops all recorded state.
	Clear() error
}
