package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateTarget is returned when two tasks declare the same
	// created resource.
	ErrDuplicateTarget = zerr.New("duplicate target")

	// ErrCycleDetected is returned when the internal dependency relation
	// contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested target does not match
	// any task's created resource.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrRunFailed is returned when at least one task of a run failed or
	// was skipped because a dependency failed.
	ErrRunFailed = zerr.New("run failed")
)
