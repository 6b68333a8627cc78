// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// CommandRunner executes a single rendered shell command.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command and blocks until it exits. Command output is
	// streamed to stdout and stderr when they are non-nil. A non-zero exit
	// status is reported as an error carrying the exit code.
	Run(ctx context.Context, command string, stdout, stderr io.Writer) error
}
