package ports

import (
	"context"
	"io"
)

// Telemetry records per-task progress for display.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts recording a unit of work under the given name.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the standard output stream.
	Stdout() io.Writer
	// Stderr returns a writer capturing the error output stream.
	Stderr() io.Writer
	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
	// Cached marks the vertex as up to date without having run.
	Cached()
}
