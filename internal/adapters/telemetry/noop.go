package telemetry

import (
	"context"
	"io"

	"go.trai.ch/flow/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a new NoOp recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that discards everything.
func (n *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer  { return io.Discard }
func (noopVertex) Stderr() io.Writer  { return io.Discard }
func (noopVertex) Complete(err error) {}
func (noopVertex) Cached()            {}
