package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/core/ports"
)

const (
	// SourceNodeID is the unique identifier for the resource source node.
	SourceNodeID graft.ID = "adapter.fs.source"
	// CleanerNodeID is the unique identifier for the resource cleaner node.
	CleanerNodeID graft.ID = "adapter.fs.cleaner"
	// HasherNodeID is the unique identifier for the content hasher node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.ResourceSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResourceSource, error) {
			// No external prober is wired by default; declaring an
			// external resource without one reports it as missing.
			return NewSource(".", nil), nil
		},
	})

	graft.Register(graft.Node[ports.ResourceCleaner]{
		ID:        CleanerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResourceCleaner, error) {
			return NewSource(".", nil), nil
		},
	})

	graft.Register(graft.Node[ports.ContentHasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ContentHasher, error) {
			return NewHasher(), nil
		},
	})
}
