package plan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/fs"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/flow/internal/adapters/state" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/flow/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.SourceNodeID,
			fs.HasherNodeID,
			state.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			source, err := graft.Dep[ports.ResourceSource](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.ContentHasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewPlanner(source, hasher, store), nil
		},
	})
}
