package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/state"  //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/plan"
	"go.trai.ch/flow/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			plan.NodeID,
			scheduler.NodeID,
			state.NodeID,
			fs.SourceNodeID,
			fs.CleanerNodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	planner, err := graft.Dep[*plan.Planner](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.ContentHasher](ctx)
	if err != nil {
		return nil, err
	}
	source, err := graft.Dep[ports.ResourceSource](ctx)
	if err != nil {
		return nil, err
	}
	cleaner, err := graft.Dep[ports.ResourceCleaner](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, planner, sched, store, hasher, source, cleaner, log), nil
}

// Components bundles the resolved application with the adapters the CLI
// entry point needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
}
