package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/ledger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/dexmgr/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/dexmgr/internal/adapters/registry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/dexmgr/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/dexmgr/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/dexmgr/internal/engine/dexmanager"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			dexmanager.NodeID,
			registry.NodeID,
			ledger.NodeID,
			watcher.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manager, err := graft.Dep[*dexmanager.Manager](ctx)
	if err != nil {
		return nil, err
	}

	packages, err := graft.Dep[ports.PackageRegistry](ctx)
	if err != nil {
		return nil, err
	}

	usage, err := graft.Dep[ports.UsageLedger](ctx)
	if err != nil {
		return nil, err
	}

	manifestWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(manager, packages, usage, manifestWatcher, tracer, log), nil
}
