package dexmanager

import (
	"context"
	"log/slog"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/installer" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/ledger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/optimizer" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// NodeID is the unique identifier for the dex manager Graft node.
const NodeID graft.ID = "engine.dexmanager"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			ledger.NodeID,
			registry.NodeID,
			installer.NodeID,
			installer.LockNodeID,
			optimizer.NodeID,
			telemetry.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			usage, err := graft.Dep[ports.UsageLedger](ctx)
			if err != nil {
				return nil, err
			}

			packages, err := graft.Dep[ports.PackageRegistry](ctx)
			if err != nil {
				return nil, err
			}

			inst, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}

			lock, err := graft.Dep[*installer.Lock](ctx)
			if err != nil {
				return nil, err
			}

			opt, err := graft.Dep[ports.DexOptimizer](ctx)
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

			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			return NewManager(usage, packages, inst, opt, tracer, log, lock).
				WithISAs(cfg.ISAs).
				WithFrameworkPredicate(cfg.FrameworkPredicate()).
				WithSymlinkDiagnostics(cfg.LogLevel <= slog.LevelDebug), nil
		},
	})
}
