package optimizer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/config"
	"go.trai.ch/dexmgr/internal/adapters/installer"
	"go.trai.ch/dexmgr/internal/adapters/logger"
	"go.trai.ch/dexmgr/internal/adapters/telemetry"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// NodeID is the unique identifier for the dex optimizer Graft node.
const NodeID graft.ID = "adapter.optimizer"

func init() {
	graft.Register(graft.Node[ports.DexOptimizer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, installer.LockNodeID, telemetry.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.DexOptimizer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			lock, err := graft.Dep[*installer.Lock](ctx)
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

			return New(cfg.CompilerCommand, cfg.OatDirName, lock, tracer, log), nil
		},
	})
}
