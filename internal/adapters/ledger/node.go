package ledger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/config"
	"go.trai.ch/dexmgr/internal/adapters/logger"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// NodeID is the unique identifier for the usage ledger Graft node.
const NodeID graft.ID = "adapter.ledger"

func init() {
	graft.Register(graft.Node[ports.UsageLedger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.UsageLedger, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg.LedgerPath, cfg.WriteDelay, log), nil
		},
	})
}
