package installer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/config"
	"go.trai.ch/dexmgr/internal/adapters/logger"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the installer Graft node.
	NodeID graft.ID = "adapter.installer"
	// LockNodeID is the unique identifier for the shared install lock Graft node.
	LockNodeID graft.ID = "adapter.install_lock"
)

func init() {
	graft.Register(graft.Node[*Lock]{
		ID:        LockNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Lock, error) {
			return NewLock(), nil
		},
	})

	graft.Register(graft.Node[ports.Installer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Installer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg.DataRoot, cfg.ExpandRoot, cfg.OatDirName, log), nil
		},
	})
}
