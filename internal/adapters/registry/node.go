package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/adapters/config"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// NodeID is the unique identifier for the package registry Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.PackageRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.PackageRegistry, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.ManifestPath), nil
		},
	})
}
