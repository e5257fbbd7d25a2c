package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

const (
	// LoaderNodeID is the unique identifier for the config loader Graft node.
	LoaderNodeID graft.ID = "adapter.config_loader"
	// NodeID is the unique identifier for the loaded configuration Graft node.
	NodeID graft.ID = "adapter.config"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigLoader, error) {
			return NewLoader(NewOSFS()), nil
		},
	})

	graft.Register(graft.Node[*domain.Config]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoaderNodeID},
		Run: func(ctx context.Context) (*domain.Config, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return loader.Load(PathFromContext(ctx))
		},
	})
}
