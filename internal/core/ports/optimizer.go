package ports

import (
	"context"

	"go.trai.ch/dexmgr/internal/core/domain"
)

// DexOptimizer compiles secondary dex files.
//
//go:generate mockgen -source=optimizer.go -destination=mocks/mock_optimizer.go -package=mocks
type DexOptimizer interface {
	// CompileSecondaryDex compiles one dex file for every instruction set in the request.
	CompileSecondaryDex(ctx context.Context, req domain.CompileRequest) (domain.CompileResult, error)
}
