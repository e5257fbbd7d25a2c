package dexmanager

import (
	"context"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// forcedOptimizer marks every request as forced before delegating.
type forcedOptimizer struct {
	next ports.DexOptimizer
}

// Forced wraps optimizer so that it never skips a compilation.
func Forced(optimizer ports.DexOptimizer) ports.DexOptimizer {
	if f, ok := optimizer.(forcedOptimizer); ok {
		return f
	}
	return forcedOptimizer{next: optimizer}
}

func (f forcedOptimizer) CompileSecondaryDex(ctx context.Context, req domain.CompileRequest) (domain.CompileResult, error) {
	req.Force = true
	return f.next.CompileSecondaryDex(ctx, req)
}
