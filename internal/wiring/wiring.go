// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dexmgr/internal/adapters/config"
	_ "go.trai.ch/dexmgr/internal/adapters/installer"
	_ "go.trai.ch/dexmgr/internal/adapters/ledger"
	_ "go.trai.ch/dexmgr/internal/adapters/logger"
	_ "go.trai.ch/dexmgr/internal/adapters/optimizer"
	_ "go.trai.ch/dexmgr/internal/adapters/registry"
	_ "go.trai.ch/dexmgr/internal/adapters/telemetry"
	_ "go.trai.ch/dexmgr/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/dexmgr/internal/app"
	_ "go.trai.ch/dexmgr/internal/engine/dexmanager"
)
