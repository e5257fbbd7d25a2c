package domain

import (
	"log/slog"
	"time"
)

// Config is the resolved runtime configuration.
type Config struct {
	LedgerPath        string
	WriteDelay        time.Duration
	ManifestPath      string
	FrameworkPrefixes []string
	ISAs              ISASet
	DataRoot          string
	ExpandRoot        string
	CompilerCommand   []string
	OatDirName        string
	LogLevel          slog.Level
	LogJSON           bool
	TracingEnabled    bool
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		LedgerPath:        DefaultLedgerPath(),
		WriteDelay:        DefaultWriteDelay,
		ManifestPath:      DefaultManifestPath(),
		FrameworkPrefixes: []string{DefaultFrameworkPrefix},
		ISAs:              DefaultISAs(),
		DataRoot:          DefaultDataRoot,
		ExpandRoot:        DefaultExpandRoot,
		CompilerCommand:   []string{"dex2oat"},
		OatDirName:        OatDirName,
		LogLevel:          slog.LevelInfo,
	}
}

// FrameworkPredicate returns the predicate matching framework code locations.
func (c *Config) FrameworkPredicate() PathPredicate {
	return PrefixPredicate(c.FrameworkPrefixes...)
}
