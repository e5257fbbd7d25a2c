package config

import "time"

// File represents the structure of the dexmgr.yaml configuration file.
// Unset fields keep their defaults.
type File struct {
	Ledger    LedgerSection    `yaml:"ledger"`
	Registry  RegistrySection  `yaml:"registry"`
	Resolver  ResolverSection  `yaml:"resolver"`
	ISAs      []string         `yaml:"isas"`
	Installer InstallerSection `yaml:"installer"`
	Optimizer OptimizerSection `yaml:"optimizer"`
	Logging   LoggingSection   `yaml:"logging"`
	Tracing   TracingSection   `yaml:"tracing"`
}

// LedgerSection configures the dex usage ledger.
type LedgerSection struct {
	Path       string         `yaml:"path"`
	WriteDelay *time.Duration `yaml:"writeDelay"`
}

// RegistrySection configures the installed package manifest.
type RegistrySection struct {
	Manifest string `yaml:"manifest"`
}

// ResolverSection configures ownership resolution.
type ResolverSection struct {
	FrameworkPrefixes []string `yaml:"frameworkPrefixes"`
}

// InstallerSection configures where package storage lives.
type InstallerSection struct {
	DataRoot   string `yaml:"dataRoot"`
	ExpandRoot string `yaml:"expandRoot"`
}

// OptimizerSection configures the external compiler.
type OptimizerSection struct {
	Command    []string `yaml:"command"`
	OatDirName string   `yaml:"oatDirName"`
}

// LoggingSection configures log output.
type LoggingSection struct {
	Level string `yaml:"level"`
	JSON  *bool  `yaml:"json"`
}

// TracingSection configures span collection.
type TracingSection struct {
	Enabled *bool `yaml:"enabled"`
}
