// Package config provides the configuration loader for dexmgr.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	FS     FileSystem
	Getenv func(string) string
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(fsys FileSystem) *Loader {
	return &Loader{FS: fsys, Getenv: os.Getenv}
}

// Load reads the configuration at path.
// An empty path falls back to $DEXMGR_CONFIG and then to dexmgr.yaml in the working directory.
// Only the working directory fallback may be missing; it yields the defaults.
// Relative paths in the file resolve against the file's absolute directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	explicit := true
	if path == "" && l.Getenv != nil {
		path = l.Getenv(domain.ConfigEnvVar)
	}
	if path == "" {
		path = domain.ConfigFileName
		explicit = false
	}

	cfg := domain.DefaultConfig()

	data, err := l.FS.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	configDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	if err := apply(cfg, &file, configDir); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// apply overlays the values set in file onto cfg.
// Relative paths are resolved against configDir.
func apply(cfg *domain.Config, file *File, configDir string) error {
	if file.Ledger.Path != "" {
		cfg.LedgerPath = resolvePath(configDir, file.Ledger.Path)
	}
	if d := file.Ledger.WriteDelay; d != nil {
		if *d < 0 {
			return invalid("ledger.writeDelay", d.String())
		}
		cfg.WriteDelay = *d
	}
	if file.Registry.Manifest != "" {
		cfg.ManifestPath = resolvePath(configDir, file.Registry.Manifest)
	}

	if file.Resolver.FrameworkPrefixes != nil {
		for _, p := range file.Resolver.FrameworkPrefixes {
			if strings.TrimSpace(p) == "" {
				return invalid("resolver.frameworkPrefixes", p)
			}
		}
		cfg.FrameworkPrefixes = file.Resolver.FrameworkPrefixes
	}

	if len(file.ISAs) > 0 {
		for _, isa := range file.ISAs {
			if !domain.IsKnownISA(isa) {
				return zerr.With(zerr.Wrap(domain.ErrUnknownISA, "invalid isas"), "isa", isa)
			}
		}
		cfg.ISAs = domain.NewISASet(file.ISAs...)
	}

	if file.Installer.DataRoot != "" {
		cfg.DataRoot = resolvePath(configDir, file.Installer.DataRoot)
	}
	if file.Installer.ExpandRoot != "" {
		cfg.ExpandRoot = resolvePath(configDir, file.Installer.ExpandRoot)
	}

	if file.Optimizer.Command != nil {
		if len(file.Optimizer.Command) == 0 || file.Optimizer.Command[0] == "" {
			return invalid("optimizer.command", strings.Join(file.Optimizer.Command, " "))
		}
		cfg.CompilerCommand = file.Optimizer.Command
	}
	if name := file.Optimizer.OatDirName; name != "" {
		if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
			return invalid("optimizer.oatDirName", name)
		}
		cfg.OatDirName = name
	}

	if file.Logging.Level != "" {
		level, err := parseLevel(file.Logging.Level)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if file.Logging.JSON != nil {
		cfg.LogJSON = *file.Logging.JSON
	}
	if file.Tracing.Enabled != nil {
		cfg.TracingEnabled = *file.Tracing.Enabled
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, zerr.With(zerr.Wrap(domain.ErrInvalidLogLevel, "invalid logging.level"), "level", s)
	}
}

func invalid(key, value string) error {
	err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid "+key), "key", key)
	return zerr.With(err, "value", value)
}

// resolvePath makes p absolute relative to configDir unless it already is.
func resolvePath(configDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(configDir, p))
}
