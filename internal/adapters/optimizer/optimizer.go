// Package optimizer compiles secondary dex files by running an external compiler.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DexOptimizer = (*Optimizer)(nil)

// Optimizer implements ports.DexOptimizer by invoking a compiler command once per ISA.
type Optimizer struct {
	command    []string
	oatDirName string
	lock       sync.Locker
	tracer     ports.Tracer
	logger     ports.Logger
}

// New creates an Optimizer running command. lock is the install lock,
// held while the compiler writes into package storage.
func New(
	command []string,
	oatDirName string,
	lock sync.Locker,
	tracer ports.Tracer,
	logger ports.Logger,
) *Optimizer {
	return &Optimizer{
		command:    command,
		oatDirName: oatDirName,
		lock:       lock,
		tracer:     tracer,
		logger:     logger,
	}
}

// OutputPath returns where the compiled code of dexPath for isa is written.
func OutputPath(dexPath, oatDirName, isa string) string {
	base := strings.TrimSuffix(filepath.Base(dexPath), filepath.Ext(dexPath))
	return filepath.Join(filepath.Dir(dexPath), oatDirName, isa, base+".odex")
}

// CompileSecondaryDex compiles req.DexPath for every ISA in req.ISAs.
//
// An ISA whose output is newer than the dex file is skipped unless req.Force is set.
// The result is CompileOK when at least one ISA was compiled, CompileSkipped otherwise.
func (o *Optimizer) CompileSecondaryDex(ctx context.Context, req domain.CompileRequest) (domain.CompileResult, error) {
	if len(o.command) == 0 || o.command[0] == "" {
		return domain.CompileFailed, domain.ErrNoCompilerCommand
	}

	info, err := os.Stat(req.DexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			o.logger.Debug("secondary dex vanished before compilation: " + req.DexPath)
			return domain.CompileSkipped, nil
		}
		return domain.CompileFailed, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "dex_path", req.DexPath)
	}

	result := domain.CompileSkipped
	for _, isa := range req.ISAs {
		out := OutputPath(req.DexPath, o.oatDirName, isa)
		if !req.Force && upToDate(out, info.ModTime()) {
			o.logger.Debug(fmt.Sprintf("output for %s on %s is up to date", req.DexPath, isa))
			continue
		}

		if err := o.compile(ctx, req, isa, out); err != nil {
			return domain.CompileFailed, err
		}
		result = domain.CompileOK
	}
	return result, nil
}

func (o *Optimizer) compile(ctx context.Context, req domain.CompileRequest, isa, out string) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	ctx, span := o.tracer.Start(ctx, "optimizer.compile",
		ports.WithAttribute("dex_path", req.DexPath),
		ports.WithAttribute("isa", isa),
	)
	defer span.End()

	if err := os.MkdirAll(filepath.Dir(out), domain.DirPerm); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "output", out)
		span.RecordError(err)
		return err
	}

	stdoutLog := &logWriter{logger: o.logger, level: "info"}
	stderrLog := &logWriter{logger: o.logger, level: "error"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	args := append(o.command[1:len(o.command):len(o.command)], compilerArgs(req, isa, out)...)
	cmd := exec.CommandContext(ctx, o.command[0], args...) //nolint:gosec // command comes from trusted configuration
	cmd.Env = filterSystemEnv(os.Environ())
	cmd.Stdout = io.MultiWriter(stdoutLog, span)
	cmd.Stderr = io.MultiWriter(stderrLog, span)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "exit_code", exitCode)
		err = zerr.With(err, "isa", isa)
		err = zerr.With(err, "dex_path", req.DexPath)
		span.RecordError(err)
		return err
	}
	return nil
}

func compilerArgs(req domain.CompileRequest, isa, out string) []string {
	args := []string{
		"--dex-file=" + req.DexPath,
		"--oat-file=" + out,
		"--instruction-set=" + isa,
	}
	if req.Filter != "" {
		args = append(args, "--compiler-filter="+req.Filter)
	}
	if req.App.PackageName != "" {
		args = append(args, "--package-name="+req.App.PackageName)
	}
	if req.UsedByOtherApps {
		args = append(args, "--shared-by-other-apps")
	}
	return args
}

// upToDate reports whether out exists and is not older than modTime.
func upToDate(out string, modTime time.Time) bool {
	info, err := os.Stat(out)
	if err != nil {
		return false
	}
	return !info.ModTime().Before(modTime)
}
