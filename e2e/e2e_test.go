//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var dexmgrBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "dexmgr-e2e-*")
	if err != nil {
		panic(err)
	}

	dexmgrBinary = filepath.Join(tmpDir, "dexmgr")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", dexmgrBinary, "./cmd/dexmgr")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build dexmgr binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"expandenv": expandEnv,
		},
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")
	env.Setenv("DEXMGR_CONFIG", "")

	binDir := filepath.Dir(dexmgrBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	return nil
}

// expandEnv copies src to dst, expanding $VAR references with the script environment.
//
//	expandenv src dst
func expandEnv(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! expandenv")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: expandenv src dst")
	}
	data := os.Expand(ts.ReadFile(args[0]), ts.Getenv)
	ts.Check(os.WriteFile(ts.MkAbs(args[1]), []byte(data), 0o600))
}
