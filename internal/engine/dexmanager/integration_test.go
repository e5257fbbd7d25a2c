package dexmanager_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/adapters/config"
	"go.trai.ch/dexmgr/internal/adapters/installer"
	"go.trai.ch/dexmgr/internal/adapters/ledger"
	"go.trai.ch/dexmgr/internal/adapters/telemetry"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports/mocks"
	"go.trai.ch/dexmgr/internal/engine/dexmanager"
	"go.uber.org/mock/gomock"
)

type integrationEnv struct {
	dataRoot   string
	ledgerPath string
	registry   *mocks.MockPackageRegistry
	logger     *mocks.MockLogger
	ctrl       *gomock.Controller
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	env := &integrationEnv{
		dataRoot:   filepath.Join(root, "data"),
		ledgerPath: filepath.Join(root, "system", "package-dex-usage.json"),
		registry:   mocks.NewMockPackageRegistry(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
		ctrl:       ctrl,
	}
	env.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return env
}

// manager builds a fresh manager over the ledger file, like a new process would.
func (e *integrationEnv) manager() (*dexmanager.Manager, *ledger.Ledger) {
	usage := ledger.New(e.ledgerPath, time.Hour, e.logger)
	inst := installer.New(e.dataRoot, "", "oat", e.logger)
	mgr := dexmanager.NewManager(
		usage, e.registry, inst, mocks.NewMockDexOptimizer(e.ctrl),
		telemetry.NewNoOpTracer(), e.logger, installer.NewLock(),
	).WithISAs(domain.NewISASet("arm64", "arm"))
	return mgr, usage
}

func (e *integrationEnv) pkg(name string, user domain.UserID) domain.PackageInfo {
	dataDir := domain.UserDataDir(e.dataRoot, "", "", user, name)
	return domain.PackageInfo{AppInfo: domain.AppInfo{
		PackageName:                name,
		SourceDir:                  "/data/app/" + name + "/base.apk",
		DataDir:                    dataDir,
		CredentialProtectedDataDir: dataDir,
		UID:                        int(user)*domain.PerUserRange + 10000,
	}, Enabled: true}
}

func writeDex(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("dex\n035"), 0o644))
}

func TestIntegration_RecordPersistReconcile(t *testing.T) {
	env := newIntegrationEnv(t)
	owner := env.pkg("com.owner", 0)
	loader := env.pkg("com.loader", 0)
	existing := map[domain.UserID][]domain.PackageInfo{0: {loader, owner}}
	dexPath := filepath.Join(owner.DataDir, "files", "plugin.dex")
	writeDex(t, dexPath)

	// First process: record the load and persist it.
	mgr, usage := env.manager()
	mgr.Load(context.Background(), existing)
	mgr.NotifyDexLoad(&loader.AppInfo, []string{dexPath}, "arm64", 0)
	require.NoError(t, usage.Flush())

	// Second process: the usage survives a restart.
	mgr, usage = env.manager()
	mgr.Load(context.Background(), existing)
	info := mgr.GetPackageUseInfo("com.owner")
	require.NotNil(t, info)
	require.Contains(t, info.DexFiles, dexPath)
	assert.True(t, info.DexFiles[dexPath].UsedByOtherApps)
	assert.Equal(t, []string{"com.owner"}, mgr.GetAllPackagesWithSecondaryDexFiles())

	// Reconciling an existing file changes nothing, however often it runs.
	env.registry.EXPECT().GetPackageInfo("com.owner", domain.LookupDefault, domain.UserID(0)).
		Return(&owner, nil).Times(3)
	mgr.ReconcileSecondaryDexFiles(context.Background(), "com.owner")
	mgr.ReconcileSecondaryDexFiles(context.Background(), "com.owner")
	assert.Equal(t, info, mgr.GetPackageUseInfo("com.owner"))

	// Once the file is gone the entry is dropped and the drop is persisted.
	require.NoError(t, os.Remove(dexPath))
	mgr.ReconcileSecondaryDexFiles(context.Background(), "com.owner")
	assert.Nil(t, mgr.GetPackageUseInfo("com.owner"))
	require.NoError(t, usage.Flush())

	mgr, _ = env.manager()
	mgr.Load(context.Background(), existing)
	assert.Empty(t, mgr.GetAllPackagesWithSecondaryDexFiles())
}

func TestIntegration_SyncDropsRemovedUsers(t *testing.T) {
	env := newIntegrationEnv(t)
	owner0 := env.pkg("com.owner", 0)
	owner10 := env.pkg("com.owner", 10)
	dex0 := filepath.Join(owner0.DataDir, "a.dex")
	dex10 := filepath.Join(owner10.DataDir, "a.dex")

	mgr, usage := env.manager()
	mgr.Load(context.Background(), map[domain.UserID][]domain.PackageInfo{0: {owner0}, 10: {owner10}})
	mgr.NotifyDexLoad(&owner0.AppInfo, []string{dex0}, "arm64", 0)
	mgr.NotifyDexLoad(&owner10.AppInfo, []string{dex10}, "arm", 10)
	require.NoError(t, usage.Flush())

	// User 10 is gone on the next start.
	mgr, usage = env.manager()
	mgr.Load(context.Background(), map[domain.UserID][]domain.PackageInfo{0: {owner0}})
	info := mgr.GetPackageUseInfo("com.owner")
	require.NotNil(t, info)
	assert.Contains(t, info.DexFiles, dex0)
	assert.NotContains(t, info.DexFiles, dex10)

	// The package itself is gone on the start after that.
	require.NoError(t, usage.Flush())
	mgr, _ = env.manager()
	mgr.Load(context.Background(), map[domain.UserID][]domain.PackageInfo{})
	assert.Nil(t, mgr.GetPackageUseInfo("com.owner"))
}

func TestIntegration_CorruptLedgerStartsFresh(t *testing.T) {
	env := newIntegrationEnv(t)
	owner := env.pkg("com.owner", 0)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.ledgerPath), 0o755))
	require.NoError(t, os.WriteFile(env.ledgerPath, []byte("{not json"), 0o644))

	env.logger.EXPECT().Warn(gomock.Any())
	env.logger.EXPECT().Error(gomock.Any())

	mgr, usage := env.manager()
	mgr.Load(context.Background(), map[domain.UserID][]domain.PackageInfo{0: {owner}})
	assert.Empty(t, mgr.GetAllPackagesWithSecondaryDexFiles())

	dexPath := filepath.Join(owner.DataDir, "b.dex")
	mgr.NotifyDexLoad(&owner.AppInfo, []string{dexPath}, "arm64", 0)
	require.NoError(t, usage.Flush())

	data, err := os.ReadFile(env.ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), dexPath)
}

func TestIntegration_ReconcileWithConfiguredRelativeDataRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "installer:\n  dataRoot: data\nledger:\n  path: system/usage.json\n"
	require.NoError(t, os.WriteFile(domain.ConfigFileName, []byte(content), domain.FilePerm))

	loader := config.NewLoader(config.NewOSFS())
	loader.Getenv = func(string) string { return "" }
	cfg, err := loader.Load("")
	require.NoError(t, err)

	env := newIntegrationEnv(t)
	env.dataRoot = cfg.DataRoot
	env.ledgerPath = cfg.LedgerPath

	owner := env.pkg("com.owner", 0)
	loader0 := env.pkg("com.loader", 0)
	existing := map[domain.UserID][]domain.PackageInfo{0: {loader0, owner}}
	dexPath := filepath.Join(owner.DataDir, "files", "plugin.dex")
	writeDex(t, dexPath)

	mgr, usage := env.manager()
	mgr.Load(context.Background(), existing)
	mgr.NotifyDexLoad(&loader0.AppInfo, []string{dexPath}, "arm64", 0)
	require.Equal(t, []string{"com.owner"}, mgr.GetAllPackagesWithSecondaryDexFiles())

	require.NoError(t, os.Remove(dexPath))
	env.registry.EXPECT().GetPackageInfo("com.owner", domain.LookupDefault, domain.UserID(0)).Return(&owner, nil)
	mgr.ReconcileSecondaryDexFiles(context.Background(), "com.owner")

	assert.Empty(t, mgr.GetAllPackagesWithSecondaryDexFiles())
	require.NoError(t, usage.Flush())
	assert.FileExists(t, filepath.Join(dir, "system", "usage.json"))
}
