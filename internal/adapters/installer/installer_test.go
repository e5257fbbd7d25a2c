package installer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/adapters/installer"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const pkgName = "com.example.app"

type fixture struct {
	dataRoot   string
	expandRoot string
	inst       *installer.Installer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	root := t.TempDir()
	f := &fixture{
		dataRoot:   filepath.Join(root, "data"),
		expandRoot: filepath.Join(root, "expand"),
	}
	f.inst = installer.New(f.dataRoot, f.expandRoot, domain.OatDirName, log)
	return f
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte("x"), domain.FilePerm))
}

func TestReconcile_ExistingFile(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName), "code", "lib.dex")
	touch(t, dex)
	artifacts := installer.ArtifactPaths(dex, domain.OatDirName, "arm64")
	touch(t, artifacts[0])

	exists, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.FileExists(t, artifacts[0], "artifacts of a live dex file are kept")
}

func TestReconcile_MissingFileRemovesArtifacts(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDeDataDir(f.dataRoot, f.expandRoot, "", 10, pkgName), "lib.jar")

	var artifacts []string
	for _, isa := range []string{"arm64", "arm"} {
		for _, p := range installer.ArtifactPaths(dex, domain.OatDirName, isa) {
			touch(t, p)
			artifacts = append(artifacts, p)
		}
	}
	other := filepath.Join(filepath.Dir(dex), domain.OatDirName, "arm64", "other.odex")
	touch(t, other)

	uid := 10*domain.PerUserRange + 1
	exists, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, uid, []string{"arm64", "arm"}, "", domain.StorageDE)
	require.NoError(t, err)
	assert.False(t, exists)
	for _, p := range artifacts {
		assert.NoFileExists(t, p)
	}
	assert.FileExists(t, other, "artifacts of other dex files are kept")
}

func TestReconcile_MissingFileWithoutArtifacts(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName), "gone.dex")

	exists, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcile_AdoptedVolume(t *testing.T) {
	f := newFixture(t)
	const volume = "57f8f4bc-abf4-655f-bf67-946fc0f9f25b"
	dex := filepath.Join(domain.UserDataDir(f.dataRoot, f.expandRoot, volume, 0, pkgName), "lib.dex")
	touch(t, dex)

	exists, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, volume, domain.StorageCE)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.ErrorIs(t, err, domain.ErrPathOutsideStorage, "internal storage does not cover the adopted volume")
}

func TestReconcile_RejectsPathsOutsideStorage(t *testing.T) {
	f := newFixture(t)
	ceDir := domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName)

	tests := []struct {
		name  string
		path  string
		uid   int
		flags domain.StorageFlags
	}{
		{name: "other package", path: domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, "com.other") + "/a.dex", uid: 10001, flags: domain.StorageCE},
		{name: "other user", path: ceDir + "/a.dex", uid: 10*domain.PerUserRange + 1, flags: domain.StorageCE},
		{name: "wrong storage class", path: ceDir + "/a.dex", uid: 10001, flags: domain.StorageDE},
		{name: "parent escape", path: ceDir + "/../com.other/a.dex", uid: 10001, flags: domain.StorageCE},
		{name: "prefix sibling", path: ceDir + "2/a.dex", uid: 10001, flags: domain.StorageCE},
		{name: "relative path", path: "a.dex", uid: 10001, flags: domain.StorageCE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := f.inst.ReconcileSecondaryDexFile(tt.path, pkgName, tt.uid, []string{"arm64"}, "", tt.flags)
			require.ErrorIs(t, err, domain.ErrPathOutsideStorage)
			assert.False(t, exists)
		})
	}
}

func TestReconcile_BothStorageClasses(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDeDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName), "lib.dex")
	touch(t, dex)

	exists, err := f.inst.ReconcileSecondaryDexFile(
		dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageDE|domain.StorageCE)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReconcile_UnknownStorage(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName), "lib.dex")

	_, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageUnknown)
	require.ErrorIs(t, err, domain.ErrUnknownStorage)
}

func TestReconcile_CleanupFailure(t *testing.T) {
	f := newFixture(t)
	dex := filepath.Join(domain.UserDataDir(f.dataRoot, f.expandRoot, "", 0, pkgName), "lib.dex")
	// A non-empty directory where an artifact file is expected cannot be removed.
	blocker := installer.ArtifactPaths(dex, domain.OatDirName, "arm64")[0]
	touch(t, filepath.Join(blocker, "child"))

	exists, err := f.inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrArtifactCleanupFailed.Error())
	assert.False(t, exists)
}

func TestArtifactPaths(t *testing.T) {
	got := installer.ArtifactPaths("/data/user/0/com.a/code/lib.dex", "oat", "arm64")
	assert.Equal(t, []string{
		"/data/user/0/com.a/code/oat/arm64/lib.odex",
		"/data/user/0/com.a/code/oat/arm64/lib.vdex",
		"/data/user/0/com.a/code/oat/arm64/lib.art",
	}, got)
}

func TestLock(t *testing.T) {
	lock := installer.NewLock()
	lock.Lock()
	assert.False(t, lock.TryLock())
	lock.Unlock()
	assert.True(t, lock.TryLock())
	lock.Unlock()
}

func TestReconcile_RelativeDataRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	inst := installer.New("data", "", domain.OatDirName, log)

	dex := filepath.Join(domain.UserDataDir(filepath.Join(dir, "data"), "", "", 0, pkgName), "lib.dex")
	touch(t, dex)

	exists, err := inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, os.Remove(dex))
	exists, err = inst.ReconcileSecondaryDexFile(dex, pkgName, 10001, []string{"arm64"}, "", domain.StorageCE)
	require.NoError(t, err)
	assert.False(t, exists)
}
