package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/core/domain"
)

func TestPackageUseInfo_RecordCodePath(t *testing.T) {
	info := domain.NewPackageUseInfo("com.a")
	const base = "/data/app/com.a/base.apk"

	updated, err := info.Record(base, 0, "arm64", true, true)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = info.Record(base, 0, "arm64", true, true)
	require.NoError(t, err)
	assert.False(t, updated, "same event carries no new information")

	updated, err = info.Record(base, 0, "arm", true, true)
	require.NoError(t, err)
	assert.True(t, updated, "new isa")

	updated, err = info.Record(base, 10, "arm", true, true)
	require.NoError(t, err)
	assert.True(t, updated, "new user")

	cp := info.CodePaths[base]
	assert.Equal(t, []domain.UserID{0, 10}, cp.UserIDs)
	assert.Equal(t, []string{"arm", "arm64"}, cp.LoaderISAs)
	assert.True(t, info.IsUsedByOtherApps())
}

func TestPackageUseInfo_RecordDexFile(t *testing.T) {
	info := domain.NewPackageUseInfo("com.a")
	const dex = "/data/user/0/com.a/x.jar"

	updated, err := info.Record(dex, 0, "arm64", false, false)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = info.Record(dex, 0, "arm64", false, false)
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = info.Record(dex, 0, "arm64", true, false)
	require.NoError(t, err)
	assert.True(t, updated, "used by other apps flips once")

	updated, err = info.Record(dex, 0, "arm64", false, false)
	require.NoError(t, err)
	assert.False(t, updated, "flag never flips back")
	assert.True(t, info.DexFiles[dex].UsedByOtherApps)

	_, err = info.Record(dex, 10, "arm64", false, false)
	require.ErrorIs(t, err, domain.ErrDexOwnerMismatch)
	assert.Equal(t, domain.UserID(0), info.DexFiles[dex].OwnerUserID)
	assert.False(t, info.IsUsedByOtherApps(), "secondary use does not mark code paths")
}

func TestPackageUseInfo_RemoveUser(t *testing.T) {
	info := domain.NewPackageUseInfo("com.a")
	_, _ = info.Record("/data/app/com.a/base.apk", 0, "arm64", true, true)
	_, _ = info.Record("/data/app/com.a/base.apk", 10, "arm64", true, true)
	_, _ = info.Record("/data/user/0/com.a/x.jar", 0, "arm64", false, false)
	_, _ = info.Record("/data/user/10/com.a/y.jar", 10, "arm64", false, false)

	assert.True(t, info.RemoveUser(10))
	assert.False(t, info.RemoveUser(10), "second removal changes nothing")

	assert.Equal(t, []string{"/data/user/0/com.a/x.jar"}, info.SortedDexPaths())
	assert.Equal(t, []domain.UserID{0}, info.CodePaths["/data/app/com.a/base.apk"].UserIDs)

	assert.True(t, info.RemoveUser(0))
	assert.True(t, info.IsEmpty())
}

func TestPackageUseInfo_RetainUsers(t *testing.T) {
	info := domain.NewPackageUseInfo("com.a")
	_, _ = info.Record("/data/app/com.a/base.apk", 0, "arm64", true, true)
	_, _ = info.Record("/data/app/com.a/base.apk", 10, "arm64", true, true)
	_, _ = info.Record("/data/user/10/com.a/y.jar", 10, "arm64", false, false)

	assert.False(t, info.RetainUsers(map[domain.UserID]struct{}{0: {}, 10: {}}))
	assert.True(t, info.RetainUsers(map[domain.UserID]struct{}{0: {}}))

	assert.Empty(t, info.DexFiles)
	assert.Equal(t, []domain.UserID{0}, info.CodePaths["/data/app/com.a/base.apk"].UserIDs)

	assert.True(t, info.RetainUsers(nil))
	assert.True(t, info.IsEmpty())
}

func TestPackageUseInfo_Clone(t *testing.T) {
	info := domain.NewPackageUseInfo("com.a")
	_, _ = info.Record("/data/user/0/com.a/x.jar", 0, "arm64", false, false)

	c := info.Clone()
	_, _ = c.Record("/data/user/0/com.a/x.jar", 0, "arm", true, false)

	assert.Equal(t, []string{"arm64"}, info.DexFiles["/data/user/0/com.a/x.jar"].LoaderISAs)
	assert.False(t, info.DexFiles["/data/user/0/com.a/x.jar"].UsedByOtherApps)
	assert.Equal(t, "com.a", c.PackageName)
}
