package dexmanager_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/dexmgr/internal/core/ports/mocks"
	"go.trai.ch/dexmgr/internal/engine/dexmanager"
	"go.uber.org/mock/gomock"
)

type managerTestMocks struct {
	ledger    *mocks.MockUsageLedger
	registry  *mocks.MockPackageRegistry
	installer *mocks.MockInstaller
	optimizer *mocks.MockDexOptimizer
	tracer    *mocks.MockTracer
	logger    *mocks.MockLogger
}

// setupManagerTest creates a manager over mocks that tolerate tracing and logging.
func setupManagerTest(t *testing.T) (*dexmanager.Manager, managerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := managerTestMocks{
		ledger:    mocks.NewMockUsageLedger(ctrl),
		registry:  mocks.NewMockPackageRegistry(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		optimizer: mocks.NewMockDexOptimizer(ctrl),
		tracer:    mocks.NewMockTracer(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	// Start has variadic signature: Start(ctx, name, ...opts).
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()

	m.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	mgr := dexmanager.NewManager(m.ledger, m.registry, m.installer, m.optimizer, m.tracer, m.logger, &sync.Mutex{}).
		WithISAs(domain.NewISASet("arm64", "arm"))
	return mgr, m
}

func appInfo(name string, user domain.UserID) *domain.AppInfo {
	return &domain.AppInfo{
		PackageName: name,
		SourceDir:   "/data/app/" + name + "/base.apk",
		DataDir:     "/data/user/" + strconv.Itoa(int(user)) + "/" + name,
		UID:         10000 + int(user)*100000,
	}
}

func TestNotifyDexLoad_CrossPackageSecondary(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	gomock.InOrder(
		m.ledger.EXPECT().Record("com.a", "/data/user/0/com.a/x.jar", domain.UserID(0), "arm64", true, false).
			Return(true, nil),
		m.ledger.EXPECT().MaybeWriteAsync(),
	)

	mgr.NotifyDexLoad(appInfo("com.b", 0), []string{"/data/user/0/com.a/x.jar"}, "arm64", 0)
}

func TestNotifyDexLoad_OwnPrimaryIsNotRecorded(t *testing.T) {
	mgr, _ := setupManagerTest(t)

	// Any Record call would fail the test through the controller.
	mgr.NotifyDexLoad(appInfo("com.a", 0), []string{"/data/app/com.a/base.apk"}, "arm64", 0)
	mgr.NotifyDexLoad(appInfo("com.a", 0), []string{"/data/app/com.a/base.apk"}, "arm64", 0)
}

func TestNotifyDexLoad_PrimaryLoadedByOtherPackage(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	m.ledger.EXPECT().Record("com.a", "/data/app/com.a/base.apk", domain.UserID(0), "arm", true, true).
		Return(false, nil)

	mgr.NotifyDexLoad(appInfo("com.b", 0), []string{"/data/app/com.a/base.apk"}, "arm", 0)
}

func TestNotifyDexLoad_OwnSecondary(t *testing.T) {
	mgr, m := setupManagerTest(t)

	gomock.InOrder(
		m.ledger.EXPECT().Record("com.a", "/data/user/0/com.a/code/y.dex", domain.UserID(0), "arm64", false, false).
			Return(true, nil),
		m.ledger.EXPECT().MaybeWriteAsync(),
	)

	mgr.NotifyDexLoad(appInfo("com.a", 0), []string{"/data/user/0/com.a/code/y.dex"}, "arm64", 0)
}

func TestNotifyDexLoad_UnsupportedISA(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	m.logger.EXPECT().Warn(gomock.Any()).Times(1)

	mgr.NotifyDexLoad(appInfo("com.b", 0), []string{"/data/user/0/com.a/x.jar"}, "mips", 0)
}

func TestNotifyDexLoad_SkipsUnknownAndFramework(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	m.ledger.EXPECT().Record("com.a", "/data/user/0/com.a/x.jar", domain.UserID(0), "arm64", true, false).
		Return(false, nil)

	mgr.NotifyDexLoad(appInfo("com.b", 0), []string{
		"/system/framework/core.jar",
		"/data/user/0/com.z/unknown.jar",
		"/data/user/0/com.a/x.jar",
	}, "arm64", 0)
}

func TestNotifyDexLoad_OtherUserIsNotAttributed(t *testing.T) {
	mgr, _ := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	mgr.NotifyDexLoad(appInfo("com.b", 10), []string{"/data/user/0/com.a/x.jar"}, "arm64", 10)
}

func TestNotifyDexLoad_RecordErrorAbortsBatch(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.a", 0), 0)

	m.ledger.EXPECT().Record("com.a", "/data/user/0/com.a/x.jar", domain.UserID(0), "arm64", true, false).
		Return(false, domain.ErrDexOwnerMismatch)
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrDexOwnerMismatch)
	})

	mgr.NotifyDexLoad(appInfo("com.b", 0), []string{
		"/data/user/0/com.a/x.jar",
		"/data/user/0/com.a/y.jar",
	}, "arm64", 0)
}

func TestNotifyDexLoad_RecoversFromPanic(t *testing.T) {
	mgr, m := setupManagerTest(t)

	m.ledger.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(string, string, domain.UserID, string, bool, bool) (bool, error) {
			panic("ledger exploded")
		})
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	assert.NotPanics(t, func() {
		mgr.NotifyDexLoad(appInfo("com.a", 0), []string{"/data/user/0/com.a/x.jar"}, "arm64", 0)
	})
}

func TestNotifyDexLoad_NilLoadingPackage(t *testing.T) {
	mgr, m := setupManagerTest(t)
	m.logger.EXPECT().Warn(gomock.Any())

	assert.NotPanics(t, func() {
		mgr.NotifyDexLoad(nil, []string{"/data/user/0/com.a/x.jar"}, "arm64", 0)
	})
}

func TestLoad_RebuildsIndexAndSyncsLedger(t *testing.T) {
	mgr, m := setupManagerTest(t)
	mgr.NotifyPackageInstalled(appInfo("com.stale", 10), 10)

	existing := map[domain.UserID][]domain.PackageInfo{
		0:  {{AppInfo: *appInfo("com.a", 0)}, {AppInfo: *appInfo("com.b", 0)}},
		10: {{AppInfo: *appInfo("com.a", 10)}},
	}

	gomock.InOrder(
		m.ledger.EXPECT().Read().Return(nil),
		m.ledger.EXPECT().SyncData(map[string]map[domain.UserID]struct{}{
			"com.a": {0: {}, 10: {}},
			"com.b": {0: {}},
		}),
	)
	mgr.Load(context.Background(), existing)

	// The rebuilt index attributes com.a files for both users and forgets com.stale.
	m.ledger.EXPECT().Record("com.a", "/data/user/10/com.a/x.jar", domain.UserID(10), "arm64", true, false).
		Return(false, nil)
	mgr.NotifyDexLoad(appInfo("com.c", 10), []string{
		"/data/user/10/com.a/x.jar",
		"/data/user/10/com.stale/x.jar",
	}, "arm64", 10)
}

func TestLoad_CorruptLedgerResets(t *testing.T) {
	mgr, m := setupManagerTest(t)

	gomock.InOrder(
		m.ledger.EXPECT().Read().Return(domain.ErrLedgerUnmarshalFailed),
		m.ledger.EXPECT().Clear(),
	)
	m.logger.EXPECT().Warn(gomock.Any())
	m.logger.EXPECT().Error(gomock.Any())

	mgr.Load(context.Background(), map[domain.UserID][]domain.PackageInfo{})
}

func TestLoad_PanicResets(t *testing.T) {
	mgr, m := setupManagerTest(t)

	m.ledger.EXPECT().Read().Return(nil)
	m.ledger.EXPECT().SyncData(gomock.Any()).Do(func(map[string]map[domain.UserID]struct{}) {
		panic(errors.New("sync exploded"))
	})
	m.ledger.EXPECT().Clear()
	m.logger.EXPECT().Warn(gomock.Any())
	m.logger.EXPECT().Error(gomock.Any())

	assert.NotPanics(t, func() {
		mgr.Load(context.Background(), nil)
	})
}

func TestGetPackageUseInfo_Delegates(t *testing.T) {
	mgr, m := setupManagerTest(t)
	info := domain.NewPackageUseInfo("com.a")

	m.ledger.EXPECT().GetPackageUseInfo("com.a").Return(info)
	m.ledger.EXPECT().GetAllPackagesWithSecondaryDexFiles().Return([]string{"com.a"})

	require.Same(t, info, mgr.GetPackageUseInfo("com.a"))
	assert.Equal(t, []string{"com.a"}, mgr.GetAllPackagesWithSecondaryDexFiles())
}
