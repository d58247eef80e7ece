package usvfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modvfs/modvfs/pkg/errors"
	"github.com/modvfs/modvfs/pkg/testutil"
)

const dataPath = `D:\Games\SkyrimSE\Data`

func newTestDeployment(t *testing.T, files map[string]string) (*Deployment, *testutil.MockVFS) {
	t.Helper()
	fsys, _ := testutil.BuildTree(t, files)
	mock := testutil.NewMockVFS()
	return New(mock, WithFS(fsys), withGOOS("windows")), mock
}

func TestIsSupportedOnWindows(t *testing.T) {
	d, _ := newTestDeployment(t, nil)
	assert.Nil(t, d.IsSupported("skyrimse"))
}

func TestIsSupportedRejectsOtherPlatforms(t *testing.T) {
	mock := testutil.NewMockVFS()
	d := New(mock, withGOOS("linux"))

	reason := d.IsSupported("skyrimse")
	require.NotNil(t, reason)
	assert.Equal(t, errors.ErrUnsupportedPlatform, reason.Code)
	assert.Contains(t, reason.Describe(nil), "Windows")
}

func TestIsSupportedRejectsDenylistedGames(t *testing.T) {
	d, _ := newTestDeployment(t, nil)

	reason := d.IsSupported("fallout3")
	require.NotNil(t, reason)
	assert.Equal(t, errors.ErrUnsupportedGame, reason.Code)
}

func TestIsSupportedUsesTranslator(t *testing.T) {
	mock := testutil.NewMockVFS()
	d := New(mock, withGOOS("linux"), WithTranslator(func(key, fallback string) string {
		return "übersetzt:" + key
	}))

	reason := d.IsSupported("skyrimse")
	require.NotNil(t, reason)
	assert.Equal(t, "übersetzt:usvfs-unsupported-platform", reason.Describe(d.translate))
}

func TestPrepareCleanClearsMappings(t *testing.T) {
	d, mock := newTestDeployment(t, nil)

	require.NoError(t, d.Prepare(context.Background(), dataPath, true, nil))
	assert.Equal(t, 1, mock.ClearCalls)

	require.NoError(t, d.Prepare(context.Background(), dataPath, false, nil))
	assert.Equal(t, 1, mock.ClearCalls)
}

func TestActivateLinksAndEnumerates(t *testing.T) {
	d, mock := newTestDeployment(t, map[string]string{
		"/mods/skyui/skyui.esp":             "esp",
		"/mods/skyui/interface/skyui.swf":   "swf",
		"/mods/skyui/scripts/sk_config.pex": "pex",
		"/mods/other/unrelated.esp":         "esp",
	})

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, true, nil))
	require.NoError(t, d.Activate(ctx, "/mods/skyui", "SkyUI", "", nil))

	require.Len(t, mock.Links, 1)
	assert.Equal(t, "/mods/skyui", mock.Links[0].Source)
	assert.Equal(t, dataPath, mock.Links[0].Target)
	assert.True(t, mock.Links[0].Recursive)

	manifest, err := d.Finalize(ctx)
	require.NoError(t, err)
	require.Len(t, manifest, 3)
	for _, record := range manifest {
		assert.Equal(t, "SkyUI", record.Source)
		assert.False(t, record.Time.IsZero())
	}
	assert.True(t, d.IsDeployed("interface/skyui.swf"))
	assert.True(t, d.IsDeployed("skyui.esp"))
	assert.False(t, d.IsDeployed("unrelated.esp"))
}

func TestActivateWithDataPathRelative(t *testing.T) {
	d, mock := newTestDeployment(t, map[string]string{
		"/mods/enb/enbseries.ini": "ini",
	})

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, false, nil))
	require.NoError(t, d.Activate(ctx, "/mods/enb", "ENB", "textures", nil))

	require.Len(t, mock.Links, 1)
	assert.Equal(t, dataPath+`\textures`, mock.Links[0].Target)
}

func TestActivateMissingSourceIsSkip(t *testing.T) {
	d, mock := newTestDeployment(t, map[string]string{
		"/mods/present/a.esp": "esp",
	})

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, true, nil))

	// Missing source: no error, no link, no records.
	require.NoError(t, d.Activate(ctx, "/mods/absent", "Absent", "", nil))
	assert.Empty(t, mock.Links)

	// Subsequent activations in the same cycle still work.
	require.NoError(t, d.Activate(ctx, "/mods/present", "Present", "", nil))
	manifest, err := d.Finalize(ctx)
	require.NoError(t, err)
	require.Len(t, manifest, 1)
	assert.Equal(t, "Present", manifest[0].Source)
	assert.Equal(t, "a.esp", manifest[0].RelPath)
}

func TestActivateBeforePrepare(t *testing.T) {
	d, _ := newTestDeployment(t, nil)
	err := d.Activate(context.Background(), "/mods/skyui", "SkyUI", "", nil)
	assert.True(t, errors.IsCode(err, errors.ErrSessionNotPrepared))
}

func TestActivateLinkFailure(t *testing.T) {
	d, mock := newTestDeployment(t, map[string]string{
		"/mods/skyui/skyui.esp": "esp",
	})
	mock.LinkErr = assert.AnError

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, false, nil))

	err := d.Activate(ctx, "/mods/skyui", "SkyUI", "", nil)
	assert.True(t, errors.IsCode(err, errors.ErrVFSFailure))

	manifest, err := d.Finalize(ctx)
	require.NoError(t, err)
	assert.Empty(t, manifest)
}

func TestPrepareResetsPreviousCycle(t *testing.T) {
	d, _ := newTestDeployment(t, map[string]string{
		"/mods/skyui/skyui.esp": "esp",
	})

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, true, nil))
	require.NoError(t, d.Activate(ctx, "/mods/skyui", "SkyUI", "", nil))
	first, err := d.Finalize(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, d.Prepare(ctx, dataPath, true, first))
	second, err := d.Finalize(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.False(t, d.IsDeployed("skyui.esp"))
}

func TestPurgeLeavesFreshState(t *testing.T) {
	d, mock := newTestDeployment(t, map[string]string{
		"/mods/skyui/skyui.esp": "esp",
	})

	ctx := context.Background()
	require.NoError(t, d.Prepare(ctx, dataPath, true, nil))
	require.NoError(t, d.Activate(ctx, "/mods/skyui", "SkyUI", "", nil))

	require.NoError(t, d.Purge(ctx, `D:\Games\SkyrimSE`, dataPath))
	assert.Equal(t, 2, mock.ClearCalls)

	// Indistinguishable from a freshly initialized method.
	assert.Nil(t, d.IsSupported("skyrimse"))
	assert.False(t, d.IsActive())
	assert.False(t, d.IsDeployed("skyui.esp"))

	err := d.Activate(ctx, "/mods/skyui", "SkyUI", "", nil)
	assert.True(t, errors.IsCode(err, errors.ErrSessionNotPrepared))
}

func TestStubOperations(t *testing.T) {
	d, _ := newTestDeployment(t, nil)
	ctx := context.Background()

	assert.NoError(t, d.Deactivate(ctx, "/mods/skyui", ""))

	changes, err := d.ExternalChanges(ctx, `D:\Games\SkyrimSE`, dataPath)
	assert.NoError(t, err)
	assert.Empty(t, changes)

	assert.False(t, d.IsActive())
	assert.Equal(t, MethodID, d.ID())
	assert.NotEmpty(t, d.Description())
}
