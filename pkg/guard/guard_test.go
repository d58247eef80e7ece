package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modvfs/modvfs/pkg/deploy/usvfs"
	"github.com/modvfs/modvfs/pkg/errors"
	"github.com/modvfs/modvfs/pkg/events"
	"github.com/modvfs/modvfs/pkg/session"
)

func newGuardedSession(t *testing.T) (*session.Context, *events.Bus, *Guard) {
	t.Helper()
	sess := session.NewContext(10 * time.Millisecond)
	sess.SetActiveGame("skyrimse")
	bus := events.NewBus()
	g := Install(sess, bus)
	t.Cleanup(g.Uninstall)
	return sess, bus, g
}

func TestHookOriginatedRequestPassesGuard(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)
	sess.Activators.Set("skyrimse", usvfs.MethodID)

	var reachedHost bool
	bus.Subscribe(events.TopicDeployMods, events.PriorityNormal, func(payload interface{}) error {
		reachedHost = true
		payload.(*events.DeployRequest).Complete(nil)
		return nil
	})

	req := events.NewDeployRequest("skyrimse", events.OriginHook)
	require.NoError(t, bus.Emit(events.TopicDeployMods, req))
	assert.True(t, reachedHost)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, req.Wait(ctx))
}

func TestUserRequestRejectedWhileUsvfsActive(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)
	sess.Activators.Set("skyrimse", usvfs.MethodID)

	var reachedHost bool
	bus.Subscribe(events.TopicDeployMods, events.PriorityNormal, func(interface{}) error {
		reachedHost = true
		return nil
	})

	req := events.NewDeployRequest("skyrimse", events.OriginUser)
	err := bus.Emit(events.TopicDeployMods, req)
	assert.True(t, errors.IsCode(err, errors.ErrManualDeployReject))
	assert.False(t, reachedHost)

	// The waiter is unblocked with the same rejection.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.True(t, errors.IsCode(req.Wait(ctx), errors.ErrManualDeployReject))
}

func TestUserRequestAllowedWhileOtherMethodActive(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)
	sess.Activators.Set("skyrimse", "hardlink")

	req := events.NewDeployRequest("skyrimse", events.OriginUser)
	assert.NoError(t, bus.Emit(events.TopicDeployMods, req))
}

func TestDeployingFlagBracketing(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)

	require.NoError(t, bus.Emit(events.TopicWillDeploy, events.Notice{GameID: "skyrimse"}))
	assert.True(t, sess.Deploying())

	require.NoError(t, bus.Emit(events.TopicDidDeploy, events.Notice{GameID: "skyrimse"}))
	// Settle window first, then the flag drops.
	assert.True(t, sess.Deploying())
	assert.Eventually(t, func() bool { return !sess.Deploying() },
		time.Second, 2*time.Millisecond)
}

func TestActivatorSwitchEmitsRestartHelpers(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)

	var restarts []events.Notice
	bus.Subscribe(events.TopicRestartHelpers, events.PriorityNormal, func(payload interface{}) error {
		restarts = append(restarts, payload.(events.Notice))
		return nil
	})

	// Into usvfs: one broadcast.
	sess.Activators.Set("skyrimse", usvfs.MethodID)
	require.Len(t, restarts, 1)
	assert.Equal(t, "skyrimse", restarts[0].GameID)

	// Out of usvfs: one broadcast.
	sess.Activators.Set("skyrimse", "hardlink")
	assert.Len(t, restarts, 2)

	// Between two unrelated methods: none.
	sess.Activators.Set("skyrimse", "symlink")
	assert.Len(t, restarts, 2)
}

func TestActivatorSwitchForOtherGameIsIgnored(t *testing.T) {
	sess, bus, _ := newGuardedSession(t)

	var restarts int
	bus.Subscribe(events.TopicRestartHelpers, events.PriorityNormal, func(interface{}) error {
		restarts++
		return nil
	})

	sess.Activators.Set("fallout4", usvfs.MethodID)
	assert.Zero(t, restarts)
}

func TestUninstallRemovesListeners(t *testing.T) {
	sess := session.NewContext(time.Millisecond)
	sess.SetActiveGame("skyrimse")
	bus := events.NewBus()
	g := Install(sess, bus)
	g.Uninstall()

	sess.Activators.Set("skyrimse", usvfs.MethodID)
	req := events.NewDeployRequest("skyrimse", events.OriginUser)
	assert.NoError(t, bus.Emit(events.TopicDeployMods, req))

	require.NoError(t, bus.Emit(events.TopicWillDeploy, events.Notice{}))
	assert.False(t, sess.Deploying())
}
