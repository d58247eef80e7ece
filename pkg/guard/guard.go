// Package guard couples the deployment lifecycle events to the shared
// session state: it brackets the deploying flag around every cycle, rejects
// manual deployment requests while the usvfs method drives launches, and
// broadcasts a helper-restart signal when the active deployment method
// switches into or out of usvfs.
package guard

import (
	"github.com/rs/zerolog"

	"github.com/modvfs/modvfs/pkg/deploy/usvfs"
	"github.com/modvfs/modvfs/pkg/errors"
	"github.com/modvfs/modvfs/pkg/events"
	"github.com/modvfs/modvfs/pkg/logging"
	"github.com/modvfs/modvfs/pkg/session"
)

// Guard wires the re-entrancy protection and the activator-switch watcher
// into the bus and the session context.
type Guard struct {
	logger zerolog.Logger
	sess   *session.Context
	bus    *events.Bus

	unsubs []func()
}

// Install subscribes the guard's listeners. The deploy-mods listener runs in
// first position so it sees every request before the host does.
func Install(sess *session.Context, bus *events.Bus) *Guard {
	g := &Guard{
		logger: logging.GetLogger("guard"),
		sess:   sess,
		bus:    bus,
	}

	g.unsubs = append(g.unsubs,
		bus.Subscribe(events.TopicDeployMods, events.PriorityFirst, g.onDeployRequest),
		bus.Subscribe(events.TopicWillDeploy, events.PriorityFirst, g.onWillDeploy),
		bus.Subscribe(events.TopicDidDeploy, events.PriorityFirst, g.onDidDeploy),
		sess.Activators.Watch(g.onActivatorChange),
	)
	return g
}

// Uninstall removes all of the guard's subscriptions.
func (g *Guard) Uninstall() {
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
}

// onDeployRequest distinguishes hook-originated deployment requests from
// user-originated ones. While usvfs drives launches, manual deployment is
// rejected: the hook deploys on every launch anyway, and a user-initiated
// cycle racing a launch would fight over the same mappings.
func (g *Guard) onDeployRequest(payload interface{}) error {
	request, ok := payload.(*events.DeployRequest)
	if !ok {
		return nil
	}
	if request.Origin == events.OriginHook {
		// The hook's own trigger; let it through silently.
		return nil
	}
	if g.sess.Activators.Get(g.sess.ActiveGame()) != usvfs.MethodID {
		return nil
	}

	err := errors.New(errors.ErrManualDeployReject,
		"Manual deployment is not used with virtual filesystem deployment; mods are deployed automatically when the game is launched.")
	g.logger.Info().Str("game", request.GameID).Msg("rejecting manual deployment request")
	request.Complete(err)
	return err
}

func (g *Guard) onWillDeploy(payload interface{}) error {
	g.sess.BeginDeployment()
	return nil
}

func (g *Guard) onDidDeploy(payload interface{}) error {
	g.sess.EndDeployment()
	return nil
}

// onActivatorChange broadcasts a helper-restart signal when the currently
// active game switches into or out of usvfs deployment, so long-running
// auxiliary tools reopen their files with the correct filesystem view.
func (g *Guard) onActivatorChange(gameID, prev, next string) {
	if gameID != g.sess.ActiveGame() {
		return
	}
	if prev != usvfs.MethodID && next != usvfs.MethodID {
		return
	}

	g.logger.Info().Str("game", gameID).Str("from", prev).Str("to", next).
		Msg("activator switched, restarting helper processes")
	if err := g.bus.Emit(events.TopicRestartHelpers, events.Notice{GameID: gameID}); err != nil {
		g.logger.Warn().Err(err).Msg("restart-helpers broadcast failed")
	}
}
