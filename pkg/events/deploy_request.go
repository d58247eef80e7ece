package events

import (
	"context"
	"sync"
)

// Origin distinguishes who asked for a deployment pass. The launch hook tags
// its own trigger so the re-entrancy guard can let it through while rejecting
// manual requests.
type Origin int

const (
	// OriginUser marks a deployment requested through the normal path.
	OriginUser Origin = iota

	// OriginHook marks a deployment forced by the launch-interception hook.
	OriginHook
)

// String returns the origin name for logging.
func (o Origin) String() string {
	if o == OriginHook {
		return "hook"
	}
	return "user"
}

// DeployRequest is the payload of TopicDeployMods. Whoever runs the
// deployment cycle must call Complete exactly once; emitters that need the
// round trip block on Wait.
type DeployRequest struct {
	GameID string
	Origin Origin

	once sync.Once
	done chan error
}

// NewDeployRequest creates a request for a deployment pass for gameID.
func NewDeployRequest(gameID string, origin Origin) *DeployRequest {
	return &DeployRequest{
		GameID: gameID,
		Origin: origin,
		done:   make(chan error, 1),
	}
}

// Complete signals the outcome of the requested deployment cycle. Only the
// first call has effect.
func (r *DeployRequest) Complete(err error) {
	r.once.Do(func() {
		r.done <- err
		close(r.done)
	})
}

// Wait blocks until the deployment cycle completes or ctx is cancelled.
// Cancellation abandons the wait; it does not cancel the cycle itself.
func (r *DeployRequest) Wait(ctx context.Context) error {
	select {
	case err := <-r.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
