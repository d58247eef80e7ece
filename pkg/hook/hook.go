// Package hook implements launch interception. Start hooks run in priority
// order before any executable launch is carried out; a hook either passes the
// request through unchanged or consumes it, in which case the original
// launch path must not start the process.
package hook

import (
	"context"
	"errors"
	"sort"
)

// ErrStartedViaVFS is the cancellation marker returned when a launch request
// was consumed and the process was started through the VFS hook instead.
// Downstream callers must treat it as "already running", not as a failure.
var ErrStartedViaVFS = errors.New("launch handled via virtual filesystem")

// StartedViaVFS reports whether err carries the ErrStartedViaVFS marker.
func StartedViaVFS(err error) bool {
	return errors.Is(err, ErrStartedViaVFS)
}

// LaunchRequest describes an executable launch about to happen. Hooks that
// pass the request through must leave it untouched.
type LaunchRequest struct {
	Executable string
	Args       []string
	WorkingDir string

	// Env overrides individual variables on top of the process environment.
	Env map[string]string
}

// StartHook inspects a launch request before it is carried out.
type StartHook interface {
	// Name identifies the hook in logs.
	Name() string

	// Priority orders hook execution; lower runs earlier.
	Priority() int

	// Execute returns nil to pass the request through, ErrStartedViaVFS
	// (possibly wrapped) to cancel it because the launch happened
	// out-of-band, or any other error to fail the launch.
	Execute(ctx context.Context, req *LaunchRequest) error
}

// Runner executes a set of start hooks in priority order.
type Runner struct {
	hooks []StartHook
}

// NewRunner creates a runner over the given hooks.
func NewRunner(hooks ...StartHook) *Runner {
	sorted := make([]StartHook, len(hooks))
	copy(sorted, hooks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Runner{hooks: sorted}
}

// Run passes req through every hook. The first hook error stops the chain:
// ErrStartedViaVFS means the launch was consumed, anything else fails it.
// A nil return means the caller should start the process normally.
func (r *Runner) Run(ctx context.Context, req *LaunchRequest) error {
	for _, h := range r.hooks {
		if err := h.Execute(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
