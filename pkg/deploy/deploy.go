// Package deploy defines the deployment-method contract the host drives.
// The host owns the lifecycle: one cycle is Prepare, any number of Activate
// calls, then Finalize. Purge tears the deployment down.
package deploy

import (
	"context"
	"time"
)

// Record describes one nominally deployed file. Records live for the
// duration of a single deployment cycle and are never persisted.
type Record struct {
	// RelPath is the file's path relative to its mod's source root.
	RelPath string

	// Source identifies the owning mod.
	Source string

	// Time is the file's modification time at scan time.
	Time time.Time
}

// Method is the deployment-method contract exposed to the host. The host is
// the only caller of Prepare, Activate, Finalize and Purge.
type Method interface {
	// ID returns the method's stable identifier, used in the activator
	// mapping.
	ID() string

	// Description returns a short human-readable description for the
	// method picker.
	Description() string

	// IsSupported returns nil when the method can deploy for gameID, or a
	// translatable reason why not.
	IsSupported(gameID string) *Reason

	// Prepare begins a new deployment cycle targeting dataPath. clean
	// removes any leftover state from a previous cycle. lastActivation is
	// the manifest from the previous cycle, if the host kept one.
	Prepare(ctx context.Context, dataPath string, clean bool, lastActivation []Record) error

	// Activate deploys one mod rooted at sourcePath into
	// dataPath/dataPathRelative. A missing sourcePath is a skip, not an
	// error. blackList is accepted for interface compatibility; not every
	// method honors it.
	Activate(ctx context.Context, sourcePath, sourceName, dataPathRelative string, blackList []string) error

	// Finalize ends the cycle and returns the accumulated manifest.
	Finalize(ctx context.Context) ([]Record, error)

	// Purge removes the method's effect entirely.
	Purge(ctx context.Context, installPath, dataPath string) error

	// IsDeployed reports whether relPath is part of the current cycle's
	// manifest.
	IsDeployed(relPath string) bool

	// Deactivate withdraws a single mod, for methods that track per-mod
	// state.
	Deactivate(ctx context.Context, sourcePath, dataPathRelative string) error

	// ExternalChanges reports files changed in the data directory outside
	// the method's control, for methods that can detect this.
	ExternalChanges(ctx context.Context, installPath, dataPath string) ([]Record, error)

	// IsActive reports whether the method considers itself deployed
	// outside of a live cycle.
	IsActive() bool
}
