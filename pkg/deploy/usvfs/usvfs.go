// Package usvfs implements the virtual-filesystem deployment method. Nothing
// is written to the game's data directory; mods are made visible to the game
// by registering virtual directory links with the VFS engine, and the game
// only sees them when launched through the interception hook.
package usvfs

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modvfs/modvfs/pkg/deploy"
	"github.com/modvfs/modvfs/pkg/errors"
	"github.com/modvfs/modvfs/pkg/filesystem"
	"github.com/modvfs/modvfs/pkg/logging"
	"github.com/modvfs/modvfs/pkg/vfs"
	"github.com/modvfs/modvfs/pkg/winpath"
)

// MethodID is the identifier of this deployment method in the activator
// mapping.
const MethodID = "usvfs"

// gameDenylist maps game identifiers known to misbehave under the filesystem
// hook to the reason they are excluded.
var gameDenylist = map[string]string{
	// Starts through an out-of-process launcher the hook cannot follow.
	"fallout3": "This game starts through an external launcher that escapes the filesystem hook.",
	// The game's own IPC pipes conflict with the hook's pipe usage.
	"blackandwhite2": "This game opens named pipes that conflict with the filesystem hook.",
}

// Deployment is the usvfs deployment method. One value serves one host
// process; exactly one deployment cycle is live at a time.
type Deployment struct {
	logger     zerolog.Logger
	capability vfs.Capability
	fs         filesystem.FS
	translate  deploy.TranslateFunc

	// goos is the platform the support check sees. Overridable in tests.
	goos string

	mu       sync.Mutex
	prepared bool
	dataPath string
	records  []deploy.Record
}

// Option configures a Deployment.
type Option func(*Deployment)

// WithFS overrides the filesystem used for existence checks and enumeration.
func WithFS(fsys filesystem.FS) Option {
	return func(d *Deployment) { d.fs = fsys }
}

// WithTranslator wires the host's translation lookup into support reasons.
func WithTranslator(t deploy.TranslateFunc) Option {
	return func(d *Deployment) { d.translate = t }
}

// withGOOS fixes the platform seen by IsSupported. Test-only.
func withGOOS(goos string) Option {
	return func(d *Deployment) { d.goos = goos }
}

// New creates the usvfs deployment method on top of the given capability.
func New(capability vfs.Capability, opts ...Option) *Deployment {
	d := &Deployment{
		logger:     logging.GetLogger("deploy.usvfs"),
		capability: capability,
		fs:         filesystem.NewOSFS(),
		goos:       runtime.GOOS,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID implements deploy.Method.
func (d *Deployment) ID() string { return MethodID }

// Description implements deploy.Method.
func (d *Deployment) Description() string {
	return "Deploys mods into an in-memory virtual filesystem visible only to hooked game processes."
}

// IsSupported reports whether this method can serve gameID. The VFS engine
// only exists on Windows, and a few games are denylisted for known hook
// conflicts.
func (d *Deployment) IsSupported(gameID string) *deploy.Reason {
	if d.goos != "windows" {
		return &deploy.Reason{
			Code:     errors.ErrUnsupportedPlatform,
			Key:      "usvfs-unsupported-platform",
			Fallback: "Virtual filesystem deployment is only available on Windows.",
		}
	}
	if msg, denied := gameDenylist[gameID]; denied {
		return &deploy.Reason{
			Code:     errors.ErrUnsupportedGame,
			Key:      "usvfs-unsupported-game",
			Fallback: msg,
		}
	}
	return nil
}

// Prepare implements deploy.Method. It resets the in-memory session; with
// clean set it also clears all virtual mappings, which is a no-op when none
// exist.
func (d *Deployment) Prepare(ctx context.Context, dataPath string, clean bool, lastActivation []deploy.Record) error {
	if clean {
		if err := d.capability.ClearMappings(); err != nil {
			return errors.Wrap(err, errors.ErrVFSFailure, "failed to clear virtual mappings")
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.prepared = true
	d.dataPath = dataPath
	d.records = nil

	d.logger.Debug().Str("dataPath", dataPath).Bool("clean", clean).
		Int("lastActivation", len(lastActivation)).Msg("deployment cycle prepared")
	return nil
}

// Activate implements deploy.Method. A missing source path is a skip, not a
// failure. The virtual link is registered before the source tree is
// enumerated; an enumeration failure leaves the link in effect and only
// shortens the reported manifest.
//
// blackList is accepted for interface compatibility only: the virtual link
// covers the whole tree, so no per-file exclusion happens under this method.
func (d *Deployment) Activate(ctx context.Context, sourcePath, sourceName, dataPathRelative string, blackList []string) error {
	d.mu.Lock()
	if !d.prepared {
		d.mu.Unlock()
		return errors.New(errors.ErrSessionNotPrepared, "activate called before prepare")
	}
	dataPath := d.dataPath
	d.mu.Unlock()

	if _, err := d.fs.Stat(sourcePath); err != nil {
		d.logger.Debug().Str("source", sourcePath).Str("mod", sourceName).
			Msg("mod source path missing, skipping activation")
		return nil
	}

	target := winpath.Join(dataPath, dataPathRelative)
	if err := d.capability.LinkDirectory(sourcePath, target, vfs.LinkOptions{Recursive: true}); err != nil {
		return errors.Wrapf(err, errors.ErrVFSFailure, "failed to link %s onto %s", sourcePath, target)
	}

	records, err := d.enumerate(sourcePath, sourceName)

	d.mu.Lock()
	d.records = append(d.records, records...)
	d.mu.Unlock()

	if err != nil {
		// The link stays in effect; only the manifest is incomplete.
		d.logger.Warn().Err(err).Str("source", sourcePath).Str("mod", sourceName).
			Msg("mod tree enumeration failed, manifest will be incomplete")
	}
	return nil
}

// enumerate walks the mod's source tree and builds one record per file.
func (d *Deployment) enumerate(sourcePath, sourceName string) ([]deploy.Record, error) {
	var records []deploy.Record
	err := d.fs.Walk(sourcePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		records = append(records, deploy.Record{
			RelPath: winpath.Rel(sourcePath, path),
			Source:  sourceName,
			Time:    info.ModTime(),
		})
		return nil
	})
	return records, err
}

// Finalize implements deploy.Method. It returns the manifest accumulated
// since Prepare and never touches the VFS.
func (d *Deployment) Finalize(ctx context.Context) ([]deploy.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	manifest := make([]deploy.Record, len(d.records))
	copy(manifest, d.records)

	d.logger.Debug().Int("files", len(manifest)).Msg("deployment cycle finalized")
	return manifest, nil
}

// Purge implements deploy.Method. It clears all virtual mappings and drops
// the in-memory session, leaving the method indistinguishable from a freshly
// initialized one.
func (d *Deployment) Purge(ctx context.Context, installPath, dataPath string) error {
	if err := d.capability.ClearMappings(); err != nil {
		return errors.Wrap(err, errors.ErrVFSFailure, "failed to clear virtual mappings")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.prepared = false
	d.dataPath = ""
	d.records = nil

	d.logger.Debug().Str("dataPath", dataPath).Msg("virtual deployment purged")
	return nil
}

// IsDeployed implements deploy.Method with a linear scan over the current
// cycle's records. O(n) per call; callers probing many files pay O(n²),
// tolerable only because mod file counts stay small in practice.
func (d *Deployment) IsDeployed(relPath string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, record := range d.records {
		if record.RelPath == relPath {
			return true
		}
	}
	return false
}

// Deactivate implements deploy.Method. This method does not track per-mod
// deactivation; withdrawing a mod happens implicitly on the next cycle.
func (d *Deployment) Deactivate(ctx context.Context, sourcePath, dataPathRelative string) error {
	return nil
}

// ExternalChanges implements deploy.Method. The virtual view cannot be
// modified externally, so there is never anything to report.
func (d *Deployment) ExternalChanges(ctx context.Context, installPath, dataPath string) ([]deploy.Record, error) {
	return nil, nil
}

// IsActive implements deploy.Method. The virtual mapping is ephemeral; the
// method never reports a persistent activation state.
func (d *Deployment) IsActive() bool { return false }
