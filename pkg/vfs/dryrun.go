package vfs

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modvfs/modvfs/pkg/logging"
)

// DryRunCapability implements Capability without a VFS engine behind it: it
// records mappings in memory and logs every operation instead of performing
// it. Used by the CLI driver to exercise the deployment lifecycle where the
// real engine is unavailable, and to preview what a deployment would map.
type DryRunCapability struct {
	logger zerolog.Logger

	mu    sync.Mutex
	links map[string]string
}

// NewDryRunCapability creates a dry-run capability instance.
func NewDryRunCapability() *DryRunCapability {
	return &DryRunCapability{
		logger: logging.GetLogger("vfs.dryrun"),
		links:  make(map[string]string),
	}
}

// LinkDirectory implements Capability.
func (d *DryRunCapability) LinkDirectory(source, target string, opts LinkOptions) error {
	d.mu.Lock()
	d.links[source] = target
	d.mu.Unlock()

	d.logger.Info().Str("source", source).Str("target", target).
		Bool("recursive", opts.Recursive).Msg("would link directory")
	return nil
}

// ClearMappings implements Capability.
func (d *DryRunCapability) ClearMappings() error {
	d.mu.Lock()
	count := len(d.links)
	d.links = make(map[string]string)
	d.mu.Unlock()

	d.logger.Info().Int("mappings", count).Msg("would clear all mappings")
	return nil
}

// LaunchHookedProcess implements Capability.
func (d *DryRunCapability) LaunchHookedProcess(ctx context.Context, token Token, commandLine, workingDir string, environment map[string]string) error {
	d.logger.Info().Str("commandLine", commandLine).Str("workingDir", workingDir).
		Int("env", len(environment)).Msg("would launch hooked process")
	return nil
}

// SubscribeLogMessages implements Capability. There is no engine, so no log
// lines ever arrive.
func (d *DryRunCapability) SubscribeLogMessages(onMessage func(line string) bool, onError func(err error)) {
}

// MappingCount returns the number of virtual links currently recorded.
func (d *DryRunCapability) MappingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.links)
}
