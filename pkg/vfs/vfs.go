// Package vfs defines the boundary to the external user-space virtual
// filesystem engine. The engine itself (mapping directories, intercepting
// filesystem calls of hooked processes) is a foreign system; this package
// only models its capability surface.
package vfs

import "context"

// Token identifies a created VFS instance for hooked-launch calls.
type Token string

// Config is the static initialization record supplied once when the
// capability instance is created.
type Config struct {
	LogLevel      string
	InstanceName  string
	DebugMode     bool
	CrashDumpPath string
	CrashDumpType string
}

// LinkOptions controls how a virtual directory link is established.
type LinkOptions struct {
	// Recursive links the whole tree below the source directory.
	Recursive bool
}

// Capability is the operation set exposed by a VFS instance.
type Capability interface {
	// LinkDirectory makes files under source appear, to hooked processes,
	// as if they existed under target.
	LinkDirectory(source, target string, opts LinkOptions) error

	// ClearMappings removes all virtual links. Clearing an empty mapping
	// set is a no-op, never an error.
	ClearMappings() error

	// LaunchHookedProcess starts commandLine under the filesystem hook.
	// environment is the full environment of the new process.
	LaunchHookedProcess(ctx context.Context, token Token, commandLine, workingDir string, environment map[string]string) error

	// SubscribeLogMessages streams engine log lines to onMessage until it
	// returns false or the subscription dies, in which case onError is
	// called once.
	SubscribeLogMessages(onMessage func(line string) bool, onError func(err error))
}

// Factory creates a capability instance from its initialization record.
type Factory interface {
	CreateInstance(cfg Config) (Capability, Token, error)
}
