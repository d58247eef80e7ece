package hook

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/modvfs/modvfs/pkg/deploy/usvfs"
	"github.com/modvfs/modvfs/pkg/errors"
	"github.com/modvfs/modvfs/pkg/events"
	"github.com/modvfs/modvfs/pkg/filesystem"
	"github.com/modvfs/modvfs/pkg/logging"
	"github.com/modvfs/modvfs/pkg/session"
	"github.com/modvfs/modvfs/pkg/vfs"
	"github.com/modvfs/modvfs/pkg/winpath"
)

// DefaultTrampolineRoot is the working directory of the command-interpreter
// trampoline itself.
const DefaultTrampolineRoot = `c:\`

// UsvfsHook intercepts game launches while the usvfs method is the active
// deployment method. It forces a pending deployment to complete, rewrites
// the launch to go through the VFS engine and cancels the original request.
type UsvfsHook struct {
	logger     zerolog.Logger
	capability vfs.Capability
	token      vfs.Token
	fs         filesystem.FS
	sess       *session.Context
	bus        *events.Bus

	trampolineRoot string
	processEnv     func() []string
}

// HookOption configures a UsvfsHook.
type HookOption func(*UsvfsHook)

// WithHookFS overrides the filesystem used for the executable-existence
// check.
func WithHookFS(fsys filesystem.FS) HookOption {
	return func(h *UsvfsHook) { h.fs = fsys }
}

// WithTrampolineRoot overrides the trampoline's own working directory.
func WithTrampolineRoot(root string) HookOption {
	return func(h *UsvfsHook) { h.trampolineRoot = root }
}

// WithProcessEnv overrides the process-environment source.
func WithProcessEnv(fn func() []string) HookOption {
	return func(h *UsvfsHook) { h.processEnv = fn }
}

// NewUsvfsHook creates the usvfs start hook.
func NewUsvfsHook(capability vfs.Capability, token vfs.Token, sess *session.Context, bus *events.Bus, opts ...HookOption) *UsvfsHook {
	h := &UsvfsHook{
		logger:         logging.GetLogger("hook.usvfs"),
		capability:     capability,
		token:          token,
		fs:             filesystem.NewOSFS(),
		sess:           sess,
		bus:            bus,
		trampolineRoot: DefaultTrampolineRoot,
		processEnv:     ProcessEnv,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements StartHook.
func (h *UsvfsHook) Name() string { return "usvfs" }

// Priority implements StartHook. The usvfs hook runs before ordinary hooks
// so nothing else acts on a request it is about to consume.
func (h *UsvfsHook) Priority() int { return events.PriorityFirst }

// Execute implements StartHook.
func (h *UsvfsHook) Execute(ctx context.Context, req *LaunchRequest) error {
	gameID := h.sess.ActiveGame()
	if h.sess.Activators.Get(gameID) != usvfs.MethodID {
		// Not our deployment method: pass the request through unchanged.
		return nil
	}

	// Force a deployment pass unless one is already in flight for reasons
	// unrelated to this hook.
	if !h.sess.Deploying() {
		if err := h.deployBeforeLaunch(ctx, gameID); err != nil {
			return err
		}
	}

	return h.launch(ctx, req)
}

// deployBeforeLaunch emits a hook-originated deployment trigger and suspends
// until the cycle settles. A failed cycle fails the launch.
func (h *UsvfsHook) deployBeforeLaunch(ctx context.Context, gameID string) error {
	request := events.NewDeployRequest(gameID, events.OriginHook)

	h.logger.Info().Str("game", gameID).Msg("forcing deployment before launch")
	if err := h.bus.Emit(events.TopicDeployMods, request); err != nil {
		return errors.Wrap(err, errors.ErrDeploymentCycle, "deployment trigger rejected")
	}
	if err := request.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.ErrDeploymentCycle, "deployment before launch failed")
	}
	return nil
}

// launch rewrites the request into a VFS hooked launch and converts the
// original request into a cancellation.
func (h *UsvfsHook) launch(ctx context.Context, req *LaunchRequest) error {
	environment := MergeEnvironment(h.processEnv(), req.Env)

	commandLine := JoinCommandLine(req.Executable, req.Args)
	workingDir := req.WorkingDir

	if _, err := h.fs.Stat(req.Executable); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrHookLaunchFailure, "cannot stat %s", req.Executable)
		}
		// The executable may belong to a mod and only become visible under
		// the virtual view. Run it through a command-interpreter trampoline
		// that changes into the right directory first. A heuristic, not a
		// guarantee.
		cwd := req.WorkingDir
		if cwd == "" {
			cwd = winpath.Dir(req.Executable)
		}
		commandLine = TrampolineCommandLine(cwd, commandLine)
		workingDir = h.trampolineRoot

		h.logger.Debug().Str("exe", req.Executable).Str("cwd", cwd).
			Msg("executable not on real disk, using trampoline launch")
	}

	if err := h.capability.LaunchHookedProcess(ctx, h.token, commandLine, workingDir, environment); err != nil {
		return errors.Wrapf(err, errors.ErrHookLaunchFailure, "hooked launch of %s failed", req.Executable)
	}

	h.logger.Info().Str("commandLine", commandLine).Str("workingDir", workingDir).
		Msg("process started under virtual filesystem")
	return ErrStartedViaVFS
}
