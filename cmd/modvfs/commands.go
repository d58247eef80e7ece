package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modvfs/modvfs/pkg/deploy"
	"github.com/modvfs/modvfs/pkg/deploy/usvfs"
	"github.com/modvfs/modvfs/pkg/events"
	"github.com/modvfs/modvfs/pkg/hook"
	"github.com/modvfs/modvfs/pkg/registry"
	"github.com/modvfs/modvfs/pkg/vfs"
	"github.com/modvfs/modvfs/pkg/winpath"
)

var (
	dataPath   string
	modNames   []string
	workingDir string
)

// runCycle executes one full deployment cycle: prepare, one activate per mod
// directory, finalize. Mod directory base names double as source names.
func runCycle(cmd *cobra.Command, method deploy.Method, modDirs []string) ([]deploy.Record, error) {
	ctx := cmd.Context()

	if err := bus.Emit(events.TopicWillDeploy, events.Notice{GameID: gameID}); err != nil {
		return nil, err
	}
	defer func() {
		_ = bus.Emit(events.TopicDidDeploy, events.Notice{GameID: gameID})
	}()

	if err := method.Prepare(ctx, dataPath, true, nil); err != nil {
		return nil, err
	}
	for _, dir := range modDirs {
		if err := method.Activate(ctx, dir, winpath.Base(dir), "", nil); err != nil {
			return nil, err
		}
	}
	return method.Finalize(ctx)
}

var deployCmd = &cobra.Command{
	Use:   "deploy <mod-dir>...",
	Short: "Run one deployment cycle over the given mod directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capability, _ := newCapability()
		method := usvfs.New(capability)

		manifest, err := runCycle(cmd, method, args)
		if err != nil {
			return err
		}

		cmd.Printf("deployed %d file(s) virtually onto %s\n", len(manifest), dataPath)
		for _, record := range manifest {
			cmd.Printf("  %s  (%s)\n", record.RelPath, record.Source)
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Clear all virtual mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		capability, _ := newCapability()
		method := usvfs.New(capability)

		if err := method.Purge(cmd.Context(), "", dataPath); err != nil {
			return err
		}
		cmd.Println("virtual deployment purged")
		return nil
	},
}

var launchCmd = &cobra.Command{
	Use:   "launch <executable> [args...]",
	Short: "Launch an executable through the interception hook",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capability, token := newCapability()
		method := usvfs.New(capability)
		vfs.NewMonitor(nil).Attach(capability)

		// Stand in for the host: answer the hook's deployment trigger by
		// running a cycle over the configured mod directories.
		bus.Subscribe(events.TopicDeployMods, events.PriorityNormal, func(payload interface{}) error {
			request := payload.(*events.DeployRequest)
			_, err := runCycle(cmd, method, modNames)
			request.Complete(err)
			return nil
		})

		runner := hook.NewRunner(hook.NewUsvfsHook(capability, token, sess, bus))
		req := &hook.LaunchRequest{
			Executable: args[0],
			Args:       args[1:],
			WorkingDir: workingDir,
		}

		err := runner.Run(cmd.Context(), req)
		switch {
		case hook.StartedViaVFS(err):
			cmd.Println("process started under the virtual filesystem")
			return err
		case err != nil:
			return err
		default:
			cmd.Println("request passed through; usvfs is not the active deployment method")
			return nil
		}
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List deployment methods and their support status",
	RunE: func(cmd *cobra.Command, args []string) error {
		capability, _ := newCapability()

		methods := registry.New[deploy.Method]()
		if err := methods.Register(usvfs.MethodID, usvfs.New(capability)); err != nil {
			return err
		}

		for _, id := range methods.List() {
			method, err := methods.Get(id)
			if err != nil {
				return err
			}
			status := "supported"
			if reason := method.IsSupported(gameID); reason != nil {
				status = fmt.Sprintf("unavailable: %s", reason.Describe(nil))
			}
			cmd.Printf("%-10s %s\n", id, status)
			cmd.Printf("           %s\n", method.Description())
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&dataPath, "data-path", "", "Game data directory the mods map onto")
	_ = deployCmd.MarkFlagRequired("data-path")

	purgeCmd.Flags().StringVar(&dataPath, "data-path", "", "Game data directory the deployment targeted")

	launchCmd.Flags().StringVar(&dataPath, "data-path", "", "Game data directory the mods map onto")
	launchCmd.Flags().StringSliceVar(&modNames, "mod", nil, "Mod directory to deploy before launching (repeatable)")
	launchCmd.Flags().StringVar(&workingDir, "cwd", "", "Working directory for the launched process")
}
