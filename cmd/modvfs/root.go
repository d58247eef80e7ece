package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/modvfs/modvfs/pkg/config"
	"github.com/modvfs/modvfs/pkg/events"
	"github.com/modvfs/modvfs/pkg/guard"
	"github.com/modvfs/modvfs/pkg/logging"
	"github.com/modvfs/modvfs/pkg/session"
	"github.com/modvfs/modvfs/pkg/vfs"
)

var (
	verbosity int
	gameID    string
	activator string

	cfg  *config.Config
	sess *session.Context
	bus  *events.Bus

	rootCmd = &cobra.Command{
		Use:   "modvfs",
		Short: "Virtual-filesystem mod deployment driver",
		Long: `modvfs drives the usvfs deployment method: mods stay where they are and a
virtual filesystem overlay makes them visible to game processes launched
through the interception hook. Nothing is written to the game's data
directory.

Outside Windows the commands run against a dry-run capability that records
and logs the mappings instead of establishing them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			sess = session.NewContext(cfg.Deploy.SettleDelay())
			sess.SetActiveGame(gameID)
			bus = events.NewBus()
			guard.Install(sess, bus)
			if gameID != "" {
				sess.Activators.Set(gameID, activator)
			}

			log.Debug().Str("command", cmd.Name()).Str("game", gameID).Msg("command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&gameID, "game", "", "Game identifier the deployment targets")
	rootCmd.PersistentFlags().StringVar(&activator, "activator", "usvfs", "Deployment method selected for the game")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(methodsCmd)
}

// newCapability returns the capability instance the commands run against.
// The real engine binding only exists on Windows builds; everywhere else the
// dry-run capability stands in.
func newCapability() (vfs.Capability, vfs.Token) {
	return vfs.NewDryRunCapability(), vfs.Token(cfg.VFS.InstanceName)
}
