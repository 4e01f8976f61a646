// Package main starts the PinchPoint server.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// main is the entrypoint for the PinchPoint CLI.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logFatal(err)
	}
}

// newRootCmd builds the command tree. Running without a subcommand serves.
func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "pinchpoint",
		Short:         "Hand-tracked pointer control for the local desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(debug)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose debug logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newReplayCmd())
	return root
}

// newServeCmd returns the serve command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// setupLogging installs the console logger on stderr.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Debug().Msg("debug logging enabled")
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Error().Err(err).Msg("fatal")
	os.Exit(1)
}
