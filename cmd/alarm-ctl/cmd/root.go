package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/ctl"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// options holds the connection flags shared by every subcommand.
	options = new(ctl.Options)

	// rootCmd represents the base command of the control client.
	rootCmd = &cobra.Command{
		Use:   "alarm-ctl",
		Short: "Control a running alarm clock daemon.",
		Long: `Arms, snoozes and stops the alarm of a running alarm-clock daemon over gRPC,
shows its state and follows the countdown.`,
		SilenceUsage: true,
	}
)

// Execute runs the alarm-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Ctrl+C ends watch cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.ServerAddress, "server", "s", "", "daemon address, overrides server_addr")
	flags.BoolVar(&options.Verbose, "verbose", false, "log debug messages")

	rootCmd.AddCommand(newArmCommand(), newSnoozeCommand(), newStopCommand(),
		newStatusCommand(), newWatchCommand(), newConfigCommand())
}
