package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/clock"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// options collects the daemon flags.
	options = new(clock.Options)

	// rootCmd represents the base command for running the alarm clock daemon.
	rootCmd = &cobra.Command{
		Use:   "alarm-clock [listen-address]",
		Short: "Run the alarm clock daemon.",
		Long: `Starts the alarm clock daemon: a single alarm that can be armed for a time of day,
rings with a terminal bell and a desktop notification, and can be snoozed or stopped.

The daemon is controlled over gRPC (see alarm-ctl) and, when http_addr is set,
over a small HTTP API. The last armed time is remembered and pre-fills the next arm.
Listen address can be provided as argument to override config (e.g., :9090, 127.0.0.1:8080).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.ListenAddress = args[0]
			}

			return clock.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&options.HTTPAddress, "http", "", "HTTP listen address, overrides http_addr")
	flags.StringVarP(&options.ArmAt, "at", "a", "", "arm the alarm at start for this time of day (HH:MM)")
	flags.BoolVarP(&options.RepeatDaily, "daily", "d", false, "repeat the alarm armed with --at every day")
	flags.StringVarP(&options.Label, "label", "l", "", "label of the alarm armed with --at")
	flags.BoolVar(&options.AllowMultiple, "allow-multiple", false, "skip the single-instance check")
}
