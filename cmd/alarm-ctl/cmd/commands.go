package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/service/ctl"
)

func newArmCommand() *cobra.Command {
	var arm ctl.ArmOptions

	cmd := &cobra.Command{
		Use:   "arm [HH:MM]",
		Short: "Arm the alarm for the next occurrence of a time of day.",
		Long: `Arms the alarm. A time that already passed today rings tomorrow.
Without a time or preset the last armed time is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				arm.Time = args[0]
			}

			return ctl.Arm(cmd.Context(), options, arm)
		},
	}

	cmd.Flags().StringVarP(&arm.Preset, "preset", "p", "",
		"named preset from the daemon configuration; an unknown name lists the configured ones")
	cmd.Flags().BoolVarP(&arm.RepeatDaily, "daily", "d", false, "re-arm for the next day when stopped")
	cmd.Flags().StringVarP(&arm.Label, "label", "l", "", "label shown when the alarm rings")

	return cmd
}

func newSnoozeCommand() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "snooze",
		Short: "Silence a ringing alarm for a few minutes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctl.Snooze(cmd.Context(), options, minutes)
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "snooze length, the daemon default when zero")

	return cmd
}

func newStopCommand() *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the alarm.",
		Long: `Stops a ringing alarm. A daily alarm is re-armed for tomorrow;
use --cancel to disarm it completely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctl.Stop(cmd.Context(), options, cancel)
		},
	}

	cmd.Flags().BoolVar(&cancel, "cancel", false, "also disarm a pending or daily alarm")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the alarm state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctl.Status(cmd.Context(), options)
		},
	}
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a countdown until the alarm rings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctl.Watch(cmd.Context(), options, interval)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", ctl.DefaultWatchInterval, "poll interval")

	return cmd
}

func newConfigCommand() *cobra.Command {
	var force bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file.",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ctl.InitConfig(options.ConfigPath, force)
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
