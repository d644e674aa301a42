package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Default configuration file path, used when neither --config nor
// DEVICELINK_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

// newRootCmd builds the command tree. Without a subcommand the server runs.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "devicelink",
		Short: "DeviceLink device control and telemetry server",
		Long: `DeviceLink registers accounts and their network devices, stores the
readings devices send over HTTP, WebSocket or MQTT, and relays on/off
commands back to them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), resolveConfigPath(configPath))
		},
	}
	root.SetVersionTemplate("devicelink {{.Version}} (commit " + commit + ", built " + date + ")\n")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $DEVICELINK_CONFIG or "+defaultConfigPath+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the server (the default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), resolveConfigPath(configPath))
			},
		},
		newMigrateCmd(&configPath),
	)
	return root
}

// resolveConfigPath picks the flag value, then DEVICELINK_CONFIG, then the
// default path.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("DEVICELINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
