// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/waymark/waymark/internal/logging"
	"github.com/waymark/waymark/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the waymark CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waymark",
		Short: "Waymark - event bus host for map addons",
		Long: `Waymark hosts map addons on a typed event bus. The commands here inspect
the bus, load Lua addons and replay the built-in map events through them.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/waymark/config.yaml)")
	flags.String(keyLogFormat, logging.FormatText, "log format (json or text)")
	flags.String(keyLogLevel, "info", "minimum log level (debug, info, warn, error)")
	flags.String(keyAddonsDir, xdg.AddonsDir(), "directory scanned for addons")
	flags.String(keyMetricsAddr, defaultMetricsAddr, "metrics/health HTTP address for serve (empty = disabled)")

	cmd.AddCommand(newChannelsCmd())
	cmd.AddCommand(newSimulateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
