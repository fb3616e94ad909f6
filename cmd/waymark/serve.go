// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/waymark/waymark/internal/observability"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load addons and serve metrics and health checks until interrupted",
		Long: `Load addons into the event bus and serve Prometheus metrics and health
checks on metrics-addr. Readiness turns ok once every addon has been tried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ready atomic.Bool
	h := newHost(logger)
	defer h.close()

	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, ready.Load, logger)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.In("serve").Wrapf(err, "start observability server")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := obsServer.Stop(shutdownCtx); err != nil {
				logger.Warn("error stopping observability server", "error", err)
			}
		}()
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)

		h.onLoad = obsServer.Metrics().RecordAddonLoad
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	failures, err := h.loadAddons(ctx, cfg.AddonsDir)
	if err != nil {
		return err
	}
	h.enable()
	ready.Store(true)

	cmd.Printf("Serving %d addon(s), %d failed to load\n", len(h.addons), failures)
	logger.Info("waymark ready", "addons", len(h.addons), "failures", failures)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	ready.Store(false)
	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels ctx when a background server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
