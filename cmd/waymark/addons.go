// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/oops"

	"github.com/waymark/waymark/internal/addon"
	"github.com/waymark/waymark/internal/addon/lua"
	"github.com/waymark/waymark/pkg/errutil"
	"github.com/waymark/waymark/pkg/event"
	"github.com/waymark/waymark/pkg/mapevent"
)

// host owns the registry, the built-in channels and the addons loaded into
// them for one command invocation.
type host struct {
	registry *event.Registry
	channels mapevent.Channels
	addons   []*lua.Addon
	logger   *slog.Logger

	// onLoad observes each addon load attempt.
	onLoad func(err error)
}

func newHost(logger *slog.Logger) *host {
	reg := event.NewRegistry(event.WithLogger(logger))
	return &host{
		registry: reg,
		channels: mapevent.RegisterChannels(reg),
		logger:   logger,
	}
}

// loadAddons loads every addon directory under dir. A missing dir is not an
// error. Addons that fail to load are logged and skipped, and the number of
// failures is returned.
func (h *host) loadAddons(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.logger.Info("addons directory not found", "dir", dir)
			return 0, nil
		}
		return 0, oops.In("host").With("dir", dir).Wrapf(err, "read addons directory")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	failures := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		addonDir := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(addonDir, addon.ManifestFile)); err != nil {
			h.logger.Debug("skipping directory without manifest", "dir", addonDir)
			continue
		}

		a, err := lua.LoadDir(ctx, h.registry, addonDir, lua.WithLogger(h.logger))
		if h.onLoad != nil {
			h.onLoad(err)
		}
		if err != nil {
			failures++
			errutil.LogError(h.logger, "addon load failed", err, "dir", addonDir)
			continue
		}
		h.addons = append(h.addons, a)
		h.announce(a.Name(), mapevent.StageLoaded)
	}
	return failures, nil
}

// enable announces every loaded addon as enabled.
func (h *host) enable() {
	for _, a := range h.addons {
		h.announce(a.Name(), mapevent.StageEnabled)
	}
}

// close announces every addon as disabled and releases it.
func (h *host) close() {
	for _, a := range h.addons {
		h.announce(a.Name(), mapevent.StageDisabled)
		a.Close()
	}
	h.addons = nil
}

func (h *host) announce(name string, stage mapevent.LifecycleStage) {
	// Lifecycle events are not cancellable and their channel runs every
	// subscriber, so Publish cannot fail.
	_, _ = h.channels.AddonLifecycle.Publish(mapevent.NewAddonLifecycle(name, stage))
}
