// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package xdg provides XDG Base Directory paths for waymark.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "waymark"

// ConfigDir returns the XDG config directory for waymark.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	return dir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for waymark.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	return dir("XDG_DATA_HOME", ".local", "share")
}

// ConfigFile returns the default path of the waymark config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// AddonsDir returns the default directory scanned for addons. Each addon
// lives in its own subdirectory holding an addon.yaml manifest.
func AddonsDir() string {
	return filepath.Join(DataDir(), "addons")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.With("path", path).Wrapf(err, "create directory")
	}
	return nil
}

func dir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		base = filepath.Join(append([]string{os.Getenv("HOME")}, fallback...)...)
	}
	return filepath.Join(base, appName)
}
