// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/waymark/waymark/internal/logging"
	"github.com/waymark/waymark/internal/xdg"
)

// Configuration keys. They double as flag names.
const (
	keyLogFormat   = "log-format"
	keyLogLevel    = "log-level"
	keyAddonsDir   = "addons-dir"
	keyMetricsAddr = "metrics-addr"
)

const defaultMetricsAddr = "127.0.0.1:9110"

// config is the merged configuration of a waymark invocation.
type config struct {
	LogFormat   string `koanf:"log-format"`
	LogLevel    string `koanf:"log-level"`
	AddonsDir   string `koanf:"addons-dir"`
	MetricsAddr string `koanf:"metrics-addr"`
}

// Validate checks that the configuration is valid.
func (cfg *config) Validate() error {
	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatText {
		return oops.Code("INVALID_CONFIG").
			With("key", keyLogFormat).
			Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return oops.Code("INVALID_CONFIG").With("key", keyLogLevel).Wrap(err)
	}
	if cfg.AddonsDir == "" {
		return oops.Code("INVALID_CONFIG").
			With("key", keyAddonsDir).
			Errorf("addons-dir is required")
	}
	return nil
}

// loadConfig merges flag defaults, the YAML config file and explicitly set
// flags, in increasing order of precedence. An explicit path must exist; the
// default path is optional.
func loadConfig(path string, flags *pflag.FlagSet) (*config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.In("config").With("path", path).Wrapf(err, "load config file")
		}
	}

	// Flags the user did not change only fill keys the file left unset.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.In("config").Wrapf(err, "load flags")
	}

	cfg := &config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, oops.In("config").Wrapf(err, "invalid configuration")
	}
	return cfg, nil
}

// setup loads the configuration and installs the default logger.
func setup(flags *pflag.FlagSet) (*config, *slog.Logger, error) {
	cfg, err := loadConfig(configFile, flags)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.SetDefault(logging.Options{
		Service: "waymark",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Writer:  os.Stderr,
	})
	if err != nil {
		return nil, nil, oops.In("config").Wrapf(err, "set up logging")
	}
	return cfg, logger, nil
}
