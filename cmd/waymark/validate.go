// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/waymark/waymark/internal/addon"
	"github.com/waymark/waymark/pkg/event"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <addon.yaml|addon-dir>",
		Short: "Validate an addon manifest",
		Long: `Validate an addon manifest against the manifest schema, its semantic
rules and the event API version of this build. The argument is either the
manifest file or the addon directory holding it.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, args []string) error {
			m, err := validateManifest(args[0])
			if err != nil {
				cmd.PrintErrf("%s: invalid: %s\n", args[0], addon.FormatSchemaError(err))
				return err
			}
			cmd.Printf("%s: ok (%s %s, %d event pattern(s))\n", args[0], m.Name, m.Version, len(m.Events))
			return nil
		},
	}
}

func validateManifest(path string) (*addon.Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, oops.In("validate").With("path", path).Wrapf(err, "stat manifest")
	}

	dir := path
	if !info.IsDir() {
		if filepath.Base(path) != addon.ManifestFile {
			return nil, oops.In("validate").
				With("path", path).
				Errorf("manifest file must be named %s", addon.ManifestFile)
		}
		dir = filepath.Dir(path)
	}

	m, err := addon.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if err := m.CheckAPI(event.APIVersion); err != nil {
		return nil, err
	}
	if _, err := os.Stat(m.EntryPath()); err != nil {
		return nil, oops.Code(addon.CodeInvalidManifest).
			In("validate").
			With("entry", m.Entry).
			Wrapf(err, "entry script not found")
	}
	return m, nil
}
