// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package addon reads and validates addon manifests.
package addon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/waymark/waymark/pkg/event"
)

// ManifestFile is the file name of an addon manifest inside its directory.
const ManifestFile = "addon.yaml"

// Manifest represents an addon.yaml file.
type Manifest struct {
	Name        string `yaml:"name" jsonschema:"required,minLength=1,maxLength=64,pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$"`
	Version     string `yaml:"version" jsonschema:"required,minLength=1"`
	Description string `yaml:"description,omitempty"`
	// API is a semver constraint on event.APIVersion, e.g. "^1.0". Empty accepts any.
	API   string `yaml:"api,omitempty"`
	Entry string `yaml:"entry" jsonschema:"required,minLength=1"`
	// Events lists glob patterns of event types the addon may subscribe to.
	// Empty allows all events.
	Events []string `yaml:"events,omitempty"`

	// Dir is the directory the manifest was read from.
	Dir string `yaml:"-"`

	patterns []glob.Glob
}

// maxNameLength is the maximum allowed length for addon names.
const maxNameLength = 64

// namePattern validates addon names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens, not ending with a hyphen.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses and validates addon.yaml content.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, errInvalidManifest("", "manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code(CodeInvalidManifest).In("addon").Wrapf(err, "invalid YAML")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadManifest reads dir/addon.yaml, checks it against the manifest schema
// and parses it.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.In("addon").With("path", path).Wrapf(err, "read manifest")
	}

	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code(CodeInvalidManifest).In("addon").With("path", path).Wrap(err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	m.Dir = dir
	return m, nil
}

// Validate checks manifest constraints and compiles the event patterns.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return errInvalidManifest("name",
			fmt.Sprintf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name))
	}
	if len(m.Name) > maxNameLength {
		return errInvalidManifest("name",
			fmt.Sprintf("name must be %d characters or less, got %d", maxNameLength, len(m.Name)))
	}

	if m.Version == "" {
		return errInvalidManifest("version", "version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return errInvalidManifest("version", fmt.Sprintf("version %q is not semver: %v", m.Version, err))
	}

	if m.API != "" {
		if _, err := semver.NewConstraint(m.API); err != nil {
			return errInvalidManifest("api", fmt.Sprintf("api %q is not a semver constraint: %v", m.API, err))
		}
	}

	if m.Entry == "" {
		return errInvalidManifest("entry", "entry is required")
	}
	if filepath.IsAbs(m.Entry) || strings.Contains(filepath.ToSlash(m.Entry), "..") {
		return errInvalidManifest("entry", fmt.Sprintf("entry %q must be a path inside the addon directory", m.Entry))
	}
	if filepath.Ext(m.Entry) != ".lua" {
		return errInvalidManifest("entry", fmt.Sprintf("entry %q must be a .lua file", m.Entry))
	}

	patterns := make([]glob.Glob, 0, len(m.Events))
	for _, p := range m.Events {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return errInvalidManifest("events", fmt.Sprintf("event pattern %q: %v", p, err))
		}
		patterns = append(patterns, g)
	}
	m.patterns = patterns

	return nil
}

// CheckAPI reports whether the manifest's API constraint accepts apiVersion.
func (m *Manifest) CheckAPI(apiVersion string) error {
	if m.API == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.API)
	if err != nil {
		return errInvalidManifest("api", fmt.Sprintf("api %q is not a semver constraint: %v", m.API, err))
	}
	v, err := semver.NewVersion(apiVersion)
	if err != nil {
		return oops.In("addon").With("api_version", apiVersion).Wrapf(err, "invalid event API version")
	}
	if !c.Check(v) {
		return ErrIncompatibleAPI(m.Name, m.API, apiVersion)
	}
	return nil
}

// Allows reports whether the addon declared typ in its events.
func (m *Manifest) Allows(typ event.Type) bool {
	if len(m.Events) == 0 {
		return true
	}
	if m.patterns == nil {
		if err := m.Validate(); err != nil {
			return false
		}
	}
	for _, g := range m.patterns {
		if g.Match(string(typ)) {
			return true
		}
	}
	return false
}

// EntryPath returns the path of the Lua entry script.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Entry)
}
