// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelsCommand_Table(t *testing.T) {
	dir := t.TempDir()
	writeAddon(t, dir, "nether-guard", "[waypoint.death]",
		`waymark.subscribe("waypoint.death", function(ev) ev:cancel() end)`)

	output, err := execute(t, context.Background(), "--addons-dir", dir, "channels")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 6)
	assert.Regexp(t, `^TYPE\s+POLICY\s+SUBSCRIBERS$`, lines[0])
	assert.Contains(t, output, "ui.popup_menu")
	assert.Regexp(t, `waypoint\.death\s+run-all\s+nether-guard`, output)
	assert.Regexp(t, `ui\.popup_menu\s+short-circuit\s+-`, output)
}

func TestChannelsCommand_JSONWithPattern(t *testing.T) {
	output, err := execute(t, context.Background(), "--addons-dir", t.TempDir(), "channels", "--json", "waypoint.*")
	require.NoError(t, err)

	var infos []ChannelInfo
	require.NoError(t, json.Unmarshal([]byte(output), &infos))

	require.Len(t, infos, 2)
	assert.Equal(t, "waypoint.create", infos[0].Type)
	assert.Equal(t, "waypoint.death", infos[1].Type)
	assert.Equal(t, "run-all", infos[1].Policy)
	assert.Empty(t, infos[1].Subscribers)
}

func TestChannelsCommand_InvalidPattern(t *testing.T) {
	_, err := execute(t, context.Background(), "--addons-dir", t.TempDir(), "channels", "waypoint.[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waypoint.[")
}
