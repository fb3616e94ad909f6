// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/waymark/waymark/pkg/event"
)

// ChannelInfo describes one registered channel.
type ChannelInfo struct {
	Type        string   `json:"type"`
	Policy      string   `json:"policy"`
	Subscribers []string `json:"subscribers"`
}

type channelsConfig struct {
	jsonOutput bool
}

func newChannelsCmd() *cobra.Command {
	cfg := &channelsConfig{}

	cmd := &cobra.Command{
		Use:   "channels [pattern]",
		Short: "List event channels and their subscribers",
		Long: `List the built-in event channels after loading addons. An optional glob
pattern filters by event type; '*' matches one dot-separated segment and '**'
any number of them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "**"
			if len(args) == 1 {
				pattern = args[0]
			}
			return runChannels(cmd, cfg, pattern)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output channels as JSON")

	return cmd
}

func runChannels(cmd *cobra.Command, cfg *channelsConfig, pattern string) error {
	appCfg, logger, err := setup(cmd.Flags())
	if err != nil {
		return err
	}

	h := newHost(logger)
	defer h.close()
	if _, err := h.loadAddons(cmd.Context(), appCfg.AddonsDir); err != nil {
		return err
	}

	handles, err := h.registry.Match(pattern)
	if err != nil {
		return err
	}
	infos := describeChannels(handles)

	var output string
	if cfg.jsonOutput {
		output, err = formatChannelsJSON(infos)
		if err != nil {
			return oops.Wrapf(err, "format JSON")
		}
	} else {
		output = formatChannelsTable(infos)
	}

	cmd.Println(output)
	return nil
}

func describeChannels(handles []event.Handle) []ChannelInfo {
	infos := make([]ChannelInfo, 0, len(handles))
	for _, h := range handles {
		subs := h.Subscribers()
		if subs == nil {
			subs = []string{}
		}
		infos = append(infos, ChannelInfo{
			Type:        string(h.Type()),
			Policy:      h.Policy().String(),
			Subscribers: subs,
		})
	}
	return infos
}

func formatChannelsJSON(infos []ChannelInfo) (string, error) {
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatChannelsTable(infos []ChannelInfo) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "TYPE\tPOLICY\tSUBSCRIBERS")
	for _, info := range infos {
		subs := "-"
		if len(info.Subscribers) > 0 {
			subs = strings.Join(info.Subscribers, ",")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", info.Type, info.Policy, subs)
	}
	_ = w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}
