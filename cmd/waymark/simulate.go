// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/waymark/waymark/pkg/event"
	"github.com/waymark/waymark/pkg/mapevent"
)

// Outcome is the result of publishing one simulated event.
type Outcome struct {
	Type   event.Type
	Status string
	Detail string
}

// Outcome statuses.
const (
	statusDelivered = "delivered"
	statusCancelled = "cancelled"
	statusFailed    = "failed"
)

type simulateConfig struct {
	world string
	color string
	x     int
	y     int
	z     int
}

func newSimulateCmd() *cobra.Command {
	cfg := &simulateConfig{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Publish one event of each built-in kind through the loaded addons",
		Long: `Load addons, then publish a waypoint creation, a death waypoint, a display
update and a popup menu, reporting whether each was delivered, cancelled or
rejected by a subscriber.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.world, "world", "overworld", "world the simulated events happen in")
	cmd.Flags().StringVar(&cfg.color, "color", "#ffffff", "color of the simulated waypoint")
	cmd.Flags().IntVar(&cfg.x, "x", 0, "x coordinate of the simulated events")
	cmd.Flags().IntVar(&cfg.y, "y", 64, "y coordinate of the simulated events")
	cmd.Flags().IntVar(&cfg.z, "z", 0, "z coordinate of the simulated events")

	return cmd
}

func runSimulate(cmd *cobra.Command, cfg *simulateConfig) error {
	appCfg, logger, err := setup(cmd.Flags())
	if err != nil {
		return err
	}

	h := newHost(logger)
	defer h.close()
	if _, err := h.loadAddons(cmd.Context(), appCfg.AddonsDir); err != nil {
		return err
	}
	h.enable()

	outcomes := simulate(h.channels, cfg.world, cfg.color, mapevent.Position{X: cfg.x, Y: cfg.y, Z: cfg.z})
	cmd.Println(formatOutcomes(outcomes))
	return nil
}

// simulate publishes one event of each built-in kind and records what the
// subscribers did with it.
func simulate(ch mapevent.Channels, world, color string, pos mapevent.Position) []Outcome {
	outcomes := make([]Outcome, 0, 4)

	wp, err := ch.WaypointCreate.Publish(mapevent.NewWaypointCreate(world, "simulated", pos, mapevent.WithColor(color)))
	outcomes = append(outcomes, outcomeOf(wp, err, wp.Name+" "+wp.Color))

	death, err := ch.DeathWaypoint.Publish(mapevent.NewDeathWaypoint(world, pos, "simulated"))
	outcomes = append(outcomes, outcomeOf(death, err, death.Cause))

	display, err := ch.DisplayUpdate.Publish(mapevent.NewDisplayUpdate(world, world, 1, pos))
	outcomes = append(outcomes, outcomeOf(display, err, fmt.Sprintf("zoom %.2f", display.Zoom)))

	menu, err := ch.PopupMenu.Publish(mapevent.NewPopupMenu(world, pos, "Create waypoint"))
	outcomes = append(outcomes, outcomeOf(menu, err, strings.Join(menu.Entries, ", ")))

	return outcomes
}

func outcomeOf(p event.Payload, err error, detail string) Outcome {
	typ := p.(event.Named).EventType()
	switch {
	case err != nil:
		return Outcome{Type: typ, Status: statusFailed, Detail: err.Error()}
	case p.IsCancelled():
		return Outcome{Type: typ, Status: statusCancelled, Detail: detail}
	default:
		return Outcome{Type: typ, Status: statusDelivered, Detail: detail}
	}
}

func formatOutcomes(outcomes []Outcome) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "EVENT\tOUTCOME\tDETAIL")
	for _, o := range outcomes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", o.Type, o.Status, o.Detail)
	}
	_ = w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}
