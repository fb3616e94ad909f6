// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package mapevent

import "github.com/waymark/waymark/pkg/event"

// Event types of the built-in payloads.
const (
	TypeWaypointCreate event.Type = "waypoint.create"
	TypeDeathWaypoint  event.Type = "waypoint.death"
	TypeDisplayUpdate  event.Type = "display.update"
	TypePopupMenu      event.Type = "ui.popup_menu"
	TypeAddonLifecycle event.Type = "addon.lifecycle"
)

// Position is a block position in a world.
type Position struct {
	X, Y, Z int
}

// WaypointCreate is published before a waypoint is created. Cancelling it
// prevents the waypoint from being created.
type WaypointCreate struct {
	event.Base
	Name     string
	Position Position
	Color    string
}

// EventType implements event.Named.
func (*WaypointCreate) EventType() event.Type { return TypeWaypointCreate }

// WaypointOption configures a WaypointCreate at construction.
type WaypointOption func(*WaypointCreate)

// WithColor sets the waypoint's display color, such as "#ff8800".
func WithColor(color string) WaypointOption {
	return func(w *WaypointCreate) {
		w.Color = color
	}
}

// NewWaypointCreate creates a cancellable waypoint creation event.
func NewWaypointCreate(world, name string, pos Position, opts ...WaypointOption) *WaypointCreate {
	w := &WaypointCreate{
		Base:     event.NewBase(true, event.WithWorld(world)),
		Name:     name,
		Position: pos,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DeathWaypoint is published before the map drops a waypoint where the player
// died. Cancelling it suppresses the waypoint.
type DeathWaypoint struct {
	event.Base
	Position Position
	Cause    string
}

// EventType implements event.Named.
func (*DeathWaypoint) EventType() event.Type { return TypeDeathWaypoint }

// NewDeathWaypoint creates a cancellable death waypoint event.
func NewDeathWaypoint(world string, pos Position, cause string) *DeathWaypoint {
	return &DeathWaypoint{
		Base:     event.NewBase(true, event.WithWorld(world)),
		Position: pos,
		Cause:    cause,
	}
}
