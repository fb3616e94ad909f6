// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package mapevent

import "github.com/waymark/waymark/pkg/event"

// Channels groups the built-in channels.
type Channels struct {
	WaypointCreate *event.Channel[*WaypointCreate]
	DeathWaypoint  *event.Channel[*DeathWaypoint]
	DisplayUpdate  *event.Channel[*DisplayUpdate]
	PopupMenu      *event.Channel[*PopupMenu]
	AddonLifecycle *event.Channel[*AddonLifecycle]
}

// RegisterChannels creates the built-in channels on r, or returns them if
// they already exist. The popup menu channel short-circuits; all others run
// every subscriber.
func RegisterChannels(r *event.Registry) Channels {
	return Channels{
		WaypointCreate: event.ChannelFor[*WaypointCreate](r),
		DeathWaypoint:  event.ChannelFor[*DeathWaypoint](r),
		DisplayUpdate:  event.ChannelFor[*DisplayUpdate](r),
		PopupMenu:      event.ChainFor[*PopupMenu](r),
		AddonLifecycle: event.ChannelFor[*AddonLifecycle](r),
	}
}
