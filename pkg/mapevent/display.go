// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package mapevent

import "github.com/waymark/waymark/pkg/event"

// DisplayUpdate notifies addons that the map display changed. It is a pure
// notification and cannot be cancelled.
type DisplayUpdate struct {
	event.Base
	Dimension string
	Zoom      float64
	Center    Position
}

// EventType implements event.Named.
func (*DisplayUpdate) EventType() event.Type { return TypeDisplayUpdate }

// NewDisplayUpdate creates a display update notification.
func NewDisplayUpdate(world, dimension string, zoom float64, center Position) *DisplayUpdate {
	return &DisplayUpdate{
		Base:      event.NewBase(false, event.WithWorld(world)),
		Dimension: dimension,
		Zoom:      zoom,
		Center:    center,
	}
}

// LifecycleStage is a step in an addon's lifetime.
type LifecycleStage string

// Lifecycle stages announced on the addon lifecycle channel.
const (
	StageLoaded   LifecycleStage = "loaded"
	StageEnabled  LifecycleStage = "enabled"
	StageDisabled LifecycleStage = "disabled"
)

// AddonLifecycle announces that an addon reached a lifecycle stage. Every
// subscriber must see it, so it cannot be cancelled.
type AddonLifecycle struct {
	event.Base
	Addon string
	Stage LifecycleStage
}

// EventType implements event.Named.
func (*AddonLifecycle) EventType() event.Type { return TypeAddonLifecycle }

// NewAddonLifecycle creates a lifecycle notification.
func NewAddonLifecycle(addon string, stage LifecycleStage) *AddonLifecycle {
	return &AddonLifecycle{
		Base:  event.NewBase(false),
		Addon: addon,
		Stage: stage,
	}
}
