// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package mapevent

import (
	"slices"

	"github.com/waymark/waymark/pkg/event"
)

// PopupMenu is published while the right-click menu of the map is built.
// Its channel short-circuits: the first addon returning a cancelled menu
// suppresses it and later addons are not asked.
type PopupMenu struct {
	event.Base
	Position Position
	Entries  []string
}

// EventType implements event.Named.
func (*PopupMenu) EventType() event.Type { return TypePopupMenu }

// NewPopupMenu creates a popup menu event with the default entries.
func NewPopupMenu(world string, pos Position, entries ...string) *PopupMenu {
	return &PopupMenu{
		Base:     event.NewBase(true, event.WithWorld(world)),
		Position: pos,
		Entries:  entries,
	}
}

// WithEntries returns a new cancellable menu at the same position with the
// given entries. The receiver is not modified and its cancelled state is not
// carried over.
func (m *PopupMenu) WithEntries(entries ...string) *PopupMenu {
	return &PopupMenu{
		Base:     event.NewBase(true, event.WithWorld(m.World())),
		Position: m.Position,
		Entries:  slices.Clone(entries),
	}
}
