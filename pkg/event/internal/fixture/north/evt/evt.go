// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package evt declares a payload named Moved, like its sibling under
// fixture/south.
package evt

import "github.com/waymark/waymark/pkg/event"

// Moved carries no EventType, so its Type is derived from the Go type.
type Moved struct {
	event.Base
}
