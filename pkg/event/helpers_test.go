// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"bytes"
	"log/slog"
)

// testEvent records the order in which subscribers saw it.
type testEvent struct {
	Base
	seen []string
}

func newTestEvent(cancellable bool) *testEvent {
	return &testEvent{Base: NewBase(cancellable)}
}

func (*testEvent) EventType() Type { return "test.event" }

type chainEvent struct {
	Base
	label string
}

func (*chainEvent) EventType() Type { return "test.chain" }

type unnamedEvent struct {
	Base
}

// conflictEvent claims the same Type as testEvent.
type conflictEvent struct {
	Base
}

func (*conflictEvent) EventType() Type { return "test.event" }

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// recorder returns a handler appending name to the event's seen list.
func recorder(name string) Handler[*testEvent] {
	return func(e *testEvent) error {
		e.seen = append(e.seen, name)
		return nil
	}
}
