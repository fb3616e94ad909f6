// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package lua

import (
	"github.com/samber/oops"

	"github.com/waymark/waymark/pkg/event"
)

// Error codes for Lua addon failures.
const (
	CodeUndeclaredEvent = "UNDECLARED_EVENT"
	CodeUnknownEvent    = "UNKNOWN_EVENT"
	CodeScriptError     = "SCRIPT_ERROR"
)

// ErrUndeclaredEvent creates an error for a subscription the manifest does not allow.
func ErrUndeclaredEvent(addon string, typ event.Type) error {
	return oops.Code(CodeUndeclaredEvent).
		In("lua").
		With("addon", addon).
		With("event_type", string(typ)).
		Errorf("addon %s did not declare event %s", addon, typ)
}

// ErrUnknownEvent creates an error for a subscription to a type with no channel.
func ErrUnknownEvent(addon string, typ event.Type) error {
	return oops.Code(CodeUnknownEvent).
		In("lua").
		With("addon", addon).
		With("event_type", string(typ)).
		Errorf("no channel for event %s", typ)
}

func errScript(addon string, cause error) error {
	return oops.Code(CodeScriptError).
		In("lua").
		With("addon", addon).
		Wrap(cause)
}
