// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import "reflect"

// Type identifies a payload type on the bus.
type Type string

// Named is implemented by payload types that choose their own Type.
// EventType is called on the zero value of the payload type, so for pointer
// payloads it must not dereference its receiver.
type Named interface {
	EventType() Type
}

// TypeOf returns the Type of payload type T. Types that do not implement
// Named get their package-qualified Go name, such as
// "*github.com/acme/addon/evt.Moved", so same-named types from different
// packages never share a channel.
func TypeOf[T Payload]() Type {
	var zero T
	if n, ok := any(zero).(Named); ok {
		return n.EventType()
	}
	return Type(qualifiedName(reflect.TypeFor[T]()))
}

func qualifiedName(t reflect.Type) string {
	prefix := ""
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		prefix += "*"
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return prefix + t.String()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}

// Policy selects how a channel dispatches to its subscribers.
type Policy uint8

const (
	// PolicyRunAll invokes every subscriber regardless of cancellation.
	PolicyRunAll Policy = iota
	// PolicyShortCircuit stops at the first subscriber returning a cancelled payload.
	PolicyShortCircuit
)

func (p Policy) String() string {
	switch p {
	case PolicyRunAll:
		return "run-all"
	case PolicyShortCircuit:
		return "short-circuit"
	default:
		return "unknown"
	}
}

// APIVersion is the version of the addon event API. Addon manifests declare
// a semver constraint against it.
const APIVersion = "1.2.0"
