// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Error codes for event bus failures.
const (
	CodeIllegalCancellation = "ILLEGAL_CANCELLATION"
	CodeSubscriberFault     = "SUBSCRIBER_FAULT"
	CodeTypeConflict        = "TYPE_CONFLICT"
	CodeInvalidPattern      = "INVALID_PATTERN"
)

// ErrIllegalCancellation creates an error for Cancel on a non-cancellable payload.
func ErrIllegalCancellation(id ulid.ULID) error {
	return oops.Code(CodeIllegalCancellation).
		In("event").
		With("event_id", id.String()).
		Errorf("event %s is not cancellable", id)
}

// ErrSubscriberFault reports a failure raised by a subscriber during dispatch.
// The cause is recorded by message and code rather than wrapped, so the
// SUBSCRIBER_FAULT code is not shadowed by a code carried by the cause.
func ErrSubscriberFault(typ Type, subscriber string, cause error) error {
	builder := oops.Code(CodeSubscriberFault).
		In("event").
		With("event_type", string(typ)).
		With("subscriber", subscriber)
	if causeErr, ok := oops.AsOops(cause); ok {
		if code := causeErr.Code(); code != nil && code != "" {
			builder = builder.With("cause_code", code)
		}
	}
	return builder.Errorf("subscriber %q failed handling %s: %v", subscriber, typ, cause)
}

func errTypeConflict(typ Type, existing, requested string) error {
	return oops.Code(CodeTypeConflict).
		In("event").
		With("event_type", string(typ)).
		With("existing", existing).
		With("requested", requested).
		Errorf("event type %s already registered for %s", typ, existing)
}

func errNilPayload() error {
	return oops.In("event").Errorf("subscriber returned a nil payload")
}

func errInvalidPattern(pattern string, cause error) error {
	return oops.Code(CodeInvalidPattern).
		In("event").
		With("pattern", pattern).
		Wrapf(cause, "invalid event type pattern %q", pattern)
}

// IsIllegalCancellation reports whether err carries the ILLEGAL_CANCELLATION code.
func IsIllegalCancellation(err error) bool {
	return hasCode(err, CodeIllegalCancellation)
}

// IsSubscriberFault reports whether err carries the SUBSCRIBER_FAULT code.
func IsSubscriberFault(err error) bool {
	return hasCode(err, CodeSubscriberFault)
}

func hasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
