// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Payload is a value published through the bus.
type Payload interface {
	// Timestamp is when the payload was constructed.
	Timestamp() time.Time
	// IsCancellable reports whether Cancel is permitted. Fixed at construction.
	IsCancellable() bool
	// IsCancelled reports whether Cancel has succeeded.
	IsCancelled() bool
	// Cancel marks the payload cancelled. It returns an ILLEGAL_CANCELLATION
	// error if the payload is not cancellable. Cancelling twice is a no-op.
	Cancel() error
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex

	// now is replaced in tests.
	now = time.Now
)

func newID(t time.Time) ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy)
}

// Base implements Payload and is meant to be embedded in payload structs.
// Payloads embedding Base must be published by pointer so that Cancel is
// visible to later subscribers and to the publisher.
type Base struct {
	id          ulid.ULID
	timestamp   time.Time
	world       string
	cancellable bool
	cancelled   bool
}

// BaseOption configures a Base at construction.
type BaseOption func(*Base)

// WithWorld tags the payload with the world or server it originated from.
func WithWorld(world string) BaseOption {
	return func(b *Base) {
		b.world = world
	}
}

// NewBase creates the envelope for a payload.
func NewBase(cancellable bool, opts ...BaseOption) Base {
	ts := now()
	b := Base{
		id:          newID(ts),
		timestamp:   ts,
		cancellable: cancellable,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// ID returns the unique payload ID.
func (b *Base) ID() ulid.ULID { return b.id }

// Timestamp returns the construction time.
func (b *Base) Timestamp() time.Time { return b.timestamp }

// World returns the world tag, or "" if none was set.
func (b *Base) World() string { return b.world }

// IsCancellable reports whether the payload may be cancelled.
func (b *Base) IsCancellable() bool { return b.cancellable }

// IsCancelled reports whether the payload has been cancelled.
func (b *Base) IsCancelled() bool { return b.cancelled }

// Cancel marks the payload cancelled.
func (b *Base) Cancel() error {
	if !b.cancellable {
		return ErrIllegalCancellation(b.id)
	}
	b.cancelled = true
	return nil
}
