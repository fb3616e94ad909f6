// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/waymark/waymark/pkg/errutil"
)

// Handler observes a payload. A returned error is a subscriber fault.
type Handler[T Payload] func(T) error

// ChainHandler receives a payload and returns the payload passed to the next
// subscriber, which may be a different value than the one received.
type ChainHandler[T Payload] func(T) (T, error)

// Handle is the type-erased view of a channel used for introspection and by
// bridges that cannot name the payload type.
type Handle interface {
	Type() Type
	Policy() Policy
	// Subscribers returns subscriber identities in dispatch order.
	Subscribers() []string
	Len() int
	// SubscribePayload subscribes a handler that accepts any payload.
	SubscribePayload(subscriber string, h func(Payload) error)
}

var _ Handle = (*Channel[*Base])(nil)

type subscription[T Payload] struct {
	subscriber string
	fn         ChainHandler[T]
}

// Channel carries one payload type to its subscribers.
// Subscribing and publishing are safe for concurrent use.
type Channel[T Payload] struct {
	typ    Type
	policy Policy
	logger *slog.Logger

	mu      sync.Mutex
	subs    []subscription[T]
	invoker func(T) (T, error) // compiled short-circuit chain, nil when stale
}

func newChannel[T Payload](typ Type, policy Policy, logger *slog.Logger) *Channel[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel[T]{
		typ:    typ,
		policy: policy,
		logger: logger,
	}
}

// Type returns the payload type carried by the channel.
func (c *Channel[T]) Type() Type { return c.typ }

// Policy returns the dispatch policy fixed at creation.
func (c *Channel[T]) Policy() Policy { return c.policy }

// Len returns the number of subscriptions.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Subscribers returns the subscriber identities in dispatch order.
// A subscriber appears once per subscription.
func (c *Channel[T]) Subscribers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, len(c.subs))
	for i, sub := range c.subs {
		ids[i] = sub.subscriber
	}
	return ids
}

// Subscribe appends h to the channel. The subscriber identity is recorded for
// diagnostics only. Subscribing the same handler twice invokes it twice.
func (c *Channel[T]) Subscribe(subscriber string, h Handler[T]) {
	c.SubscribeChain(subscriber, func(e T) (T, error) {
		return e, h(e)
	})
}

// SubscribeChain appends a handler whose returned payload is passed on to
// the next subscriber.
func (c *Channel[T]) SubscribeChain(subscriber string, h ChainHandler[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, subscription[T]{subscriber: subscriber, fn: h})
	c.invoker = nil
}

// SubscribePayload subscribes a handler that accepts any payload.
func (c *Channel[T]) SubscribePayload(subscriber string, h func(Payload) error) {
	c.Subscribe(subscriber, func(e T) error {
		return h(e)
	})
}

// Publish dispatches e according to the channel policy and returns the final
// payload.
//
// Under PolicyRunAll every subscriber runs, faults are logged and skipped, and
// the returned error is always nil. Under PolicyShortCircuit dispatch stops at
// the first cancelled payload or at the first fault, which is returned.
func (c *Channel[T]) Publish(e T) (T, error) {
	start := time.Now()

	var err error
	if c.policy == PolicyShortCircuit {
		e, err = c.compiled()(e)
	} else {
		e = c.runAll(e)
	}

	recordPublish(c.typ, c.policy, e.IsCancelled(), time.Since(start))
	return e, err
}

// snapshot returns the subscriptions present when it is called. The slice is
// capped so appends by later subscriptions never become visible through it.
func (c *Channel[T]) snapshot() []subscription[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs[:len(c.subs):len(c.subs)]
}

func (c *Channel[T]) runAll(e T) T {
	for _, sub := range c.snapshot() {
		out, err := invoke(sub, e)
		if err == nil && isNil(out) {
			err = errNilPayload()
		}
		if err != nil {
			fault := ErrSubscriberFault(c.typ, sub.subscriber, err)
			errutil.LogError(c.logger, "event subscriber failed", fault)
			recordFault(c.typ, sub.subscriber)
			continue
		}
		e = out
	}
	return e
}

// invoke calls a subscription, converting a panic into an error.
func invoke[T Payload](sub subscription[T], e T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = e
			err = oops.With("panic", r).Errorf("panic: %v", r)
		}
	}()
	return sub.fn(e)
}

// isNil reports whether a subscriber handed back no payload.
func isNil(p Payload) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
