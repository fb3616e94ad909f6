// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gobwas/glob"
)

// Registry owns the channels of one process, at most one per payload Type.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	channels map[Type]Handle
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used by the registry and its channels.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		channels: make(map[Type]Handle),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

type channelConfig struct {
	policy    Policy
	policySet bool
}

// ChannelOption configures a channel at creation.
type ChannelOption func(*channelConfig)

// WithPolicy selects the dispatch policy of a new channel.
func WithPolicy(p Policy) ChannelOption {
	return func(c *channelConfig) {
		c.policy = p
		c.policySet = true
	}
}

// ChannelFor returns the channel for payload type T, creating it on first use.
// Options only apply when this call creates the channel. Concurrent first
// calls agree on a single channel.
//
// ChannelFor panics with a TYPE_CONFLICT error if another Go type already
// registered the same Type. Unnamed types are keyed by their package-qualified
// name, so this only happens when two distinct types return the same
// EventType() through Named.
func ChannelFor[T Payload](r *Registry, opts ...ChannelOption) *Channel[T] {
	typ := TypeOf[T]()
	cfg := channelConfig{policy: PolicyRunAll}
	for _, opt := range opts {
		opt(&cfg)
	}

	if h, ok := r.Lookup(typ); ok {
		return adopt[T](r, typ, h, cfg)
	}

	candidate := newChannel[T](typ, cfg.policy, r.logger)

	r.mu.Lock()
	h, exists := r.channels[typ]
	if !exists {
		r.channels[typ] = candidate
	}
	r.mu.Unlock()

	if exists {
		return adopt[T](r, typ, h, cfg)
	}

	r.logger.Debug("event channel created",
		"event_type", string(typ),
		"policy", cfg.policy.String())
	return candidate
}

// ChainFor returns the channel for T, creating it with PolicyShortCircuit.
func ChainFor[T Payload](r *Registry) *Channel[T] {
	return ChannelFor[T](r, WithPolicy(PolicyShortCircuit))
}

func adopt[T Payload](r *Registry, typ Type, h Handle, cfg channelConfig) *Channel[T] {
	ch, ok := h.(*Channel[T])
	if !ok {
		panic(errTypeConflict(typ, fmt.Sprintf("%T", h), fmt.Sprintf("%T", (*Channel[T])(nil))))
	}
	if cfg.policySet && cfg.policy != ch.policy {
		r.logger.Warn("event channel policy mismatch: keeping existing policy",
			"event_type", string(typ),
			"policy", ch.policy.String(),
			"requested", cfg.policy.String())
	}
	return ch
}

// Lookup returns the channel registered for typ.
func (r *Registry) Lookup(typ Type) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.channels[typ]
	return h, ok
}

// All returns every registered channel keyed by type.
// The returned map is a copy and safe to modify.
func (r *Registry) All() map[Type]Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[Type]Handle, len(r.channels))
	for typ, h := range r.channels {
		all[typ] = h
	}
	return all
}

// Match returns the channels whose type matches a glob pattern, sorted by
// type. Segments are separated by '.', so "waypoint.*" matches
// "waypoint.death" but not "waypoint.death.legacy"; "waypoint.**" matches both.
func (r *Registry) Match(pattern string) ([]Handle, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, errInvalidPattern(pattern, err)
	}

	r.mu.RLock()
	matched := make([]Handle, 0, len(r.channels))
	for typ, h := range r.channels {
		if g.Match(string(typ)) {
			matched = append(matched, h)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Type() < matched[j].Type()
	})
	return matched, nil
}
