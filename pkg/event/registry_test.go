// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/waymark/waymark/pkg/errutil"
)

type waypointTestEvent struct{ Base }

func (*waypointTestEvent) EventType() Type { return "waypoint.create" }

type deathTestEvent struct{ Base }

func (*deathTestEvent) EventType() Type { return "waypoint.death" }

type legacyDeathTestEvent struct{ Base }

func (*legacyDeathTestEvent) EventType() Type { return "waypoint.death.legacy" }

func TestChannelFor_ReturnsSameInstance(t *testing.T) {
	reg := NewRegistry()

	first := ChannelFor[*testEvent](reg)
	first.Subscribe("a", recorder("a"))

	second := ChannelFor[*testEvent](reg)
	second.Subscribe("b", recorder("b"))

	assert.Same(t, first, second)
	assert.Equal(t, []string{"a", "b"}, second.Subscribers())

	e := newTestEvent(false)
	_, err := first.Publish(e)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.seen)
}

func TestChannelFor_DefaultPolicyIsRunAll(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, PolicyRunAll, ChannelFor[*testEvent](reg).Policy())
	assert.Equal(t, PolicyShortCircuit, ChainFor[*chainEvent](reg).Policy())
}

func TestChannelFor_FirstPolicyWins(t *testing.T) {
	logger, buf := bufferLogger()
	reg := NewRegistry(WithLogger(logger))

	ch := ChainFor[*chainEvent](reg)
	again := ChannelFor[*chainEvent](reg, WithPolicy(PolicyRunAll))

	assert.Same(t, ch, again)
	assert.Equal(t, PolicyShortCircuit, again.Policy())
	assert.Contains(t, buf.String(), "event channel policy mismatch")
}

func TestChannelFor_NoWarningWithoutExplicitPolicy(t *testing.T) {
	logger, buf := bufferLogger()
	reg := NewRegistry(WithLogger(logger))

	ChainFor[*chainEvent](reg)
	ChannelFor[*chainEvent](reg)

	assert.NotContains(t, buf.String(), "policy mismatch")
}

func TestChannelFor_TypeConflictPanics(t *testing.T) {
	reg := NewRegistry()
	ChannelFor[*testEvent](reg)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		errutil.AssertErrorCode(t, err, CodeTypeConflict)
		errutil.AssertErrorContext(t, err, "event_type", "test.event")
	}()
	ChannelFor[*conflictEvent](reg)
}

func TestChannelFor_ConcurrentCreationYieldsOneChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := NewRegistry()
	const workers = 32

	results := make([]*Channel[*testEvent], workers)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := range workers {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			ch := ChannelFor[*testEvent](reg)
			ch.Subscribe("worker", func(*testEvent) error { return nil })
			results[i] = ch
		}()
	}
	start.Done()
	done.Wait()

	for _, ch := range results {
		assert.Same(t, results[0], ch)
	}
	assert.Equal(t, workers, results[0].Len())
	assert.Len(t, reg.All(), 1)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup("test.event")
	assert.False(t, ok)

	ch := ChannelFor[*testEvent](reg)
	h, ok := reg.Lookup("test.event")
	require.True(t, ok)
	assert.Same(t, ch, h)
}

func TestRegistry_AllIsSnapshot(t *testing.T) {
	reg := NewRegistry()
	ChannelFor[*testEvent](reg)
	ChainFor[*chainEvent](reg)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, PolicyShortCircuit, all["test.chain"].Policy())

	delete(all, "test.event")
	assert.Len(t, reg.All(), 2, "mutating the snapshot leaves the registry alone")
}

func TestRegistry_Match(t *testing.T) {
	reg := NewRegistry()
	ChannelFor[*deathTestEvent](reg)
	ChannelFor[*waypointTestEvent](reg)
	ChannelFor[*legacyDeathTestEvent](reg)
	ChannelFor[*testEvent](reg)

	tests := []struct {
		pattern string
		want    []Type
	}{
		{"waypoint.*", []Type{"waypoint.create", "waypoint.death"}},
		{"waypoint.**", []Type{"waypoint.create", "waypoint.death", "waypoint.death.legacy"}},
		{"*", nil},
		{"test.event", []Type{"test.event"}},
		{"**", []Type{"test.event", "waypoint.create", "waypoint.death", "waypoint.death.legacy"}},
		{"popup.*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			matched, err := reg.Match(tt.pattern)
			require.NoError(t, err)

			var got []Type
			for _, h := range matched {
				got = append(got, h.Type())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_MatchInvalidPattern(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Match("waypoint.[")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeInvalidPattern)
}
