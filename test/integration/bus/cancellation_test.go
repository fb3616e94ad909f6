// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

//go:build integration

package bus_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/waymark/waymark/pkg/event"
	"github.com/waymark/waymark/pkg/mapevent"
)

var _ = Describe("Death waypoint cancellation", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	It("runs every subscriber and leaves the cancellation for the publisher to check", func() {
		var logged []string
		env.channels.DeathWaypoint.Subscribe("logger-a", func(e *mapevent.DeathWaypoint) error {
			logged = append(logged, e.Cause)
			return nil
		})
		env.channels.DeathWaypoint.Subscribe("canceller-b", func(e *mapevent.DeathWaypoint) error {
			return e.Cancel()
		})

		p := mapevent.NewDeathWaypoint("overworld", mapevent.Position{X: 10, Y: 64, Z: -3}, "creeper")
		out, err := env.channels.DeathWaypoint.Publish(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeIdenticalTo(p))
		Expect(p.IsCancelled()).To(BeTrue())
		Expect(logged).To(Equal([]string{"creeper"}))
	})

	It("still invokes later subscribers after an earlier one cancels", func() {
		var order []string
		for _, name := range []string{"s1", "s2", "s3"} {
			env.channels.DeathWaypoint.Subscribe(name, func(e *mapevent.DeathWaypoint) error {
				order = append(order, name)
				if name == "s1" {
					return e.Cancel()
				}
				return nil
			})
		}

		p := mapevent.NewDeathWaypoint("overworld", mapevent.Position{}, "fall")
		_, err := env.channels.DeathWaypoint.Publish(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal([]string{"s1", "s2", "s3"}))
		Expect(p.IsCancelled()).To(BeTrue())
	})

	It("keeps a cancelled payload cancelled when cancelled again", func() {
		p := mapevent.NewDeathWaypoint("overworld", mapevent.Position{}, "lava")

		Expect(p.Cancel()).To(Succeed())
		Expect(p.Cancel()).To(Succeed())
		Expect(p.IsCancelled()).To(BeTrue())
	})
})

var _ = Describe("Display update cancellation", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	It("refuses to cancel a non-cancellable payload", func() {
		var cancelErr error
		env.channels.DisplayUpdate.Subscribe("zoom-lock", func(e *mapevent.DisplayUpdate) error {
			cancelErr = e.Cancel()
			return nil
		})

		p := mapevent.NewDisplayUpdate("overworld", "minecraft:overworld", 2, mapevent.Position{})
		_, err := env.channels.DisplayUpdate.Publish(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(cancelErr).To(HaveOccurred())
		Expect(event.IsIllegalCancellation(cancelErr)).To(BeTrue())
		Expect(p.IsCancelled()).To(BeFalse())
	})

	It("logs the refused cancellation as a subscriber fault and keeps dispatching", func() {
		delivered := false
		env.channels.DisplayUpdate.Subscribe("zoom-lock", func(e *mapevent.DisplayUpdate) error {
			return e.Cancel()
		})
		env.channels.DisplayUpdate.Subscribe("renderer", func(*mapevent.DisplayUpdate) error {
			delivered = true
			return nil
		})

		p := mapevent.NewDisplayUpdate("overworld", "minecraft:overworld", 1, mapevent.Position{})
		_, err := env.channels.DisplayUpdate.Publish(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(delivered).To(BeTrue())
		Expect(p.IsCancelled()).To(BeFalse())
		Expect(env.logs.String()).To(ContainSubstring(event.CodeSubscriberFault))
		Expect(env.logs.String()).To(ContainSubstring("zoom-lock"))
	})
})
