// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

//go:build integration

package bus_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/waymark/waymark/internal/addon"
	"github.com/waymark/waymark/internal/addon/lua"
	"github.com/waymark/waymark/pkg/event"
	"github.com/waymark/waymark/pkg/mapevent"
)

var _ = Describe("Registry", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	It("returns the same channel for the same payload type", func() {
		first := event.ChannelFor[*mapevent.DeathWaypoint](env.registry)
		first.Subscribe("early", func(*mapevent.DeathWaypoint) error { return nil })

		second := event.ChannelFor[*mapevent.DeathWaypoint](env.registry)

		Expect(second).To(BeIdenticalTo(first))
		Expect(second).To(BeIdenticalTo(env.channels.DeathWaypoint))
		Expect(second.Subscribers()).To(Equal([]string{"early"}))
	})

	It("lists the built-in channels by pattern", func() {
		handles, err := env.registry.Match("waypoint.*")
		Expect(err).NotTo(HaveOccurred())

		types := make([]event.Type, 0, len(handles))
		for _, h := range handles {
			types = append(types, h.Type())
		}
		Expect(types).To(Equal([]event.Type{mapevent.TypeWaypointCreate, mapevent.TypeDeathWaypoint}))
	})
})

var _ = Describe("Lua addon on the death waypoint channel", func() {
	var (
		env *testEnv
		dir string
	)

	BeforeEach(func() {
		env = newTestEnv()
		dir = GinkgoT().TempDir()

		manifest := "name: nether-guard\nversion: 1.0.0\napi: ^1.2\nentry: main.lua\nevents: [waypoint.death]\n"
		script := `
waymark.subscribe("waypoint.death", function(ev)
  if ev:world() == "nether" then
    ev:cancel()
  end
end)
`
		Expect(os.WriteFile(filepath.Join(dir, addon.ManifestFile), []byte(manifest), 0o600)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "main.lua"), []byte(script), 0o600)).To(Succeed())
	})

	It("cancels after a Go logger subscribed earlier has run", func() {
		var logged []string
		env.channels.DeathWaypoint.Subscribe("logger-a", func(e *mapevent.DeathWaypoint) error {
			logged = append(logged, e.World())
			return nil
		})

		a, err := lua.LoadDir(context.Background(), env.registry, dir, lua.WithLogger(env.logger))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(a.Close)

		Expect(env.channels.DeathWaypoint.Subscribers()).To(Equal([]string{"logger-a", "nether-guard"}))

		nether := mapevent.NewDeathWaypoint("nether", mapevent.Position{}, "ghast")
		_, err = env.channels.DeathWaypoint.Publish(nether)
		Expect(err).NotTo(HaveOccurred())
		Expect(nether.IsCancelled()).To(BeTrue())

		overworld := mapevent.NewDeathWaypoint("overworld", mapevent.Position{}, "fall")
		_, err = env.channels.DeathWaypoint.Publish(overworld)
		Expect(err).NotTo(HaveOccurred())
		Expect(overworld.IsCancelled()).To(BeFalse())

		Expect(logged).To(Equal([]string{"nether", "overworld"}))
	})
})
