// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

//go:build integration

package bus_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/waymark/waymark/pkg/mapevent"
)

var _ = Describe("Popup menu chain", func() {
	var (
		env   *testEnv
		calls []string
	)

	link := func(name string, entry string, cancel bool) func(*mapevent.PopupMenu) (*mapevent.PopupMenu, error) {
		return func(m *mapevent.PopupMenu) (*mapevent.PopupMenu, error) {
			calls = append(calls, name)
			next := m.WithEntries(append(m.Entries, entry)...)
			if cancel {
				Expect(next.Cancel()).To(Succeed())
			}
			return next, nil
		}
	}

	BeforeEach(func() {
		env = newTestEnv()
		calls = nil
	})

	It("stops at the first callback returning a cancelled menu", func() {
		env.channels.PopupMenu.SubscribeChain("c1", link("c1", "Hide", true))
		env.channels.PopupMenu.SubscribeChain("c2", link("c2", "Share", false))
		env.channels.PopupMenu.SubscribeChain("c3", link("c3", "Delete", false))

		out, err := env.channels.PopupMenu.Publish(mapevent.NewPopupMenu("overworld", mapevent.Position{}, "Create"))

		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"c1"}))
		Expect(out.IsCancelled()).To(BeTrue())
		Expect(out.Entries).To(Equal([]string{"Create", "Hide"}))
	})

	It("runs every callback in order and returns the last output when none cancel", func() {
		env.channels.PopupMenu.SubscribeChain("c1", link("c1", "Hide", false))
		env.channels.PopupMenu.SubscribeChain("c2", link("c2", "Share", false))
		env.channels.PopupMenu.SubscribeChain("c3", link("c3", "Delete", false))

		in := mapevent.NewPopupMenu("overworld", mapevent.Position{}, "Create")
		out, err := env.channels.PopupMenu.Publish(in)

		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"c1", "c2", "c3"}))
		Expect(out).NotTo(BeIdenticalTo(in))
		Expect(out.Entries).To(Equal([]string{"Create", "Hide", "Share", "Delete"}))
		Expect(in.Entries).To(Equal([]string{"Create"}))
	})
})
