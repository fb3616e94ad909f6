// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package event implements the typed event bus addons use to observe and veto
// map events.
//
// A Registry holds at most one Channel per payload type. Channels dispatch in
// one of two ways, chosen when the channel is created:
//
//   - PolicyRunAll invokes every subscriber in registration order. Cancelling
//     the payload does not stop dispatch; the publisher checks IsCancelled
//     after Publish returns. Subscriber failures are logged and skipped.
//   - PolicyShortCircuit compiles the subscribers into a single chain that
//     stops at the first link returning a cancelled payload. Links may return a
//     different payload than they received. Failures stop the chain and are
//     returned to the publisher.
//
// Publishing is synchronous. Subscriptions added while a publish is in flight
// take effect from the next publish.
package event
