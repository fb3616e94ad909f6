// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package mapevent declares the payloads the map publishes to addons.
//
// The payloads only carry data. Publishers construct them, publish them on the
// channel returned by the event registry, and check IsCancelled afterwards to
// decide whether to go ahead with the action.
package mapevent
