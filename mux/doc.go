// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package mux is the core multiplexer model: a registry of addressable
// terminal surfaces (tabs), the domain abstraction that supplies them,
// and the serial executor that owns write access to a tab's channel.
//
// A Domain is an independently lifecycled source of tabs — local
// processes, a remote session, or an embedded control-mode session
// like the one in mux/tmuxcc. Domains register the tabs they produce
// in the Mux, which hands out process-wide-unique identifiers from an
// explicit IDAllocator rather than ambient package state.
//
// Writes to a tab's underlying channel are confined to a single
// goroutine. Anything that needs to write posts a task to the
// SerialExecutor designated as the channel's owner; tasks run in FIFO
// order on that one goroutine, so no lock is needed around channel
// write access.
package mux
