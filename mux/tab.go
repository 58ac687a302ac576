// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import "sync"

// TabID identifies a tab within the mux. IDs are allocated by the
// mux's IDAllocator and are never reused for the life of the process.
type TabID int

// WindowID identifies a top-level window grouping of tabs. Windows are
// owned by the surrounding workspace; the mux only carries the
// identifier.
type WindowID int

// DomainID identifies a domain. Allocated once at domain construction
// from an injected IDAllocator; never reused.
type DomainID int

// PtySize describes terminal dimensions for spawn requests.
type PtySize struct {
	Rows    uint16
	Columns uint16
}

// Tab is an addressable terminal surface. The mux does not interpret
// the bytes flowing through a tab — it only provides identity and a
// writable channel.
//
// WriteInput is only ever called from the goroutine of the
// SerialExecutor that owns the tab's channel. Implementations do not
// need their own write locking as long as that discipline holds.
type Tab interface {
	// TabID returns the tab's mux-assigned identifier.
	TabID() TabID

	// Title returns a human-readable label for the tab.
	Title() string

	// WriteInput writes bytes to the tab's underlying channel.
	WriteInput(data []byte) error

	// Close releases the tab's resources. Called when the tab is
	// removed from the mux. Must be safe to call more than once.
	Close()
}

// IDAllocator hands out process-wide-unique integer identifiers.
// It is an explicit object, injected where needed, so that ID
// uniqueness does not depend on ambient global state.
//
// The zero value is ready to use. Safe for concurrent use.
type IDAllocator struct {
	mu   sync.Mutex
	next int
}

// Next returns the next identifier. The first call returns 1 so that
// the zero value of the ID types never collides with an allocated ID.
func (a *IDAllocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return a.next
}
