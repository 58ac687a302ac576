// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import "sync"

// Mux is the registry mapping identifiers to live tabs and domains.
// It is the authority on which surfaces currently exist: domains add
// and remove tabs as their remote side changes, and anything holding a
// TabID resolves it here at the moment of use rather than caching the
// tab object.
//
// All methods are safe for concurrent use.
type Mux struct {
	mu      sync.Mutex
	tabs    map[TabID]Tab
	domains map[DomainID]Domain
	ids     *IDAllocator
}

// New creates an empty Mux using the given allocator for tab IDs.
// The same allocator may also be used for domain IDs so that every
// identifier in the process comes from one counter.
func New(ids *IDAllocator) *Mux {
	return &Mux{
		tabs:    make(map[TabID]Tab),
		domains: make(map[DomainID]Domain),
		ids:     ids,
	}
}

// AllocTabID reserves a new tab identifier. The caller registers the
// tab with AddTab once it is constructed.
func (m *Mux) AllocTabID() TabID {
	return TabID(m.ids.Next())
}

// AddTab registers a tab under its own TabID. Replaces any previous
// registration for that ID.
func (m *Mux) AddTab(tab Tab) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs[tab.TabID()] = tab
}

// Tab resolves a tab by ID. Returns nil if the tab no longer exists —
// callers must treat a nil result as "the target has disappeared", not
// as an error in the registry.
func (m *Mux) Tab(id TabID) Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs[id]
}

// RemoveTab unregisters a tab and closes it. Removing an unknown ID is
// a no-op: teardown paths race with each other by design and the
// second remover should not fail.
func (m *Mux) RemoveTab(id TabID) {
	m.mu.Lock()
	tab := m.tabs[id]
	delete(m.tabs, id)
	m.mu.Unlock()

	if tab != nil {
		tab.Close()
	}
}

// Tabs returns a snapshot of the currently registered tabs. The slice
// is freshly allocated; mutating it does not affect the registry.
func (m *Mux) Tabs() []Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	tabs := make([]Tab, 0, len(m.tabs))
	for _, tab := range m.tabs {
		tabs = append(tabs, tab)
	}
	return tabs
}

// AddDomain registers a domain.
func (m *Mux) AddDomain(domain Domain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains[domain.DomainID()] = domain
}

// Domain resolves a domain by ID. Returns nil if unknown.
func (m *Mux) Domain(id DomainID) Domain {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domains[id]
}

// Domains returns a snapshot of the registered domains.
func (m *Mux) Domains() []Domain {
	m.mu.Lock()
	defer m.mu.Unlock()
	domains := make([]Domain, 0, len(m.domains))
	for _, domain := range m.domains {
		domains = append(domains, domain)
	}
	return domains
}
