// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package mux

// DomainState reports whether a domain's tabs are currently reachable.
type DomainState int

const (
	// DomainDetached means the domain's remote side is not connected
	// and its tabs are unavailable.
	DomainDetached DomainState = iota

	// DomainAttached means the domain is connected and its tabs are
	// live.
	DomainAttached
)

// String returns the lowercase name of the state.
func (s DomainState) String() string {
	switch s {
	case DomainAttached:
		return "attached"
	case DomainDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// SpawnRequest describes a new tab to be created inside a domain.
type SpawnRequest struct {
	// Size is the initial terminal size for the new tab.
	Size PtySize

	// Command is the argv to run. Empty means the domain's default
	// (typically a shell).
	Command []string

	// WorkingDirectory is the starting directory for the command.
	// Empty means the domain's default.
	WorkingDirectory string

	// Window is the workspace window the new tab should join.
	Window WindowID
}

// Domain is an independently lifecycled source of tabs. Implementations
// include local process domains (out of scope for this repository) and
// the embedded tmux control-mode domain in mux/tmuxcc.
type Domain interface {
	// DomainID returns the stable identifier assigned at construction.
	DomainID() DomainID

	// DomainName returns the constant name of the domain kind,
	// e.g. "tmux". Stable for the domain's lifetime.
	DomainName() string

	// State reports whether the domain is attached.
	State() DomainState

	// Attach connects the domain (or re-confirms an existing
	// connection) so its tabs become available.
	Attach() error

	// Detach disconnects the domain. Not every domain supports this.
	Detach() error

	// Spawn creates a new tab inside the domain. Not every domain
	// supports local spawning.
	Spawn(request SpawnRequest) (Tab, error)
}
