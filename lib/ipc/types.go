// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc defines the request/response types for the weftd status
// socket. Messages are CBOR-encoded (lib/codec) over a local Unix
// socket, one request/response pair per connection.
//
// The types carry json tags rather than cbor tags: fxamacker/cbor
// reads json tags as fallback, and weft-status re-serializes the same
// structures as JSON for --json output. A single tag controls field
// naming in both formats.
package ipc

// Actions understood by the weftd status socket.
const (
	// ActionStatus returns domain identity and aggregate counters.
	ActionStatus = "status"

	// ActionListWindows returns the currently mirrored remote windows.
	ActionListWindows = "list-windows"

	// ActionTail returns ring buffer contents for one remote window.
	ActionTail = "tail"
)

// Request is a client request to weftd.
type Request struct {
	// Action is one of the Action* constants.
	Action string `json:"action"`

	// Window is the remote window identifier for ActionTail
	// (e.g. "@3"). Ignored by other actions.
	Window string `json:"window,omitempty"`

	// MaxBytes caps the history returned by ActionTail. Zero means
	// the whole ring buffer.
	MaxBytes int `json:"max_bytes,omitempty"`
}

// WindowInfo describes one remote window mirrored as a local tab.
type WindowInfo struct {
	// Session is the remote session name the window belongs to.
	Session string `json:"session"`

	// Window is the remote window identifier (e.g. "@3").
	Window string `json:"window"`

	// Width and Height are the remote window dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// TabID is the local mux tab identifier of the proxy.
	TabID int `json:"tab_id"`

	// OutputBytes is the total number of output bytes ever delivered
	// to the proxy's ring buffer (not the retained amount).
	OutputBytes uint64 `json:"output_bytes"`
}

// Response is weftd's reply. Error is set and OK false when the
// request could not be served; the connection closes after the
// response either way.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	// Version is the weftd build version (ActionStatus).
	Version string `json:"version,omitempty"`

	// DomainID, DomainName, and DomainState describe the embedded
	// domain (ActionStatus).
	DomainID    int    `json:"domain_id,omitempty"`
	DomainName  string `json:"domain_name,omitempty"`
	DomainState string `json:"domain_state,omitempty"`

	// Windows is the mirrored window list (ActionStatus and
	// ActionListWindows).
	Windows []WindowInfo `json:"windows,omitempty"`

	// History is ring buffer content for ActionTail, encoded per
	// HistoryCompression.
	History []byte `json:"history,omitempty"`

	// HistoryCompression is "zstd" or "none". Tail payloads are
	// compressed only when compression actually shrinks them;
	// terminal output that is mostly escape sequences sometimes
	// doesn't.
	HistoryCompression string `json:"history_compression,omitempty"`
}
