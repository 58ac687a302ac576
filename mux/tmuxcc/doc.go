// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package tmuxcc embeds a foreign tmux session as a weft domain by
// speaking tmux's control-mode protocol (tmux -C) over an existing
// tab's byte channel.
//
// The package is organized around the protocol data flow:
//
//   - decoder.go: byte stream → logical lines, tolerant of malformed
//     encoding (ingress never fails)
//   - parser.go: lines → reply blocks and notifications
//     (%begin/%end/%error framing, everything else classified around it)
//   - commands.go: outgoing command dispatch, serialized onto the
//     executor goroutine that owns the embedding channel, with FIFO
//     reply correlation
//   - domain.go: the Domain controller gluing the above together and
//     exposing the mux.Domain surface
//   - windows.go: remote window reconciliation — listing replies
//     become local proxy tabs, %output feeds their ring buffers,
//     layout notifications schedule a debounced re-listing
//   - ringbuffer.go: per-window scrollback storage
//
// Ingress is single-owner: Domain.Advance is called from exactly one
// reader goroutine, which exclusively owns the decoder buffer and the
// parser state. Egress is deferred: commands are posted to the serial
// executor and written later from its goroutine, so sending never
// re-enters the ingress path.
package tmuxcc
