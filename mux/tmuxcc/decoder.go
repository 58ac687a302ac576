// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import "strings"

// lineDecoder accumulates bytes into logical lines. Lines are LF
// terminated with an optional trailing CR, which is stripped. The
// buffer never contains a line feed: an LF always completes a line
// and resets the buffer.
//
// The decoder never fails. The remote peer's encoding is not under
// our control, so invalid UTF-8 degrades to replacement characters
// rather than aborting the stream.
//
// Not safe for concurrent use; Advance is confined to the single
// ingress goroutine.
type lineDecoder struct {
	buffer []byte
	emit   func(line string)
}

// Advance consumes one byte from the control-mode stream.
func (d *lineDecoder) Advance(b byte) {
	if b != '\n' {
		d.buffer = append(d.buffer, b)
		return
	}

	line := d.buffer
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	text := strings.ToValidUTF8(string(line), "�")

	// Reset before emitting so a completed line can never leak back
	// into the next one, whatever the handler does.
	d.buffer = d.buffer[:0]
	d.emit(text)
}
