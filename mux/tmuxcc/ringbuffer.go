// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import "sync"

// DefaultRingBufferSize is the default per-window scrollback capacity
// in bytes. 1 MiB holds hours of typical terminal output.
const DefaultRingBufferSize = 1024 * 1024

// RingBuffer is a fixed-size circular buffer holding the raw output
// bytes delivered to one mirrored window. Escape sequences are stored
// verbatim for full-fidelity replay; stripping for display is the
// consumer's concern.
//
// The buffer tracks the total number of bytes ever written, so status
// consumers can tell "how much output has this window produced" apart
// from "how much is retained".
//
// All methods are safe for concurrent use: the ingress goroutine
// writes while IPC handlers read.
type RingBuffer struct {
	mu            sync.Mutex
	data          []byte
	capacity      int
	writePosition int
	totalWritten  uint64
}

// NewRingBuffer creates a ring buffer with the given capacity in
// bytes. Capacities below one byte fall back to the default.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultRingBufferSize
	}
	return &RingBuffer{
		data:     make([]byte, capacity),
		capacity: capacity,
	}
}

// Write appends data, overwriting the oldest bytes once full.
func (ring *RingBuffer) Write(data []byte) {
	ring.mu.Lock()
	defer ring.mu.Unlock()

	// Only the final capacity bytes of an oversized write can survive;
	// skip the doomed prefix instead of copying it.
	if skipped := len(data) - ring.capacity; skipped > 0 {
		ring.totalWritten += uint64(skipped)
		data = data[skipped:]
	}

	for offset := 0; offset < len(data); {
		n := copy(ring.data[ring.writePosition:], data[offset:])
		ring.writePosition = (ring.writePosition + n) % ring.capacity
		offset += n
	}
	ring.totalWritten += uint64(len(data))
}

// Contents returns the retained bytes, oldest first. The result is a
// fresh copy.
func (ring *RingBuffer) Contents() []byte {
	ring.mu.Lock()
	defer ring.mu.Unlock()

	stored := ring.storedLocked()
	out := make([]byte, 0, stored)
	start := (ring.writePosition - stored + ring.capacity) % ring.capacity
	if start+stored <= ring.capacity {
		out = append(out, ring.data[start:start+stored]...)
	} else {
		out = append(out, ring.data[start:]...)
		out = append(out, ring.data[:ring.writePosition]...)
	}
	return out
}

// Tail returns at most maxBytes of the newest retained bytes. A
// non-positive maxBytes returns everything retained.
func (ring *RingBuffer) Tail(maxBytes int) []byte {
	contents := ring.Contents()
	if maxBytes <= 0 || len(contents) <= maxBytes {
		return contents
	}
	return contents[len(contents)-maxBytes:]
}

// TotalWritten returns the total number of bytes ever written,
// including bytes that have since been overwritten.
func (ring *RingBuffer) TotalWritten() uint64 {
	ring.mu.Lock()
	defer ring.mu.Unlock()
	return ring.totalWritten
}

func (ring *RingBuffer) storedLocked() int {
	if ring.totalWritten >= uint64(ring.capacity) {
		return ring.capacity
	}
	return int(ring.totalWritten)
}
