// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the time operations weft uses so that tests
// can drive timers deterministically. Production code injects Real();
// tests inject NewFake() and call Advance.
//
// Weft's only timer use is debouncing: coalescing a burst of protocol
// notifications into one deferred action. The interface is therefore
// deliberately small — Now and AfterFunc — rather than mirroring the
// whole time package.
package clock

import "time"

// Clock provides the current time and one-shot deferred calls.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for duration d and then calls f in its own
	// goroutine. The returned Timer cancels the pending call with
	// Stop. If d <= 0 the call is scheduled immediately.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a scheduled one-shot call created by AfterFunc.
type Timer struct {
	stop func() bool
}

// Stop cancels the pending call. Reports whether the call was still
// pending (false when it already fired or was already stopped).
func (t *Timer) Stop() bool {
	return t.stop()
}
