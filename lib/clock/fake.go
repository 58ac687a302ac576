// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests. Time does not pass on its
// own; tests call Advance to move it forward, which fires any timers
// whose deadline has been reached, in deadline order.
//
// Timer callbacks run synchronously inside Advance, on the caller's
// goroutine. Callbacks must not call Advance recursively.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	f        func()
	fired    bool
	stopped  bool
}

// NewFake creates a Fake starting at an arbitrary fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the fake current time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to fire when the fake time reaches now+d.
// With d <= 0 the timer is due immediately but still fires only on
// the next Advance call, keeping test execution fully explicit.
func (c *Fake) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	timer := &fakeTimer{deadline: c.now.Add(d), f: f}
	c.pending = append(c.pending, timer)
	c.mu.Unlock()

	return &Timer{stop: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if timer.fired || timer.stopped {
			return false
		}
		timer.stopped = true
		return true
	}}
}

// Advance moves the fake time forward by d and fires every pending
// timer whose deadline has been reached, in deadline order. Timers
// registered by a firing callback are themselves eligible if their
// deadline falls within the advanced window.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		timer := c.nextDueLocked(target)
		if timer == nil {
			break
		}
		if timer.deadline.After(c.now) {
			c.now = timer.deadline
		}
		timer.fired = true
		f := timer.f
		c.mu.Unlock()
		f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// PendingTimers reports how many timers are registered and neither
// fired nor stopped. Tests use this to assert that a debounce window
// is (or is not) open.
func (c *Fake) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, timer := range c.pending {
		if !timer.fired && !timer.stopped {
			count++
		}
	}
	return count
}

// nextDueLocked returns the unfired, unstopped timer with the earliest
// deadline at or before target, or nil.
func (c *Fake) nextDueLocked(target time.Time) *fakeTimer {
	candidates := make([]*fakeTimer, 0, len(c.pending))
	for _, timer := range c.pending {
		if !timer.fired && !timer.stopped && !timer.deadline.After(target) {
			candidates = append(candidates, timer)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].deadline.Before(candidates[j].deadline)
	})
	return candidates[0]
}
