// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	c := NewFake()
	fired := 0
	c.AfterFunc(100*time.Millisecond, func() { fired++ })

	c.Advance(50 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("timer fired %d times before its deadline", fired)
	}

	c.Advance(50 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("timer fired %d times, want 1", fired)
	}

	// Advancing further does not re-fire a one-shot timer.
	c.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("timer fired %d times after extra advance, want 1", fired)
	}
}

func TestFakeStopPreventsFiring(t *testing.T) {
	c := NewFake()
	fired := false
	timer := c.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop on a pending timer returned false")
	}
	if timer.Stop() {
		t.Fatal("second Stop returned true")
	}

	c.Advance(time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake()
	var order []int
	c.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })

	c.Advance(time.Second)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("fire order = %v, want [1 2 3]", order)
	}
}

func TestFakeTimerRegisteredByCallbackFires(t *testing.T) {
	c := NewFake()
	var chained bool
	c.AfterFunc(10*time.Millisecond, func() {
		c.AfterFunc(10*time.Millisecond, func() { chained = true })
	})

	c.Advance(100 * time.Millisecond)
	if !chained {
		t.Fatal("timer registered by a firing callback did not fire within the advanced window")
	}
}

func TestFakeNowTracksAdvance(t *testing.T) {
	c := NewFake()
	start := c.Now()
	c.Advance(time.Minute)
	if got := c.Now().Sub(start); got != time.Minute {
		t.Fatalf("Now advanced by %v, want 1m", got)
	}
}
