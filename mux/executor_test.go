// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"sync"
	"testing"
	"time"

	"github.com/weftwork/weft/lib/testutil"
)

func TestSerialExecutorRunsTasksInOrder(t *testing.T) {
	executor := NewSerialExecutor()
	defer executor.Close()

	const count = 100
	results := make(chan int, count)
	for i := 0; i < count; i++ {
		i := i
		executor.Post(func() { results <- i })
	}

	for want := 0; want < count; want++ {
		got := testutil.RequireReceive(t, results, 5*time.Second, "task %d result", want)
		if got != want {
			t.Fatalf("task order violated: got %d, want %d", got, want)
		}
	}
}

func TestSerialExecutorSingleGoroutine(t *testing.T) {
	executor := NewSerialExecutor()
	defer executor.Close()

	// If two tasks ever ran concurrently, both would observe
	// running=true and the test would fail.
	var mu sync.Mutex
	running := false
	overlap := false
	done := make(chan struct{}, 50)

	for i := 0; i < 50; i++ {
		executor.Post(func() {
			mu.Lock()
			if running {
				overlap = true
			}
			running = true
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running = false
			mu.Unlock()
			done <- struct{}{}
		})
	}

	for i := 0; i < 50; i++ {
		testutil.RequireReceive(t, done, 10*time.Second, "task completion")
	}

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Fatal("tasks overlapped; executor is not serial")
	}
}

func TestSerialExecutorCloseRunsPendingTasks(t *testing.T) {
	executor := NewSerialExecutor()

	ran := make(chan struct{}, 1)
	executor.Post(func() { ran <- struct{}{} })
	executor.Close()

	testutil.RequireReceive(t, ran, 5*time.Second, "pending task after Close")

	// Posting after Close is a silent drop, not a panic.
	executor.Post(func() { t.Error("task ran after Close") })
}

func TestPostNeverRunsSynchronously(t *testing.T) {
	executor := NewSerialExecutor()
	defer executor.Close()

	// The task blocks until the poster releases it. If Post ran the
	// task synchronously in this goroutine, Post would deadlock and
	// never reach the close below.
	release := make(chan struct{})
	ran := make(chan struct{})
	executor.Post(func() {
		<-release
		close(ran)
	})
	close(release)

	testutil.RequireClosed(t, ran, 5*time.Second, "deferred task")
}
