// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import "sync"

// Executor runs deferred units of work. The mux uses it as a strict
// message-passing boundary: only the executor's goroutine is permitted
// to touch a tab's channel write access, so producers hand off work
// instead of locking.
type Executor interface {
	// Post schedules task to run on the executor's goroutine. Tasks
	// run in FIFO order. Post never runs the task synchronously in
	// the caller's goroutine.
	Post(task func())
}

// SerialExecutor runs posted tasks one at a time on a single dedicated
// goroutine, in FIFO order. It is the designated owner of channel
// write access for the tabs wired to it.
type SerialExecutor struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewSerialExecutor creates a SerialExecutor and starts its goroutine.
func NewSerialExecutor() *SerialExecutor {
	executor := &SerialExecutor{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go executor.run()
	return executor
}

// Post schedules task. It never blocks: the queue is unbounded, so a
// slow consumer delays execution rather than stalling the producer.
// Tasks posted after Close are dropped.
func (e *SerialExecutor) Post(task func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.tasks = append(e.tasks, task)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Close stops the executor after running all tasks already posted.
// Blocks until the goroutine has exited.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		<-e.done
		return
	}
	e.closed = true
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
	<-e.done
}

func (e *SerialExecutor) run() {
	defer close(e.done)
	for {
		e.mu.Lock()
		tasks := e.tasks
		e.tasks = nil
		closed := e.closed
		e.mu.Unlock()

		for _, task := range tasks {
			task()
		}

		if closed {
			// One final drain: Post may have appended between the
			// snapshot above and the closed flag being set.
			e.mu.Lock()
			remaining := e.tasks
			e.tasks = nil
			e.mu.Unlock()
			for _, task := range remaining {
				task()
			}
			return
		}

		<-e.wake
	}
}
