// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"log/slog"
	"sync"

	"github.com/weftwork/weft/mux"
)

// command is one outgoing control-mode command. onResponse, when set,
// receives the reply block tmux sends back for it.
type command struct {
	text       string
	onResponse func(block replyBlock)
}

// dispatcher serializes command writes onto the executor goroutine
// that owns the embedding tab's channel, and correlates completed
// reply blocks back to the commands that caused them.
//
// tmux answers commands strictly in issue order, and all writes funnel
// through one executor in FIFO order, so correlation is a queue: a
// command joins pending the moment its write succeeds, and each
// completed block pops the front.
type dispatcher struct {
	mux      *mux.Mux
	executor mux.Executor
	tabID    mux.TabID
	logger   *slog.Logger

	// mu guards pending. Pushed from the executor goroutine, popped
	// from the ingress goroutine.
	mu      sync.Mutex
	pending []*command
}

// send schedules cmd to be written to the embedding tab. Fire and
// forget: it never blocks and never writes from the caller's
// goroutine. If the tab no longer resolves (or the write fails) when
// the task runs, that single command is dropped and logged; nothing
// else is affected.
func (d *dispatcher) send(cmd *command) {
	d.executor.Post(func() {
		tab := d.mux.Tab(d.tabID)
		if tab == nil {
			d.logger.Warn("dropping command, embedding tab is gone",
				"tab_id", int(d.tabID), "command", cmd.text)
			return
		}

		// The command must be pending before the peer can possibly
		// reply to it, so push precedes the write.
		d.push(cmd)
		if err := tab.WriteInput([]byte(cmd.text + "\n")); err != nil {
			d.remove(cmd)
			d.logger.Warn("dropping command, write failed",
				"tab_id", int(d.tabID), "command", cmd.text, "error", err)
		}
	})
}

// completeBlock matches a finished reply block to the oldest pending
// command. Called from the ingress goroutine. A block with no pending
// command (including desync leftovers) is logged and dropped.
func (d *dispatcher) completeBlock(block replyBlock) {
	cmd := d.pop()
	if cmd == nil {
		d.logger.Debug("reply block with no pending command",
			"seq", block.seq, "payload_lines", len(block.lines), "error", block.err)
		return
	}
	if block.err {
		d.logger.Warn("command failed",
			"command", cmd.text, "seq", block.seq, "reply", block.lines)
	}
	if cmd.onResponse != nil {
		cmd.onResponse(block)
	}
}

func (d *dispatcher) push(cmd *command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, cmd)
}

func (d *dispatcher) pop() *command {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil
	}
	cmd := d.pending[0]
	d.pending = d.pending[1:]
	return cmd
}

// remove unlinks a command that was pushed but whose write failed.
// Identity match: a reply for an earlier command may have popped the
// queue since the push.
func (d *dispatcher) remove(cmd *command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, pending := range d.pending {
		if pending == cmd {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return
		}
	}
}
