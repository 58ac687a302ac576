// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"log/slog"
	"strconv"
	"strings"
)

// Reply-block marker prefixes. The wire format multiplexes
// asynchronous notifications and command-correlated replies with no
// framing beyond these three marker classes; payload lines are only
// interpretable inside their enclosing block.
const (
	beginMarker = "%begin "
	endMarker   = "%end "
	errorMarker = "%error "
)

// parserState tracks the one-way readiness transition. When a control
// mode client connects, the server first sends a guard reply block;
// until its end marker arrives the connection is not fully attached
// and nothing on the stream is actionable.
type parserState int

const (
	stateAwaitingFirstReply parserState = iota
	stateReady
)

// replyBlock is the begin…end/error delimited group of payload lines
// answering one issued command. seq is the server's correlation tag
// from the markers; weft matches replies to commands FIFO (tmux
// answers in issue order), so seq is retained for logging only.
type replyBlock struct {
	seq   int
	lines []string
	err   bool
}

// parser classifies decoded lines and assembles reply blocks. At most
// one block is open at a time. The parser never fails: desync on the
// wire degrades to logged, skipped input, because the peer's exact
// grammar is not under our control.
//
// Owned by the ingress goroutine; no internal locking.
type parser struct {
	state parserState
	open  *replyBlock

	// onReady fires exactly once, on the first end-of-reply marker.
	onReady func()
	// onBlock receives each completed reply block.
	onBlock func(block replyBlock)
	// onNotification receives standalone %-prefixed lines.
	onNotification func(line string)

	logger *slog.Logger
}

// handleLine consumes one decoded line.
func (p *parser) handleLine(line string) {
	if p.state == stateAwaitingFirstReply {
		// Both %end and %error terminate the connection guard block.
		if strings.HasPrefix(line, endMarker) || strings.HasPrefix(line, errorMarker) {
			p.state = stateReady
			p.onReady()
			return
		}
		p.logger.Debug("discarding line before first reply completes", "line", line)
		return
	}

	switch {
	case strings.HasPrefix(line, beginMarker):
		if p.open != nil {
			// Desync: a begin arrived while a block was open. Drop
			// the half-assembled block and trust the new marker.
			p.logger.Warn("discarding unterminated reply block",
				"seq", p.open.seq, "payload_lines", len(p.open.lines))
		}
		p.open = &replyBlock{seq: markerSeq(line)}

	case strings.HasPrefix(line, endMarker), strings.HasPrefix(line, errorMarker):
		if p.open == nil {
			// Unmatched terminator. Ignore rather than abort.
			p.logger.Debug("ignoring reply terminator with no open block", "line", line)
			return
		}
		block := *p.open
		block.err = strings.HasPrefix(line, errorMarker)
		p.open = nil
		p.onBlock(block)

	case strings.HasPrefix(line, "%"):
		p.onNotification(line)

	default:
		if p.open == nil {
			p.logger.Debug("discarding payload line outside any reply block", "line", line)
			return
		}
		p.open.lines = append(p.open.lines, line)
	}
}

// markerSeq extracts the <seq> field from a reply marker line of the
// form "%begin <ts> <seq> <flags>". Returns -1 when the line does not
// carry a parseable sequence number; a malformed marker still
// delimits a block.
func markerSeq(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return -1
	}
	seq, err := strconv.Atoi(fields[2])
	if err != nil {
		return -1
	}
	return seq
}
