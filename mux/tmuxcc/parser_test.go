// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"io"
	"log/slog"
	"slices"
	"testing"
)

type parserRecorder struct {
	ready         int
	blocks        []replyBlock
	notifications []string
}

func newTestParser() (*parser, *parserRecorder) {
	recorder := &parserRecorder{}
	p := &parser{
		onReady:        func() { recorder.ready++ },
		onBlock:        func(block replyBlock) { recorder.blocks = append(recorder.blocks, block) },
		onNotification: func(line string) { recorder.notifications = append(recorder.notifications, line) },
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return p, recorder
}

func feedLines(p *parser, lines ...string) {
	for _, line := range lines {
		p.handleLine(line)
	}
}

func TestParserReadyOnFirstEndMarker(t *testing.T) {
	p, recorder := newTestParser()

	feedLines(p, "%begin 172 0 0", "stray guard payload", "%end 172 0 0")
	if recorder.ready != 1 {
		t.Fatalf("ready fired %d times, want 1", recorder.ready)
	}
	if len(recorder.blocks) != 0 {
		t.Fatalf("guard block must not be reported, got %d blocks", len(recorder.blocks))
	}

	// A later unmatched terminator must not re-fire readiness.
	feedLines(p, "%end 999 9 0")
	if recorder.ready != 1 {
		t.Fatalf("ready fired %d times after second end, want 1", recorder.ready)
	}
}

func TestParserReadyOnFirstErrorMarker(t *testing.T) {
	p, recorder := newTestParser()

	feedLines(p, "%begin 172 0 0", "%error 172 0 0")
	if recorder.ready != 1 {
		t.Fatalf("ready fired %d times, want 1", recorder.ready)
	}
}

func TestParserDiscardsLinesBeforeReady(t *testing.T) {
	p, recorder := newTestParser()

	feedLines(p, "%output @1 early", "noise")
	if recorder.ready != 0 || len(recorder.notifications) != 0 || len(recorder.blocks) != 0 {
		t.Fatalf("nothing may be delivered before readiness: %+v", recorder)
	}
}

func TestParserAssemblesReplyBlock(t *testing.T) {
	p, recorder := newTestParser()
	feedLines(p, "%end 172 0 0")

	feedLines(p, "%begin 173 1 1", "ok", "more", "%end 173 1 1")

	if len(recorder.blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(recorder.blocks))
	}
	block := recorder.blocks[0]
	if block.seq != 1 || block.err {
		t.Fatalf("block = %+v, want seq 1, err false", block)
	}
	if !slices.Equal(block.lines, []string{"ok", "more"}) {
		t.Fatalf("payload = %q", block.lines)
	}
}

func TestParserMarksErrorBlocks(t *testing.T) {
	p, recorder := newTestParser()
	feedLines(p, "%end 172 0 0")

	feedLines(p, "%begin 173 2 1", "no such window", "%error 173 2 1")

	if len(recorder.blocks) != 1 || !recorder.blocks[0].err {
		t.Fatalf("blocks = %+v, want one error block", recorder.blocks)
	}
}

func TestParserDiscardsUnterminatedBlockOnNewBegin(t *testing.T) {
	p, recorder := newTestParser()
	feedLines(p, "%end 172 0 0")

	feedLines(p, "%begin 173 3 1", "lost", "%begin 174 4 1", "kept", "%end 174 4 1")

	if len(recorder.blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(recorder.blocks))
	}
	block := recorder.blocks[0]
	if block.seq != 4 || !slices.Equal(block.lines, []string{"kept"}) {
		t.Fatalf("block = %+v, want the re-synced block only", block)
	}
}

func TestParserIgnoresUnmatchedTerminatorAndStrayPayload(t *testing.T) {
	p, recorder := newTestParser()
	feedLines(p, "%end 172 0 0")

	feedLines(p, "%end 200 7 0", "stray payload")

	if len(recorder.blocks) != 0 {
		t.Fatalf("blocks = %+v, want none", recorder.blocks)
	}
}

func TestParserRoutesNotifications(t *testing.T) {
	p, recorder := newTestParser()
	feedLines(p, "%end 172 0 0")

	feedLines(p, "%output @1 hi", "%layout-change @1 abcd,80x24,0,0,1")

	want := []string{"%output @1 hi", "%layout-change @1 abcd,80x24,0,0,1"}
	if !slices.Equal(recorder.notifications, want) {
		t.Fatalf("notifications = %q, want %q", recorder.notifications, want)
	}
}

func TestMarkerSeq(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"%begin 1717171717 42 1", 42},
		{"%end 1717171717 0 1", 0},
		{"%begin", -1},
		{"%begin 172", -1},
		{"%begin 172 nope 1", -1},
	}
	for _, tc := range cases {
		if got := markerSeq(tc.line); got != tc.want {
			t.Errorf("markerSeq(%q) = %d, want %d", tc.line, got, tc.want)
		}
	}
}
