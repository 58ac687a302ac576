// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"bytes"
	"slices"
	"testing"
)

func collectLines(decoder *lineDecoder) *[]string {
	lines := &[]string{}
	decoder.emit = func(line string) { *lines = append(*lines, line) }
	return lines
}

func feedBytes(decoder *lineDecoder, s string) {
	for i := 0; i < len(s); i++ {
		decoder.Advance(s[i])
	}
}

func TestDecoderSplitsOnLineFeed(t *testing.T) {
	var decoder lineDecoder
	lines := collectLines(&decoder)

	feedBytes(&decoder, "one\ntwo\n\nthree")

	want := []string{"one", "two", ""}
	if !slices.Equal(*lines, want) {
		t.Fatalf("lines = %q, want %q", *lines, want)
	}

	// The partial line is held, not emitted, until its terminator.
	decoder.Advance('\n')
	if got := (*lines)[len(*lines)-1]; got != "three" {
		t.Fatalf("final line = %q, want %q", got, "three")
	}
}

func TestDecoderStripsOneTrailingCarriageReturn(t *testing.T) {
	var decoder lineDecoder
	lines := collectLines(&decoder)

	feedBytes(&decoder, "abc\r\n\r\na\r\r\n")

	want := []string{"abc", "", "a\r"}
	if !slices.Equal(*lines, want) {
		t.Fatalf("lines = %q, want %q", *lines, want)
	}
}

func TestDecoderEmitsIdenticallyRegardlessOfDelivery(t *testing.T) {
	// The same stream must decode to the same lines whether it arrives
	// byte by byte or was produced by a single loop; the decoder keeps
	// no state between lines beyond the unterminated buffer.
	stream := "%begin 1 0 0\r\nok\r\n%end 1 0 0\r\n"

	var one lineDecoder
	oneLines := collectLines(&one)
	feedBytes(&one, stream)

	var two lineDecoder
	twoLines := collectLines(&two)
	for _, chunk := range []string{"%begin 1", " 0 0\r\nok", "\r\n%end 1 0 0\r", "\n"} {
		feedBytes(&two, chunk)
	}

	if !slices.Equal(*oneLines, *twoLines) {
		t.Fatalf("byte-wise %q != chunk-wise %q", *oneLines, *twoLines)
	}
}

func TestDecoderBufferNeverHoldsLineFeed(t *testing.T) {
	var decoder lineDecoder
	decoder.emit = func(string) {}

	stream := "%begin 1 0 0\r\nok\n\n%end 1 0 0\r\npartial"
	for i := 0; i < len(stream); i++ {
		decoder.Advance(stream[i])
		if bytes.ContainsRune(decoder.buffer, '\n') {
			t.Fatalf("buffer %q contains a line feed after byte %d", decoder.buffer, i)
		}
	}
}

func TestDecoderReplacesInvalidUTF8(t *testing.T) {
	var decoder lineDecoder
	lines := collectLines(&decoder)

	feedBytes(&decoder, "ab\xffc\n")

	if len(*lines) != 1 || (*lines)[0] != "ab�c" {
		t.Fatalf("lines = %q, want one line with a replacement rune", *lines)
	}
}
