// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/weftwork/weft/lib/ipc"
)

func TestRenderStatusTable(t *testing.T) {
	var out bytes.Buffer
	renderStatus(&out, &ipc.Response{
		OK:          true,
		Version:     "v0.3.0",
		DomainID:    2,
		DomainName:  "tmux",
		DomainState: "attached",
		Windows: []ipc.WindowInfo{
			{Session: "main", Window: "@1", Width: 80, Height: 24, TabID: 3, OutputBytes: 512},
			{Session: "main", Window: "@2", Width: 120, Height: 40, TabID: 4, OutputBytes: 3 << 20},
		},
	})

	text := out.String()
	for _, want := range []string{
		"weftd v0.3.0",
		"domain 2: tmux (attached)",
		"WINDOW",
		"@1", "80x24", "512B",
		"@2", "120x40", "3.0MiB",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRenderStatusNoWindows(t *testing.T) {
	var out bytes.Buffer
	renderStatus(&out, &ipc.Response{OK: true, Version: "dev", DomainName: "tmux", DomainState: "attached"})

	if !strings.Contains(out.String(), "no remote windows mirrored") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRenderTailStripsEscapes(t *testing.T) {
	history := []byte("\x1b[1mbold\x1b[0m plain\n")

	var stripped bytes.Buffer
	if err := renderTail(&stripped, history, false); err != nil {
		t.Fatalf("renderTail() = %v", err)
	}
	if got := stripped.String(); got != "bold plain\n" {
		t.Errorf("stripped tail = %q", got)
	}

	var raw bytes.Buffer
	if err := renderTail(&raw, history, true); err != nil {
		t.Fatalf("renderTail() = %v", err)
	}
	if !bytes.Equal(raw.Bytes(), history) {
		t.Errorf("raw tail = %q, want the history verbatim", raw.Bytes())
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{2048, "2.0KiB"},
		{3 << 20, "3.0MiB"},
		{5 << 30, "5.0GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.n); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
