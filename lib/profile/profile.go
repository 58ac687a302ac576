// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile parses weft connection profiles. A profile describes
// one embedded control-mode connection: the subprocess that carries
// the protocol bytes and the tuning knobs for the domain built on top
// of it.
//
// Profiles are authored on disk as JSONC (JSON extended with //
// line comments, /* block comments */, and trailing commas), the same
// format weftd would receive them in from any future config service.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"
)

// Profile describes one embedded control-mode connection.
type Profile struct {
	// Name identifies the profile in logs and status output. Required.
	Name string `json:"name"`

	// Command is the argv of the subprocess whose stdin/stdout carry
	// the control-mode byte stream. Required. Typically a local
	// "tmux -C attach-session -t <session>" or the same wrapped in
	// ssh for a remote host.
	Command []string `json:"command"`

	// RingBufferSize is the per-window scrollback ring capacity in
	// bytes. Zero means the domain default (1 MiB).
	RingBufferSize int `json:"ring_buffer_size,omitempty"`

	// RefreshDebounceMS is the window-list refresh debounce in
	// milliseconds. Zero means the domain default (500ms). Layout
	// notifications arriving within this window coalesce into a
	// single listing command.
	RefreshDebounceMS int `json:"refresh_debounce_ms,omitempty"`
}

// RefreshDebounce returns the debounce as a duration, or zero when
// unset.
func (p *Profile) RefreshDebounce() time.Duration {
	return time.Duration(p.RefreshDebounceMS) * time.Millisecond
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals and validates the result.
func Parse(data []byte) (*Profile, error) {
	stripped := jsonc.ToJSON(data)

	var p Profile
	if err := json.Unmarshal(stripped, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadFile loads and parses a profile from path.
func ReadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if len(p.Command) == 0 {
		return fmt.Errorf("profile %q has no command", p.Name)
	}
	if p.RingBufferSize < 0 {
		return fmt.Errorf("profile %q: ring_buffer_size must not be negative", p.Name)
	}
	if p.RefreshDebounceMS < 0 {
		return fmt.Errorf("profile %q: refresh_debounce_ms must not be negative", p.Name)
	}
	return nil
}
