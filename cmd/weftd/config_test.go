// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weftd.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") = %v", err)
	}
	if config.StatusSocket != defaultStatusSocket {
		t.Errorf("StatusSocket = %q, want default", config.StatusSocket)
	}
	level, err := config.logLevel()
	if err != nil || level != slog.LevelInfo {
		t.Errorf("logLevel() = %v, %v, want info", level, err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
profile: /etc/weft/staging.jsonc
status_socket: /tmp/weftd-test.sock
log_level: debug
`)
	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if config.Profile != "/etc/weft/staging.jsonc" {
		t.Errorf("Profile = %q", config.Profile)
	}
	if config.StatusSocket != "/tmp/weftd-test.sock" {
		t.Errorf("StatusSocket = %q", config.StatusSocket)
	}
	level, err := config.logLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("logLevel() = %v, %v, want debug", level, err)
	}
}

func TestLoadConfigFillsDefaultSocket(t *testing.T) {
	path := writeConfigFile(t, "profile: /etc/weft/p.jsonc\n")
	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if config.StatusSocket != defaultStatusSocket {
		t.Errorf("StatusSocket = %q, want default", config.StatusSocket)
	}
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	path := writeConfigFile(t, "log_level: loud\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig() accepted an unknown log level")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("loadConfig() succeeded on a missing file")
	}
}

func TestLogLevelNames(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
	}
	for _, tc := range cases {
		config := &Config{LogLevel: tc.name}
		level, err := config.logLevel()
		if err != nil || level != tc.want {
			t.Errorf("logLevel(%q) = %v, %v, want %v", tc.name, level, err, tc.want)
		}
	}
}
