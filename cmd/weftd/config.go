// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultStatusSocket is where the status API listens when neither the
// config file nor --status-socket says otherwise.
const defaultStatusSocket = "/run/weft/weftd.sock"

// Config is weftd's YAML config file. Flags override individual
// fields; the file itself is optional.
type Config struct {
	// Profile is the path to the connection profile (JSONC) describing
	// the control-mode subprocess.
	Profile string `yaml:"profile"`

	// StatusSocket is the unix socket path for the status API.
	StatusSocket string `yaml:"status_socket"`

	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `yaml:"log_level"`
}

// loadConfig reads and parses the config file. An empty path yields
// the defaults, so running without a config file is valid as long as
// --profile is given.
func loadConfig(path string) (*Config, error) {
	config := &Config{StatusSocket: defaultStatusSocket}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.StatusSocket == "" {
		config.StatusSocket = defaultStatusSocket
	}
	if _, err := config.logLevel(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// logLevel resolves the configured level name.
func (c *Config) logLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
