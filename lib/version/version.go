// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build version stamped into weft
// binaries at link time:
//
//	go build -ldflags "-X github.com/weftwork/weft/lib/version.version=v0.3.0"
package version

// version is overridden via -ldflags at release build time.
var version = "dev"

// Info returns the version string for --version output.
func Info() string {
	return version
}
