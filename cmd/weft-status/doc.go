// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// weft-status inspects a running weftd over its status socket: domain
// identity, the mirrored remote windows, and recent window output.
package main
