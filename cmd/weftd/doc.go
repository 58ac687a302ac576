// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

// Weftd embeds a remote tmux session as a weft domain. It starts the
// control-mode subprocess named by a connection profile (typically
// "tmux -C attach-session", locally or wrapped in ssh), mirrors the
// remote windows as local proxy tabs, and serves a CBOR status/tail
// API on a unix socket for weft-status.
package main
