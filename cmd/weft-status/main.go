// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/weftwork/weft/lib/codec"
	"github.com/weftwork/weft/lib/ipc"
	"github.com/weftwork/weft/lib/version"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("weft-status", pflag.ContinueOnError)
	socketPath := flagSet.String("socket", "/run/weft/weftd.sock", "weftd status socket path")
	jsonOutput := flagSet.Bool("json", false, "machine-readable JSON output")
	tailWindow := flagSet.String("tail", "", "print recent output of the given remote window (e.g. @3)")
	maxBytes := flagSet.Int("max-bytes", 0, "cap --tail to the newest N bytes (0 = whole ring buffer)")
	raw := flagSet.Bool("raw", false, "keep escape sequences in --tail output")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("weft-status %s\n", version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// Log as text when a human is watching stderr, JSON when piped.
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	logger := slog.New(handler)

	request := ipc.Request{Action: ipc.ActionStatus}
	if *tailWindow != "" {
		request = ipc.Request{Action: ipc.ActionTail, Window: *tailWindow, MaxBytes: *maxBytes}
	}

	response, err := call(*socketPath, request)
	if err != nil {
		logger.Warn("request failed", "socket", *socketPath, "action", request.Action)
		return err
	}
	if !response.OK {
		return fmt.Errorf("weftd: %s", response.Error)
	}

	if *tailWindow != "" {
		history, err := ipc.DecompressHistory(response.History, response.HistoryCompression)
		if err != nil {
			return err
		}
		return renderTail(stdout, history, *raw)
	}

	if *jsonOutput {
		encoded, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(encoded))
		return nil
	}

	renderStatus(stdout, &response)
	return nil
}

// call performs one request/response cycle against the status socket.
func call(socketPath string, request ipc.Request) (ipc.Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("connecting to weftd at %s: %w", socketPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return ipc.Response{}, fmt.Errorf("sending request: %w", err)
	}
	var response ipc.Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		return ipc.Response{}, fmt.Errorf("reading response: %w", err)
	}
	return response, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `weft-status — inspect a running weftd.

Without flags, prints the embedded domain's identity and the remote
windows it mirrors. With --tail, prints recent output of one remote
window (escape sequences stripped unless --raw).

Usage: weft-status [flags]

Flags:
%s`, flagSet.FlagUsages())
}
