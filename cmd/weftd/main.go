// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/weftwork/weft/lib/profile"
	"github.com/weftwork/weft/lib/version"
	"github.com/weftwork/weft/mux"
	"github.com/weftwork/weft/mux/tmuxcc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the weftd YAML config file")
	profilePath := flag.String("profile", "", "path to the connection profile (overrides the config file)")
	statusSocket := flag.String("status-socket", "", "unix socket path for the status API (overrides the config file)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("weftd %s\n", version.Info())
		return nil
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *profilePath != "" {
		config.Profile = *profilePath
	}
	if *statusSocket != "" {
		config.StatusSocket = *statusSocket
	}
	if config.Profile == "" {
		return fmt.Errorf("no connection profile: pass --profile or set profile in the config file")
	}

	level, err := config.logLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	connection, err := profile.ReadFile(config.Profile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the control-mode subprocess. Its stdin/stdout carry the
	// protocol; stderr passes through for operator visibility.
	subprocess := exec.CommandContext(ctx, connection.Command[0], connection.Command[1:]...)
	stdin, err := subprocess.StdinPipe()
	if err != nil {
		return fmt.Errorf("creating control stdin pipe: %w", err)
	}
	stdout, err := subprocess.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating control stdout pipe: %w", err)
	}
	subprocess.Stderr = os.Stderr
	if err := subprocess.Start(); err != nil {
		return fmt.Errorf("starting control subprocess %q: %w", connection.Command[0], err)
	}

	ids := &mux.IDAllocator{}
	registry := mux.New(ids)
	executor := mux.NewSerialExecutor()
	defer executor.Close()

	control := &controlTab{
		id:    registry.AllocTabID(),
		title: connection.Name,
		stdin: stdin,
	}
	registry.AddTab(control)

	options := []tmuxcc.Option{tmuxcc.WithLogger(logger)}
	if connection.RingBufferSize > 0 {
		options = append(options, tmuxcc.WithRingBufferSize(connection.RingBufferSize))
	}
	if debounce := connection.RefreshDebounce(); debounce > 0 {
		options = append(options, tmuxcc.WithRefreshDebounce(debounce))
	}
	domain := tmuxcc.NewDomain(registry, executor, control.TabID(), ids, options...)
	registry.AddDomain(domain)

	listener, err := listenSocket(config.StatusSocket)
	if err != nil {
		return fmt.Errorf("status socket: %w", err)
	}
	defer listener.Close()
	defer os.Remove(config.StatusSocket)

	server := &statusServer{domain: domain, logger: logger}
	go server.serve(ctx, listener)

	// Single reader goroutine: the ingress side of the domain is owned
	// here and nowhere else.
	readerDone := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(stdout)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				readerDone <- err
				return
			}
			domain.Advance(b)
		}
	}()

	logger.Info("weftd running",
		"profile", connection.Name,
		"command", strings.Join(connection.Command, " "),
		"status_socket", config.StatusSocket,
		"domain_id", int(domain.DomainID()),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-readerDone:
		if err != nil && !errors.Is(err, io.EOF) {
			logger.Error("control stream read failed", "error", err)
		} else {
			logger.Info("control stream closed by remote")
		}
	}

	// Closing stdin asks the control client to exit; on signal
	// shutdown CommandContext has already killed it.
	control.Close()
	if err := subprocess.Wait(); err != nil && ctx.Err() == nil {
		logger.Warn("control subprocess exited with error", "error", err)
	}
	return nil
}

// controlTab is the embedding tab: the control-mode subprocess stdin
// registered in the mux. All command traffic to the remote
// multiplexer funnels through WriteInput on the executor goroutine.
type controlTab struct {
	id    mux.TabID
	title string
	stdin io.WriteCloser
}

var _ mux.Tab = (*controlTab)(nil)

func (t *controlTab) TabID() mux.TabID { return t.id }
func (t *controlTab) Title() string    { return t.title }

func (t *controlTab) WriteInput(data []byte) error {
	_, err := t.stdin.Write(data)
	return err
}

func (t *controlTab) Close() {
	t.stdin.Close()
}
