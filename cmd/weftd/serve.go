// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/weftwork/weft/lib/codec"
	"github.com/weftwork/weft/lib/ipc"
	"github.com/weftwork/weft/lib/version"
	"github.com/weftwork/weft/mux"
	"github.com/weftwork/weft/mux/tmuxcc"
)

// statusDomain is the slice of the tmux domain the status server
// reads. Narrowed to an interface so tests can drive a domain built
// on a fake control channel.
type statusDomain interface {
	DomainID() mux.DomainID
	DomainName() string
	State() mux.DomainState
	Windows() []tmuxcc.WindowSnapshot
	Window(id string) *tmuxcc.WindowPane
}

// statusServer answers one CBOR request per connection on the status
// socket.
type statusServer struct {
	domain statusDomain
	logger *slog.Logger
}

// listenSocket creates the status socket listener, removing any stale
// socket file from a previous run.
func listenSocket(socketPath string) (net.Listener, error) {
	socketDir := filepath.Dir(socketPath)
	if err := os.MkdirAll(socketDir, 0755); err != nil {
		return nil, fmt.Errorf("creating socket directory %s: %w", socketDir, err)
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}

	// Group-connectable so status tooling can run as a different user.
	if err := os.Chmod(socketPath, 0660); err != nil {
		listener.Close()
		return nil, fmt.Errorf("setting socket permissions: %w", err)
	}

	return listener, nil
}

// serve accepts connections until the listener closes.
func (s *statusServer) serve(ctx context.Context, listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.logger.Error("accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection processes a single request/response cycle.
func (s *statusServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	// One deadline for the whole cycle; status requests are small.
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	decoder := codec.NewDecoder(conn)
	encoder := codec.NewEncoder(conn)

	var request ipc.Request
	if err := decoder.Decode(&request); err != nil {
		s.logger.Error("decoding status request", "error", err)
		if err := encoder.Encode(ipc.Response{Error: "invalid request"}); err != nil {
			s.logger.Error("encoding error response", "error", err)
		}
		return
	}

	s.logger.Debug("status request", "action", request.Action, "window", request.Window)

	response := s.handle(&request)
	if err := encoder.Encode(&response); err != nil {
		s.logger.Error("encoding status response", "error", err)
	}
}

func (s *statusServer) handle(request *ipc.Request) ipc.Response {
	switch request.Action {
	case ipc.ActionStatus:
		return ipc.Response{
			OK:          true,
			Version:     version.Info(),
			DomainID:    int(s.domain.DomainID()),
			DomainName:  s.domain.DomainName(),
			DomainState: s.domain.State().String(),
			Windows:     windowInfos(s.domain.Windows()),
		}

	case ipc.ActionListWindows:
		return ipc.Response{OK: true, Windows: windowInfos(s.domain.Windows())}

	case ipc.ActionTail:
		if request.Window == "" {
			return ipc.Response{Error: "tail requires a window identifier"}
		}
		pane := s.domain.Window(request.Window)
		if pane == nil {
			return ipc.Response{Error: fmt.Sprintf("unknown window %q", request.Window)}
		}
		history, compression := ipc.CompressHistory(pane.Output().Tail(request.MaxBytes))
		return ipc.Response{OK: true, History: history, HistoryCompression: compression}

	default:
		return ipc.Response{Error: fmt.Sprintf("unknown action %q", request.Action)}
	}
}

// windowInfos converts mapper snapshots to wire records, sorted by
// window identifier for stable output.
func windowInfos(snapshots []tmuxcc.WindowSnapshot) []ipc.WindowInfo {
	infos := make([]ipc.WindowInfo, 0, len(snapshots))
	for _, snapshot := range snapshots {
		infos = append(infos, ipc.WindowInfo{
			Session:     snapshot.Session,
			Window:      snapshot.Window,
			Width:       snapshot.Width,
			Height:      snapshot.Height,
			TabID:       int(snapshot.TabID),
			OutputBytes: snapshot.OutputBytes,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Window < infos[j].Window })
	return infos
}
