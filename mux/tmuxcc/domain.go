// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/weftwork/weft/lib/clock"
	"github.com/weftwork/weft/mux"
)

// DomainName is the constant name reported by every tmux control-mode
// domain.
const DomainName = "tmux"

// ErrNotSupported is returned by operations the embedded domain
// cannot perform: spawning (remote windows are created with tmux
// commands, not local spawns) and detaching (which would need a
// negotiated handoff with the remote multiplexer).
var ErrNotSupported = errors.New("not supported")

// listWindowsCommand interrogates the remote multiplexer for its
// windows. The format emits one tab-separated record per window:
// session name, window identifier, width, height. The reply payload
// is what windowMapper.handleListReply consumes.
const listWindowsCommand = "list-windows -a -F \"#{session_name}\t#{window_id}\t#{window_width}\t#{window_height}\""

// Domain embeds a remote tmux session, reached through an existing
// tab's byte channel running tmux -C, as a weft domain.
//
// Ingress: the goroutine reading the embedding channel calls Advance
// for every byte. Advance must not be called concurrently with
// itself — the decoder buffer and parser state are owned by that one
// reader context.
//
// Egress: SendCommand and proxy writes post deferred writes to the
// serial executor that owns the embedding channel. Sending never
// blocks and never re-enters the ingress path.
type Domain struct {
	id           mux.DomainID
	registry     *mux.Mux
	embeddingTab mux.TabID
	logger       *slog.Logger

	decoder    lineDecoder
	parser     parser
	dispatcher *dispatcher
	windows    *windowMapper
}

var _ mux.Domain = (*Domain)(nil)

// Option configures a Domain.
type Option func(*Domain)

// WithLogger sets the domain's logger. The default discards nothing:
// it is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Domain) { d.logger = logger }
}

// WithClock sets the clock used for the refresh debounce. Tests
// inject clock.NewFake().
func WithClock(c clock.Clock) Option {
	return func(d *Domain) { d.windows.clk = c }
}

// WithRingBufferSize sets the per-window scrollback capacity in
// bytes. The default is DefaultRingBufferSize.
func WithRingBufferSize(bytes int) Option {
	return func(d *Domain) { d.windows.ringSize = bytes }
}

// WithRefreshDebounce sets how long after the last layout
// notification the window listing is refreshed. The default is
// DefaultRefreshDebounce.
func WithRefreshDebounce(debounce time.Duration) Option {
	return func(d *Domain) { d.windows.debounce = debounce }
}

// NewDomain creates a tmux control-mode domain whose protocol bytes
// flow through the tab identified by embeddingTab. The domain's ID
// comes from ids, the same allocator the rest of the process uses, so
// no two domains ever share an identifier.
//
// The returned domain is passive until bytes arrive: the caller owns
// the read loop and feeds every byte to Advance.
func NewDomain(registry *mux.Mux, executor mux.Executor, embeddingTab mux.TabID, ids *mux.IDAllocator, options ...Option) *Domain {
	d := &Domain{
		id:           mux.DomainID(ids.Next()),
		registry:     registry,
		embeddingTab: embeddingTab,
		logger:       slog.Default(),
	}
	d.dispatcher = &dispatcher{
		mux:      registry,
		executor: executor,
		tabID:    embeddingTab,
	}
	d.windows = &windowMapper{
		mux:      registry,
		clk:      clock.Real(),
		ringSize: DefaultRingBufferSize,
		debounce: DefaultRefreshDebounce,
		panes:    make(map[string]*WindowPane),
	}
	for _, option := range options {
		option(d)
	}

	d.logger = d.logger.With("domain", DomainName, "domain_id", int(d.id))
	d.dispatcher.logger = d.logger
	d.windows.logger = d.logger
	d.windows.requestList = d.requestWindowList
	d.windows.send = func(text string) {
		d.dispatcher.send(&command{text: text})
	}

	d.decoder.emit = d.parser.handleLine
	d.parser.logger = d.logger
	d.parser.onReady = func() {
		d.logger.Info("control mode ready, interrogating remote windows")
		d.requestWindowList()
	}
	d.parser.onBlock = d.dispatcher.completeBlock
	d.parser.onNotification = d.handleNotification

	return d
}

// Advance processes one byte received from the remote multiplexer.
// Must be called from a single reader goroutine per domain.
func (d *Domain) Advance(b byte) {
	d.decoder.Advance(b)
}

// SendCommand issues a raw control-mode command. Fire and forget: the
// write happens later on the executor goroutine, and a reply is
// consumed (and, on %error, logged) without further action.
func (d *Domain) SendCommand(text string) {
	d.dispatcher.send(&command{text: text})
}

// DomainID returns the identifier assigned at construction.
func (d *Domain) DomainID() mux.DomainID { return d.id }

// DomainName returns "tmux".
func (d *Domain) DomainName() string { return DomainName }

// State always reports attached: the domain models an
// implicitly-attached embedded session and never detaches.
func (d *Domain) State() mux.DomainState { return mux.DomainAttached }

// Attach succeeds trivially and may be called any number of times.
// Re-population of remote windows is the mapper's job, driven by
// listings — attach has nothing to do.
func (d *Domain) Attach() error { return nil }

// Detach always fails: dropping the embedded session would require a
// negotiated handoff with the remote multiplexer.
func (d *Domain) Detach() error {
	return fmt.Errorf("detach tmux domain: %w", ErrNotSupported)
}

// Spawn always fails: remote windows are created by issuing tmux
// commands (e.g. new-window), never by local spawning.
func (d *Domain) Spawn(request mux.SpawnRequest) (mux.Tab, error) {
	return nil, fmt.Errorf("spawn in tmux domain: %w", ErrNotSupported)
}

// Windows returns a snapshot of the mirrored remote windows.
func (d *Domain) Windows() []WindowSnapshot {
	return d.windows.snapshot()
}

// Window resolves a mirrored window's proxy by remote identifier, or
// nil when the identifier is not mirrored.
func (d *Domain) Window(id string) *WindowPane {
	return d.windows.pane(id)
}

// requestWindowList issues the interrogation command whose reply the
// mapper reconciles.
func (d *Domain) requestWindowList() {
	d.dispatcher.send(&command{
		text:       listWindowsCommand,
		onResponse: d.windows.handleListReply,
	})
}

// handleNotification classifies standalone %-prefixed lines. Only
// %output and the layout-relevant set are acted on; the rest of the
// notification grammar is logged and left alone.
func (d *Domain) handleNotification(line string) {
	switch {
	case strings.HasPrefix(line, "%output "):
		rest := line[len("%output "):]
		target := rest
		var payload string
		if space := strings.IndexByte(rest, ' '); space >= 0 {
			target = rest[:space]
			payload = rest[space+1:]
		}
		d.windows.deliverOutput(target, unescapeOutput(payload))

	case isLayoutNotification(line):
		d.windows.scheduleRefresh()

	case line == "%exit" || strings.HasPrefix(line, "%exit "):
		d.logger.Warn("remote multiplexer is ending the control session", "line", line)

	default:
		d.logger.Debug("ignoring notification", "line", line)
	}
}
