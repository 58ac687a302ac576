// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package tmuxcc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/weftwork/weft/lib/clock"
	"github.com/weftwork/weft/mux"
)

// DefaultRefreshDebounce is the default wait after the last
// layout-relevant notification before re-listing remote windows.
// 500ms feels responsive while coalescing bursts like a pane being
// dragged or a script creating several windows.
const DefaultRefreshDebounce = 500 * time.Millisecond

// windowDescriptor is one record from a window-listing reply:
// tab-separated session name, window identifier, width, height.
type windowDescriptor struct {
	session string
	window  string
	width   int
	height  int
}

// parseWindowList parses listing payload lines. Malformed records are
// skipped with a log line; one bad record must not poison the rest of
// the listing.
func parseWindowList(lines []string, logger *slog.Logger) []windowDescriptor {
	descriptors := make([]windowDescriptor, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			logger.Debug("skipping malformed window record", "line", line)
			continue
		}
		width, widthErr := strconv.Atoi(fields[2])
		height, heightErr := strconv.Atoi(fields[3])
		if fields[1] == "" || widthErr != nil || heightErr != nil {
			logger.Debug("skipping malformed window record", "line", line)
			continue
		}
		descriptors = append(descriptors, windowDescriptor{
			session: fields[0],
			window:  fields[1],
			width:   width,
			height:  height,
		})
	}
	return descriptors
}

// WindowPane is the local proxy tab for one remote window. Outbound
// writes become send-keys commands through the domain's dispatcher;
// inbound bytes arrive from %output notifications addressed to the
// window's identifier and accumulate in the ring buffer.
type WindowPane struct {
	tabID mux.TabID
	// window is the remote identifier this proxy mirrors. Identity:
	// reconciliation and output routing key on it, never on listing
	// position.
	window string
	send   func(text string)
	ring   *RingBuffer

	mu      sync.Mutex
	session string
	width   int
	height  int
}

var _ mux.Tab = (*WindowPane)(nil)

// TabID returns the local mux identifier.
func (w *WindowPane) TabID() mux.TabID { return w.tabID }

// Window returns the remote window identifier.
func (w *WindowPane) Window() string { return w.window }

// Title returns "session:window" for display.
func (w *WindowPane) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session + ":" + w.window
}

// Session returns the remote session name.
func (w *WindowPane) Session() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// Size returns the remote window dimensions from the latest listing.
func (w *WindowPane) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Output returns the window's scrollback ring buffer.
func (w *WindowPane) Output() *RingBuffer { return w.ring }

// WriteInput translates local keystrokes into a send-keys command
// addressed to the remote window. Bytes are hex-encoded so nothing in
// the input can be misparsed as command syntax. Fire and forget, like
// every dispatched command.
func (w *WindowPane) WriteInput(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "send-keys -t %s -H", w.window)
	for _, b := range data {
		fmt.Fprintf(&builder, " %02x", b)
	}
	w.send(builder.String())
	return nil
}

// Close releases the proxy. The ring buffer stays readable for
// consumers that still hold it; there is nothing else to release.
func (w *WindowPane) Close() {}

func (w *WindowPane) update(desc windowDescriptor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = desc.session
	w.width = desc.width
	w.height = desc.height
}

// WindowSnapshot is a point-in-time view of one mirrored window, for
// status reporting.
type WindowSnapshot struct {
	Session     string
	Window      string
	Width       int
	Height      int
	TabID       mux.TabID
	OutputBytes uint64
}

// windowMapper reconciles window-listing replies against the set of
// local proxies. Proxies are keyed strictly by the remote window
// identifier: listing order carries no lifecycle meaning, and a
// window absent from a listing is torn down.
type windowMapper struct {
	mux      *mux.Mux
	logger   *slog.Logger
	clk      clock.Clock
	ringSize int
	debounce time.Duration

	// requestList issues a window-listing command; send issues a raw
	// command for proxy input. Both are fire-and-forget dispatcher
	// hooks installed by the domain.
	requestList func()
	send        func(text string)

	mu           sync.Mutex
	panes        map[string]*WindowPane
	refreshTimer *clock.Timer
}

// handleListReply consumes a completed window-listing reply block.
func (m *windowMapper) handleListReply(block replyBlock) {
	if block.err {
		// The listing failed (e.g. raced a session teardown). The
		// dispatcher already logged the reply; keep current proxies
		// until a listing succeeds.
		return
	}
	m.reconcile(parseWindowList(block.lines, m.logger))
}

// reconcile applies one listing: create proxies for new identifiers,
// refresh known ones, tear down the rest.
func (m *windowMapper) reconcile(descriptors []windowDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(descriptors))
	for _, desc := range descriptors {
		seen[desc.window] = true
		if pane, ok := m.panes[desc.window]; ok {
			pane.update(desc)
			continue
		}
		pane := &WindowPane{
			tabID:  m.mux.AllocTabID(),
			window: desc.window,
			send:   m.send,
			ring:   NewRingBuffer(m.ringSize),
		}
		pane.update(desc)
		m.panes[desc.window] = pane
		m.mux.AddTab(pane)
		m.logger.Info("mirroring remote window",
			"window", desc.window, "session", desc.session,
			"size", fmt.Sprintf("%dx%d", desc.width, desc.height),
			"tab_id", int(pane.tabID))
	}

	for window, pane := range m.panes {
		if seen[window] {
			continue
		}
		delete(m.panes, window)
		m.mux.RemoveTab(pane.tabID)
		m.logger.Info("remote window gone, removing proxy",
			"window", window, "tab_id", int(pane.tabID))
	}
}

// deliverOutput appends unescaped %output bytes to the addressed
// proxy's ring buffer. Output for an identifier with no mirrored
// window is dropped: it either predates the first listing or belongs
// to a surface the listing format doesn't expose.
func (m *windowMapper) deliverOutput(target string, data []byte) {
	m.mu.Lock()
	pane := m.panes[target]
	m.mu.Unlock()

	if pane == nil {
		m.logger.Debug("dropping output for unknown window", "window", target, "bytes", len(data))
		return
	}
	pane.ring.Write(data)
}

// scheduleRefresh (re)arms the debounced window-listing. Each
// layout-relevant notification resets the timer, so a burst costs one
// listing command.
func (m *windowMapper) scheduleRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
	}
	m.refreshTimer = m.clk.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		m.refreshTimer = nil
		m.mu.Unlock()
		m.requestList()
	})
}

// pane resolves a proxy by remote identifier, or nil.
func (m *windowMapper) pane(window string) *WindowPane {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panes[window]
}

// snapshot returns the mirrored windows for status reporting, in no
// particular order.
func (m *windowMapper) snapshot() []WindowSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshots := make([]WindowSnapshot, 0, len(m.panes))
	for _, pane := range m.panes {
		width, height := pane.Size()
		snapshots = append(snapshots, WindowSnapshot{
			Session:     pane.Session(),
			Window:      pane.window,
			Width:       width,
			Height:      height,
			TabID:       pane.tabID,
			OutputBytes: pane.ring.TotalWritten(),
		})
	}
	return snapshots
}

// isLayoutNotification reports whether a notification implies the
// window population or geometry changed and a re-listing is due.
func isLayoutNotification(line string) bool {
	for _, prefix := range []string{
		"%layout-change ",
		"%window-add ",
		"%window-close ",
		"%unlinked-window-close ",
		"%window-renamed ",
		"%session-window-changed ",
		"%sessions-changed",
	} {
		if strings.HasPrefix(line, prefix) || line == strings.TrimSuffix(prefix, " ") {
			return true
		}
	}
	return false
}

// unescapeOutput decodes the octal escaping tmux applies to %output
// payloads: \ooo for arbitrary bytes and \\ for a literal backslash.
// Malformed escapes are kept literally — output delivery must never
// fail on peer quirks.
func unescapeOutput(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out = append(out, s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\\' {
			out = append(out, '\\')
			i++
			continue
		}
		if i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			value := (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			out = append(out, value)
			i += 3
			continue
		}
		out = append(out, '\\')
	}
	return out
}

func isOctal(b byte) bool {
	return b >= '0' && b <= '7'
}
