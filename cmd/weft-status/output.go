// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"

	"github.com/weftwork/weft/lib/ipc"
)

// renderStatus writes the human-readable status report.
func renderStatus(w io.Writer, response *ipc.Response) {
	fmt.Fprintf(w, "weftd %s\n", response.Version)
	fmt.Fprintf(w, "domain %d: %s (%s)\n\n", response.DomainID, response.DomainName, response.DomainState)

	if len(response.Windows) == 0 {
		fmt.Fprintln(w, "no remote windows mirrored")
		return
	}

	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "WINDOW\tSESSION\tSIZE\tTAB\tOUTPUT")
	for _, window := range response.Windows {
		fmt.Fprintf(table, "%s\t%s\t%dx%d\t%d\t%s\n",
			window.Window, window.Session, window.Width, window.Height,
			window.TabID, formatBytes(window.OutputBytes))
	}
	table.Flush()
}

// renderTail writes window history. Escape sequences are stripped for
// display unless raw replay is requested.
func renderTail(w io.Writer, history []byte, raw bool) error {
	if !raw {
		history = []byte(ansi.Strip(string(history)))
	}
	_, err := w.Write(history)
	return err
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fGiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
