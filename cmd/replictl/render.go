package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/quorumstor/replictl/internal/orchestrate"
	"github.com/quorumstor/replictl/internal/ui"
)

const (
	pathColWidth  = 44
	nameColWidth  = 18
	stateColWidth = 22
	errColWidth   = 36
)

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func cell(s string, width int) string {
	return pad(truncate(s, width), width)
}

// renderTable prints one cluster's relationships as a fixed-width table.
func renderTable(w io.Writer, ci *orchestrate.ClusterInfo) {
	fmt.Fprintln(w, ui.RenderCategory(fmt.Sprintf("%s cluster: %s (%s)", ci.Side, ci.ClusterName, ci.ClusterID)))
	if len(ci.Relationships) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("  no replication relationships"))
		return
	}
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		cell("", 1),
		cell("LOCAL PATH", pathColWidth),
		cell("REMOTE CLUSTER", nameColWidth),
		cell("STATE", stateColWidth),
		cell("LAST ERROR", errColWidth),
	)
	for _, rel := range ci.Relationships {
		fmt.Fprintf(w, "  %s %s %s %s %s\n",
			ui.StateIcon(rel.State),
			cell(ci.LocalPath(rel), pathColWidth),
			cell(ci.RemoteCluster(rel), nameColWidth),
			cell(rel.State, stateColWidth),
			cell(firstLine(rel.LastError), errColWidth),
		)
	}
}

// renderCards prints one cluster's relationships as full-detail cards, one
// block per relationship. Nothing is truncated.
func renderCards(w io.Writer, ci *orchestrate.ClusterInfo) {
	fmt.Fprintln(w, ui.RenderCategory(fmt.Sprintf("%s cluster: %s (%s)", ci.Side, ci.ClusterName, ci.ClusterID)))
	if len(ci.Relationships) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("  no replication relationships"))
		return
	}
	for _, rel := range ci.Relationships {
		fmt.Fprintln(w, ui.RenderSeparator())
		fmt.Fprintf(w, "ID:              %s\n", rel.ID)
		fmt.Fprintf(w, "Source Path:     %s\n", rel.SourcePath)
		fmt.Fprintf(w, "Target Path:     %s\n", rel.TargetPath)
		fmt.Fprintf(w, "Remote Cluster:  %s\n", ci.RemoteCluster(rel))
		fmt.Fprintf(w, "State:           %s %s\n", ui.StateIcon(rel.State), rel.State)
		if rel.TargetAddress != "" {
			fmt.Fprintf(w, "Target Address:  %s\n", rel.TargetAddress)
		}
		if rel.ReplicationMode != "" {
			fmt.Fprintf(w, "Mode:            %s\n", rel.ReplicationMode)
		}
		if rel.RecoveryPoint != nil {
			fmt.Fprintf(w, "Recovery Point:  %s\n", rel.RecoveryPoint.UTC().Format(time.RFC3339))
		}
		if rel.QueuedSnapshots != nil {
			fmt.Fprintf(w, "Queued Snaps:    %d\n", *rel.QueuedSnapshots)
		}
		if rel.LastError != "" {
			fmt.Fprintf(w, "Last Error:      %s\n", ui.RenderFail(rel.LastError))
		}
	}
	fmt.Fprintln(w, ui.RenderSeparator())
}

// renderStateSummary prints a per-state relationship count line.
func renderStateSummary(w io.Writer, ci *orchestrate.ClusterInfo) {
	counts := map[string]int{}
	for _, rel := range ci.Relationships {
		counts[strings.ToUpper(rel.State)]++
	}
	states := make([]string, 0, len(counts))
	for s := range counts {
		states = append(states, s)
	}
	sort.Strings(states)

	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, fmt.Sprintf("%s %s: %d", ui.StateIcon(s), s, counts[s]))
	}
	fmt.Fprintf(w, "  %d relationship(s)", len(ci.Relationships))
	if len(parts) > 0 {
		fmt.Fprintf(w, "  [%s]", strings.Join(parts, "  "))
	}
	fmt.Fprintln(w)
}

// renderLoads prints how many creations each destination address received.
func renderLoads(w io.Writer, pool *orchestrate.AddressPool) {
	fmt.Fprintln(w, ui.RenderCategory("destination address load"))
	loads := pool.Loads()
	for _, addr := range pool.Addresses() {
		fmt.Fprintf(w, "  %s %d\n", cell(addr, 20), loads[addr])
	}
}

// firstLine trims an error message to its first line for table display.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
