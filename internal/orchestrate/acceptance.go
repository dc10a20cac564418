package orchestrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/quorumstor/replictl/internal/api"
)

// AcceptOptions control an acceptance pass.
type AcceptOptions struct {
	// AllowNonEmptyDir is passed through to the authorize call. When
	// false, the cluster rejects authorization into a non-empty target
	// directory.
	AllowNonEmptyDir bool

	// Confirm gates the pass behind an operator prompt. Anything other
	// than an affirmative answer aborts with an empty result and no
	// relationships touched.
	Confirm func(pending int) bool

	// Out receives the candidate listing for operator review. Defaults
	// to io.Discard when nil.
	Out io.Writer
}

// Accepted describes one successfully authorized relationship.
type Accepted struct {
	ID            string
	TargetPath    string
	SourceCluster string
}

// AcceptResult aggregates an acceptance pass. Partial failure is not an
// error: every candidate is attempted independently.
type AcceptResult struct {
	Pending  int // candidates found awaiting authorization
	Accepted []Accepted
}

// isAwaitingAuthorization checks both state fields for the pending markers.
// Older clusters report the pre-authorization state in relationship_state
// rather than state, and casing varies between releases.
func isAwaitingAuthorization(rel api.Relationship) bool {
	for _, state := range []string{rel.State, rel.RelationshipState} {
		switch strings.ToUpper(state) {
		case api.StateAwaitingAuthorization, api.StatePending:
			return true
		}
	}
	return false
}

// AcceptPendingReplications finds relationships awaiting authorization on
// the destination cluster and authorizes each one independently, passing
// allowNonEmptyDir through and always allowing creation of a missing target
// path. Failures are classified and logged per item; the pass never fails
// as a whole once the candidate listing succeeds.
func AcceptPendingReplications(ctx context.Context, client TargetAPI, opts AcceptOptions) (*AcceptResult, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	slog.Info("querying destination cluster for pending replication relationships")
	rels, err := client.ListTargetRelationshipStatuses(ctx)
	if err != nil {
		return nil, err
	}

	var pending []api.Relationship
	for _, rel := range rels {
		if isAwaitingAuthorization(rel) {
			pending = append(pending, rel)
		}
	}

	result := &AcceptResult{Pending: len(pending)}
	if len(pending) == 0 {
		slog.Info("no pending replication relationships found on destination cluster")
		return result, nil
	}

	fmt.Fprintf(out, "\nFound %d pending replication relationship(s):\n", len(pending))
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, rel := range pending {
		fmt.Fprintf(out, "  ID: %s\n", rel.ID)
		fmt.Fprintf(out, "  Source Cluster: %s\n", rel.SourceClusterName)
		fmt.Fprintf(out, "  Source Path: %s\n", rel.SourcePath)
		fmt.Fprintf(out, "  Target Path: %s\n", rel.TargetPath)
		fmt.Fprintf(out, "  State: %s\n", rel.State)
		fmt.Fprintln(out, strings.Repeat("-", 100))
	}

	if opts.Confirm != nil && !opts.Confirm(len(pending)) {
		slog.Info("acceptance cancelled by user")
		return &AcceptResult{Pending: len(pending)}, nil
	}

	for _, rel := range pending {
		slog.Info("accepting replication", "id", rel.ID, "path", rel.TargetPath)
		err := client.AuthorizeRelationship(ctx, rel.ID, opts.AllowNonEmptyDir, true)
		if err != nil {
			logAuthorizeFailure(rel.ID, err, opts.AllowNonEmptyDir)
			continue
		}
		slog.Info("successfully accepted replication", "id", rel.ID)
		result.Accepted = append(result.Accepted, Accepted{
			ID:            rel.ID,
			TargetPath:    rel.TargetPath,
			SourceCluster: rel.SourceClusterName,
		})
	}
	return result, nil
}

// logAuthorizeFailure classifies an authorize error. A non-empty-directory
// conflict without the override flag gets a remediation hint; everything
// else is reduced to its first line so embedded backtrace detail from the
// cluster stays out of the report.
func logAuthorizeFailure(id string, err error, allowNonEmptyDir bool) {
	msg := err.Error()
	if strings.Contains(msg, "Error 400:") {
		if strings.Contains(strings.ToLower(msg), "not_empty") && !allowNonEmptyDir {
			slog.Error("failed to accept: target directory not empty; use --allow-non-empty-dir to override",
				"id", id)
			return
		}
		slog.Error("failed to accept", "id", id, "error", firstLine(msg))
		return
	}
	slog.Error("failed to accept replication", "id", id, "error", msg)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
