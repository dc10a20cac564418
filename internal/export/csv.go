// Package export writes relationship listings in machine-readable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/quorumstor/replictl/internal/orchestrate"
)

// csvHeader is the stable column set. Downstream tooling keys on these
// names, so new columns are appended, never inserted.
var csvHeader = []string{
	"cluster_type",
	"cluster_name",
	"cluster_id",
	"source_path",
	"target_path",
	"remote_cluster",
	"state",
	"replication_id",
	"error",
	"recovery_point",
	"queued_snapshots",
	"replication_mode",
}

// WriteCSV renders each cluster's relationships as CSV rows, one row per
// relationship. Clusters with no relationships contribute no rows.
func WriteCSV(w io.Writer, clusters []orchestrate.ClusterInfo) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, ci := range clusters {
		for _, rel := range ci.Relationships {
			row := []string{
				ci.Side,
				ci.ClusterName,
				ci.ClusterID,
				rel.SourcePath,
				rel.TargetPath,
				ci.RemoteCluster(rel),
				rel.State,
				rel.ID,
				rel.LastError,
				formatRecoveryPoint(rel.RecoveryPoint),
				formatQueued(rel.QueuedSnapshots),
				rel.ReplicationMode,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRecoveryPoint(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatQueued(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
