package orchestrate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quorumstor/replictl/internal/api"
)

// TargetAPI is the slice of the cluster control API driven on the
// destination cluster.
type TargetAPI interface {
	ListTargetRelationshipStatuses(ctx context.Context) ([]api.Relationship, error)
	DeleteTargetRelationship(ctx context.Context, id string) error
	AuthorizeRelationship(ctx context.Context, id string, allowNonEmptyDir, allowPathCreate bool) error
	GetClusterConf(ctx context.Context) (*api.ClusterConf, error)
}

// Reconciler removes destination-side relationship records orphaned in the
// terminal ENDED state, left behind when the source cluster deleted its half
// of the relationship.
type Reconciler struct {
	client TargetAPI
}

// NewReconciler returns a reconciler for the destination cluster.
func NewReconciler(client TargetAPI) *Reconciler {
	return &Reconciler{client: client}
}

// CleanEndedRelationships deletes every ENDED relationship whose target path
// starts with basePath and returns the number successfully deleted.
// Per-item delete failures are logged and skipped.
func (r *Reconciler) CleanEndedRelationships(ctx context.Context, basePath string) (int, error) {
	rels, err := r.client.ListTargetRelationshipStatuses(ctx)
	if err != nil {
		return 0, err
	}

	var ended []api.Relationship
	for _, rel := range rels {
		if rel.State == api.StateEnded && strings.HasPrefix(rel.TargetPath, basePath) {
			ended = append(ended, rel)
		}
	}

	if len(ended) == 0 {
		slog.Info("no ended relationships found", "base_path", basePath)
		return 0, nil
	}
	slog.Info("found ended relationships to delete", "count", len(ended))

	deleted := 0
	for _, rel := range ended {
		slog.Info("deleting ended relationship",
			"id", rel.ID, "path", rel.TargetPath, "source_cluster", rel.SourceClusterName)
		if err := r.client.DeleteTargetRelationship(ctx, rel.ID); err != nil {
			slog.Error("failed to delete ended relationship", "id", rel.ID, "error", err)
			continue
		}
		deleted++
	}
	slog.Info("deleted ended relationships", "deleted", deleted, "found", len(ended))
	return deleted, nil
}
