package orchestrate

import (
	"context"
	"log/slog"

	"github.com/quorumstor/replictl/internal/api"
)

// ClusterInfo bundles a cluster's identity with its relationship records for
// summaries and export. Side is "Source" or "Destination".
type ClusterInfo struct {
	Side          string
	ClusterName   string
	ClusterID     string
	Relationships []api.Relationship
}

// SourceInfo fetches the source cluster's identity and its outgoing
// relationship statuses.
func SourceInfo(ctx context.Context, client SourceAPI) (*ClusterInfo, error) {
	conf, err := client.GetClusterConf(ctx)
	if err != nil {
		return nil, err
	}
	rels, err := client.ListSourceRelationshipStatuses(ctx)
	if err != nil {
		return nil, err
	}
	return &ClusterInfo{
		Side:          "Source",
		ClusterName:   conf.ClusterName,
		ClusterID:     conf.ClusterID,
		Relationships: rels,
	}, nil
}

// TargetInfo fetches the destination cluster's identity and its incoming
// relationship statuses.
func TargetInfo(ctx context.Context, client TargetAPI) (*ClusterInfo, error) {
	conf, err := client.GetClusterConf(ctx)
	if err != nil {
		return nil, err
	}
	if conf.ClusterName == "" || conf.ClusterID == "" {
		slog.Warn("cluster configuration returned empty identity fields")
	}
	rels, err := client.ListTargetRelationshipStatuses(ctx)
	if err != nil {
		return nil, err
	}
	return &ClusterInfo{
		Side:          "Destination",
		ClusterName:   conf.ClusterName,
		ClusterID:     conf.ClusterID,
		Relationships: rels,
	}, nil
}

// RemoteCluster returns the relationship's remote cluster name as seen from
// this info's side.
func (ci *ClusterInfo) RemoteCluster(rel api.Relationship) string {
	if ci.Side == "Source" {
		return rel.TargetClusterName
	}
	return rel.SourceClusterName
}

// LocalPath returns the relationship path that lives on this info's side.
func (ci *ClusterInfo) LocalPath(rel api.Relationship) string {
	if ci.Side == "Source" {
		return rel.SourcePath
	}
	return rel.TargetPath
}
