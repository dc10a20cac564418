// Package api implements a typed client for the cluster control REST API.
//
// One Client speaks to one cluster node. Replication orchestration uses two
// clients, one per cluster: the source side owns the filesystem walk and the
// source relationship records, the destination side owns network addresses,
// authorization, and target relationship records.
package api

import "time"

// Relationship lifecycle states as reported by the cluster. The cluster owns
// these transitions; replictl only reads them and requests authorization.
const (
	StateAwaitingAuthorization = "AWAITING_AUTHORIZATION"
	StatePending               = "PENDING"
	StateEstablished           = "ESTABLISHED"
	StateReplicating           = "REPLICATING"
	StateCreating              = "CREATING"
	StateDisconnected          = "DISCONNECTED"
	StateEnded                 = "ENDED"
)

// DirEntry is one entry from a tree walk.
type DirEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// FileTypeDirectory is the type tag the filesystem API uses for directories.
const FileTypeDirectory = "FS_FILE_TYPE_DIRECTORY"

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool {
	return e.Type == FileTypeDirectory
}

// Relationship is one replication relationship record. Source-side and
// target-side listings share this shape; fields not reported by a side are
// left zero. Older clusters report the pending state in RelationshipState
// instead of State, so both fields must be consulted.
type Relationship struct {
	ID                string     `json:"id"`
	SourcePath        string     `json:"source_root_path"`
	SourceRootID      string     `json:"source_root_id,omitempty"`
	TargetPath        string     `json:"target_root_path"`
	TargetAddress     string     `json:"target_address,omitempty"`
	SourceClusterName string     `json:"source_cluster_name,omitempty"`
	TargetClusterName string     `json:"target_cluster_name,omitempty"`
	State             string     `json:"state,omitempty"`
	RelationshipState string     `json:"relationship_state,omitempty"` // legacy pending-state field
	LastError         string     `json:"error_from_last_job,omitempty"`
	RecoveryPoint     *time.Time `json:"recovery_point,omitempty"`
	QueuedSnapshots   *int       `json:"queued_snapshot_count,omitempty"`
	ReplicationMode   string     `json:"replication_mode,omitempty"`
}

// NetworkStatus is the address assignment of one named network on one node.
type NetworkStatus struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
}

// NodeNetworkStatus is the per-node network report. A node that carries no
// addresses for a network still reports the network with an empty list.
type NodeNetworkStatus struct {
	NodeID   int             `json:"node_id"`
	Networks []NetworkStatus `json:"network_statuses"`
}

// ClusterConf identifies a cluster.
type ClusterConf struct {
	ClusterName string `json:"cluster_name"`
	ClusterID   string `json:"cluster_id"`
}

// AuthorizeRequest is the body for the relationship authorize call.
type AuthorizeRequest struct {
	AllowNonEmptyDirectory bool `json:"allow_non_empty_directory"`
	AllowFSPathCreate      bool `json:"allow_fs_path_create"`
}

// CreateRelationshipRequest is the body for relationship creation.
type CreateRelationshipRequest struct {
	Address    string `json:"address"`
	SourcePath string `json:"source_root_path"`
	TargetPath string `json:"target_root_path"`
}
