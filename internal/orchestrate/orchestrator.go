package orchestrate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quorumstor/replictl/internal/api"
)

// SourceAPI is the slice of the cluster control API the orchestrator drives
// on the source cluster.
type SourceAPI interface {
	TreeWalkPreorder(ctx context.Context, path string, maxDepth int) ([]api.DirEntry, error)
	ListSourceRelationshipStatuses(ctx context.Context) ([]api.Relationship, error)
	CreateSourceRelationship(ctx context.Context, address, sourcePath, targetPath string) (*api.Relationship, error)
	DeleteSourceRelationship(ctx context.Context, id string) error
	GetClusterConf(ctx context.Context) (*api.ClusterConf, error)
}

// CacheEntry is the cached view of one existing relationship, keyed by its
// source path in the orchestrator's cache.
type CacheEntry struct {
	RelationshipID string
	TargetAddress  string
	RemoteCluster  string
}

// CreateOutcome records what happened to one discovered directory during a
// create pass. Exactly one of Relationship and Err is set for attempted
// entries; skipped entries carry a SkipReason instead.
type CreateOutcome struct {
	SourcePath   string
	TargetPath   string
	Address      string
	Relationship *api.Relationship
	Err          error
}

// CreateResult aggregates a create pass. Per-item failures are collected
// here, never propagated: the pass always runs to completion.
type CreateResult struct {
	Created []CreateOutcome
	Failed  []CreateOutcome
	Skipped int // already replicated (cache hit)
}

// Attempted returns the number of create calls issued.
func (r *CreateResult) Attempted() int {
	return len(r.Created) + len(r.Failed)
}

// Orchestrator walks one directory level under a base path on the source
// cluster and reconciles replication relationships against its cache.
//
// The cache is a point-in-time snapshot: Populate must be called before
// CreateReplications or CleanReplications, and the populate-then-act
// sequence is not atomic against concurrent external mutation. Two
// invocations racing each other can both decide a path is unreplicated; the
// upstream API is the only duplicate guard in that window.
type Orchestrator struct {
	client SourceAPI
	cache  map[string]CacheEntry
}

// NewOrchestrator returns an orchestrator with an empty cache.
func NewOrchestrator(client SourceAPI) *Orchestrator {
	return &Orchestrator{
		client: client,
		cache:  make(map[string]CacheEntry),
	}
}

// Populate snapshots the source cluster's outgoing relationships into the
// cache, keyed by source path. Prior cache contents are discarded. Skipping
// this call makes create attempt duplicates and clean operate on nothing.
func (o *Orchestrator) Populate(ctx context.Context) error {
	rels, err := o.client.ListSourceRelationshipStatuses(ctx)
	if err != nil {
		return err
	}
	o.cache = make(map[string]CacheEntry, len(rels))
	for _, rel := range rels {
		o.cache[rel.SourcePath] = CacheEntry{
			RelationshipID: rel.ID,
			TargetAddress:  rel.TargetAddress,
			RemoteCluster:  rel.TargetClusterName,
		}
	}
	slog.Info("populated relationship cache", "relationships", len(o.cache))
	return nil
}

// Cached reports whether sourcePath already has a relationship in the cache.
func (o *Orchestrator) Cached(sourcePath string) bool {
	_, ok := o.cache[sourcePath]
	return ok
}

// CacheSize returns the number of cached relationships.
func (o *Orchestrator) CacheSize() int {
	return len(o.cache)
}

// destinationPath computes the target path for a source path. An empty or
// "/" prefix means the destination mirrors the source. Any other prefix is
// concatenated verbatim: no slash is inserted or removed, so a prefix
// without a leading slash stays that way.
func destinationPath(prefix, sourcePath string) string {
	if prefix == "" || prefix == "/" {
		return sourcePath
	}
	return prefix + sourcePath
}

// CreateReplications discovers the immediate subdirectories of basePath and
// creates a relationship for each one that passes the filter and is not
// already cached, drawing a destination address from the pool per creation.
// Entries are processed in walk order; a failed create is recorded and the
// pass moves on. There is no implicit retry.
func (o *Orchestrator) CreateReplications(ctx context.Context, basePath string, pool *AddressPool, dstPrefix string, filter *Filter) (*CreateResult, error) {
	entries, err := o.client.TreeWalkPreorder(ctx, basePath, 1)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{}
	for i, entry := range entries {
		// The walk reports basePath itself first; only its children
		// are candidates.
		if i == 0 {
			continue
		}
		if !entry.IsDir() {
			continue
		}
		path := entry.Path
		if !filter.Match(path) {
			continue
		}
		slog.Info("evaluating path", "path", path)

		if o.Cached(path) {
			slog.Info("replication already exists, skipping", "path", path)
			result.Skipped++
			continue
		}

		address, err := pool.Next()
		if err != nil {
			return nil, err
		}
		targetPath := destinationPath(dstPrefix, path)

		rel, err := o.client.CreateSourceRelationship(ctx, address, path, targetPath)
		if err != nil {
			slog.Error("failed to create replication", "path", path, "address", address, "error", err)
			result.Failed = append(result.Failed, CreateOutcome{
				SourcePath: path,
				TargetPath: targetPath,
				Address:    address,
				Err:        err,
			})
			continue
		}
		slog.Info("created replication relationship",
			"id", rel.ID, "address", address, "path", path, "target_path", targetPath)
		result.Created = append(result.Created, CreateOutcome{
			SourcePath:   path,
			TargetPath:   targetPath,
			Address:      address,
			Relationship: rel,
		})
	}
	return result, nil
}

// CleanReplications deletes every cached relationship whose source path
// starts with basePath and passes the filter, and returns the number
// actually deleted. Per-item delete failures are logged and skipped.
// Only cached entries are considered; Populate must run first.
func (o *Orchestrator) CleanReplications(ctx context.Context, basePath string, filter *Filter) int {
	deleted := 0
	for path, entry := range o.cache {
		if !strings.HasPrefix(path, basePath) {
			continue
		}
		if !filter.Match(path) {
			continue
		}
		slog.Info("deleting replication", "id", entry.RelationshipID, "path", path)
		if err := o.client.DeleteSourceRelationship(ctx, entry.RelationshipID); err != nil {
			slog.Error("failed to delete replication", "id", entry.RelationshipID, "path", path, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}
