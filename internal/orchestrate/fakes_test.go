package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/quorumstor/replictl/internal/api"
)

// fakeCluster implements SourceAPI, TargetAPI, and NetworkAPI in memory so
// the orchestration logic can be exercised without a cluster.
type fakeCluster struct {
	clusterName string
	clusterID   string

	// filesystem: directory paths the tree walk reports under a base
	dirs []string

	// network: per-node reports
	nodes []api.NodeNetworkStatus

	sourceStatuses []api.Relationship
	targetStatuses []api.Relationship

	created       []api.Relationship
	deletedSource []string
	deletedTarget []string
	authorized    []authorizeCall

	createErr       map[string]error // keyed by source path
	deleteSourceErr map[string]error // keyed by relationship id
	deleteTargetErr map[string]error // keyed by relationship id
	authorizeErr    map[string]error // keyed by relationship id
}

type authorizeCall struct {
	id               string
	allowNonEmptyDir bool
	allowPathCreate  bool
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		clusterName: "test-cluster",
		clusterID:   "a8f3c2d1-0000-4000-8000-000000000001",
		nodes: []api.NodeNetworkStatus{
			{NodeID: 1, Networks: []api.NetworkStatus{
				{Name: "Default", Addresses: []string{"10.1.1.20", "10.1.1.21"}},
			}},
		},
	}
}

func (f *fakeCluster) GetClusterConf(ctx context.Context) (*api.ClusterConf, error) {
	return &api.ClusterConf{ClusterName: f.clusterName, ClusterID: f.clusterID}, nil
}

func (f *fakeCluster) ListNetworkStatuses(ctx context.Context) ([]api.NodeNetworkStatus, error) {
	return f.nodes, nil
}

// TreeWalkPreorder mimics the cluster API: the base path itself comes first,
// then its children in configured order.
func (f *fakeCluster) TreeWalkPreorder(ctx context.Context, path string, maxDepth int) ([]api.DirEntry, error) {
	entries := []api.DirEntry{{Path: path, Type: api.FileTypeDirectory}}
	for _, dir := range f.dirs {
		if strings.HasPrefix(dir, path) && dir != path {
			entries = append(entries, api.DirEntry{Path: dir, Type: api.FileTypeDirectory})
		}
	}
	return entries, nil
}

func (f *fakeCluster) ListSourceRelationshipStatuses(ctx context.Context) ([]api.Relationship, error) {
	return f.sourceStatuses, nil
}

func (f *fakeCluster) ListTargetRelationshipStatuses(ctx context.Context) ([]api.Relationship, error) {
	return f.targetStatuses, nil
}

func (f *fakeCluster) CreateSourceRelationship(ctx context.Context, address, sourcePath, targetPath string) (*api.Relationship, error) {
	if err := f.createErr[sourcePath]; err != nil {
		return nil, err
	}
	rel := api.Relationship{
		ID:            fmt.Sprintf("repl-%03d", len(f.created)+1),
		SourcePath:    sourcePath,
		TargetPath:    targetPath,
		TargetAddress: address,
	}
	f.created = append(f.created, rel)
	return &rel, nil
}

func (f *fakeCluster) DeleteSourceRelationship(ctx context.Context, id string) error {
	if err := f.deleteSourceErr[id]; err != nil {
		return err
	}
	f.deletedSource = append(f.deletedSource, id)
	return nil
}

func (f *fakeCluster) DeleteTargetRelationship(ctx context.Context, id string) error {
	if err := f.deleteTargetErr[id]; err != nil {
		return err
	}
	f.deletedTarget = append(f.deletedTarget, id)
	return nil
}

func (f *fakeCluster) AuthorizeRelationship(ctx context.Context, id string, allowNonEmptyDir, allowPathCreate bool) error {
	if err := f.authorizeErr[id]; err != nil {
		return err
	}
	f.authorized = append(f.authorized, authorizeCall{
		id:               id,
		allowNonEmptyDir: allowNonEmptyDir,
		allowPathCreate:  allowPathCreate,
	})
	return nil
}

// singleAddressPool builds a pool over one known address for tests that do
// not exercise balancing.
func singleAddressPool(t interface{ Fatalf(string, ...interface{}) }, f *fakeCluster) *AddressPool {
	pool, err := NewAddressPool(context.Background(), f, "Default", []string{"10.1.1.20"})
	if err != nil {
		t.Fatalf("NewAddressPool: %v", err)
	}
	return pool
}

func mustFilter(t interface{ Fatalf(string, ...interface{}) }, include, exclude []string) *Filter {
	filter, err := NewFilter(include, exclude)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	return filter
}
