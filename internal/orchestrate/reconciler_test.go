package orchestrate

import (
	"context"
	"testing"

	"github.com/quorumstor/replictl/internal/api"
)

func TestCleanEndedRelationships(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", TargetPath: "/dr/project1", State: api.StateEnded, SourceClusterName: "src-cluster"},
		{ID: "rel-2", TargetPath: "/dr/project2", State: api.StateEstablished},
		{ID: "rel-3", TargetPath: "/other/project", State: api.StateEnded},
	}
	r := NewReconciler(f)

	deleted, err := r.CleanEndedRelationships(context.Background(), "/dr")
	if err != nil {
		t.Fatalf("CleanEndedRelationships: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if len(f.deletedTarget) != 1 || f.deletedTarget[0] != "rel-1" {
		t.Errorf("deleted ids = %v, want [rel-1]", f.deletedTarget)
	}
}

func TestCleanEndedRelationshipsNoneFound(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", TargetPath: "/dr/project1", State: api.StateEstablished},
	}
	r := NewReconciler(f)

	deleted, err := r.CleanEndedRelationships(context.Background(), "/dr")
	if err != nil {
		t.Fatalf("CleanEndedRelationships: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
	if len(f.deletedTarget) != 0 {
		t.Errorf("unexpected delete calls: %v", f.deletedTarget)
	}
}

func TestCleanEndedRelationshipsContinuesPastFailures(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", TargetPath: "/dr/a", State: api.StateEnded},
		{ID: "rel-2", TargetPath: "/dr/b", State: api.StateEnded},
		{ID: "rel-3", TargetPath: "/dr/c", State: api.StateEnded},
	}
	f.deleteTargetErr = map[string]error{
		"rel-2": &api.RequestError{StatusCode: 404, Message: "no such relationship"},
	}
	r := NewReconciler(f)

	deleted, err := r.CleanEndedRelationships(context.Background(), "/dr")
	if err != nil {
		t.Fatalf("CleanEndedRelationships: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2 (failed delete must be skipped, not fatal)", deleted)
	}
}
