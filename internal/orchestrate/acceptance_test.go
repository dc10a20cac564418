package orchestrate

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumstor/replictl/internal/api"
)

func TestAcceptPendingFindsBothStateFields(t *testing.T) {
	tests := []struct {
		name string
		rel  api.Relationship
		want bool
	}{
		{"state awaiting", api.Relationship{State: "AWAITING_AUTHORIZATION"}, true},
		{"state pending", api.Relationship{State: "PENDING"}, true},
		{"state lowercase", api.Relationship{State: "pending"}, true},
		{"legacy field awaiting", api.Relationship{RelationshipState: "AWAITING_AUTHORIZATION"}, true},
		{"legacy field mixed case", api.Relationship{RelationshipState: "Awaiting_Authorization"}, true},
		{"established", api.Relationship{State: "ESTABLISHED"}, false},
		{"ended", api.Relationship{State: "ENDED"}, false},
		{"empty", api.Relationship{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAwaitingAuthorization(tt.rel))
		})
	}
}

func TestAcceptPendingAuthorizesWithoutPrompt(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{
			ID:                "rel-1",
			State:             api.StateAwaitingAuthorization,
			SourcePath:        "/data/project1",
			TargetPath:        "/dr/data/project1",
			SourceClusterName: "src-cluster",
		},
	}

	result, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Equal(t, "rel-1", result.Accepted[0].ID)
	assert.Equal(t, "/dr/data/project1", result.Accepted[0].TargetPath)
	assert.Equal(t, "src-cluster", result.Accepted[0].SourceCluster)

	require.Len(t, f.authorized, 1)
	assert.False(t, f.authorized[0].allowNonEmptyDir)
	assert.True(t, f.authorized[0].allowPathCreate, "missing target path creation must always be allowed")
}

func TestAcceptPendingPassesThroughAllowNonEmptyDir(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", State: api.StatePending},
	}

	_, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{AllowNonEmptyDir: true})
	require.NoError(t, err)
	require.Len(t, f.authorized, 1)
	assert.True(t, f.authorized[0].allowNonEmptyDir)
}

func TestAcceptPendingEmptyIsNotAnError(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", State: api.StateEstablished},
	}

	result, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.Pending)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, f.authorized)
}

func TestAcceptPendingConfirmDeclineTouchesNothing(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", State: api.StateAwaitingAuthorization},
		{ID: "rel-2", State: api.StateAwaitingAuthorization},
	}

	declined := 0
	result, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{
		Confirm: func(pending int) bool {
			declined = pending
			return false
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, declined, "prompt should see the full candidate count")
	assert.Equal(t, 2, result.Pending)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, f.authorized, "declining must leave every relationship untouched")
}

func TestAcceptPendingPartialFailure(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{ID: "rel-1", State: api.StateAwaitingAuthorization},
		{ID: "rel-2", State: api.StateAwaitingAuthorization},
		{ID: "rel-3", State: api.StateAwaitingAuthorization},
	}
	f.authorizeErr = map[string]error{
		"rel-2": &api.RequestError{
			StatusCode: 400,
			Code:       "replication_target_not_empty_error",
			Message:    "target directory is not empty\ndetail: 12 entries present",
		},
	}

	result, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{})
	require.NoError(t, err, "partial failure must not surface as an error")
	assert.Equal(t, 3, result.Pending)
	require.Len(t, result.Accepted, 2)
	assert.Equal(t, "rel-1", result.Accepted[0].ID)
	assert.Equal(t, "rel-3", result.Accepted[1].ID)
}

func TestAcceptPendingDisplaysCandidates(t *testing.T) {
	f := newFakeCluster()
	f.targetStatuses = []api.Relationship{
		{
			ID:                "rel-1",
			State:             api.StateAwaitingAuthorization,
			SourcePath:        "/data/project1",
			TargetPath:        "/dr/data/project1",
			SourceClusterName: "src-cluster",
		},
	}

	var buf bytes.Buffer
	_, err := AcceptPendingReplications(context.Background(), f, AcceptOptions{Out: &buf})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"rel-1", "src-cluster", "/data/project1", "/dr/data/project1", "AWAITING_AUTHORIZATION"} {
		assert.Contains(t, out, want)
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Error 400: bad", firstLine("Error 400: bad\nstack detail\nmore"))
	assert.Equal(t, "single line", firstLine("single line"))
}

func TestRequestErrorRendersClassificationConvention(t *testing.T) {
	err := &api.RequestError{
		StatusCode: 400,
		Code:       "replication_target_not_empty_error",
		Message:    "target directory is not empty",
	}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Error 400:"), "acceptance classification depends on this prefix: %s", msg)
	assert.Contains(t, strings.ToLower(msg), "not_empty")
}
