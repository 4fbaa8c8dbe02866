package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResourceId(t *testing.T) {
	sub, group, name, err := ParseResourceId(
		"/subscriptions/s0/resourceGroups/rg0/providers/Microsoft.MachineLearningServices/workspaces/ws1")
	assert.Nil(t, err)
	assert.Equal(t, "s0", sub)
	assert.Equal(t, "rg0", group)
	assert.Equal(t, "ws1", name)

	_, _, _, err = ParseResourceId("garbage")
	assert.NotNil(t, err)
}

func TestPipelineIdFromUrl(t *testing.T) {
	assert.Equal(t, "pipe-1", PipelineIdFromUrl("https://platform/pipelines/pipe-1"))
}

func TestLocalHandleTagMatch(t *testing.T) {
	handle := NewLocalHandle()
	ctx := context.Background()

	runId, err := handle.SubmitScriptRun(ctx, "exp", "train", nil,
		map[string]string{"operationId": "a1", "userId": "u1"})
	assert.Nil(t, err)
	_, err = handle.SubmitScriptRun(ctx, "exp", "train", nil,
		map[string]string{"operationId": "a2", "userId": "u1"})
	assert.Nil(t, err)

	runs, err := handle.GetRunsByTags(ctx, "exp", map[string]string{"operationId": "a1"})
	assert.Nil(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, runId, runs[0].ID)

	runs, err = handle.GetRunsByTags(ctx, "exp", map[string]string{"userId": "u1"})
	assert.Nil(t, err)
	assert.Len(t, runs, 2)

	runs, err = handle.GetRunsByTags(ctx, "exp", map[string]string{"userId": "u2"})
	assert.Nil(t, err)
	assert.Len(t, runs, 0)
}

func TestLocalHandleChildRun(t *testing.T) {
	handle := NewLocalHandle()
	ctx := context.Background()

	handle.AddRun(Run{ID: "parent", Status: "Completed"})
	_, err := handle.GetChildRun(ctx, "parent")
	assert.Equal(t, ErrRunNotFound, err)

	handle.SetChildRun("parent", Run{ID: "child", Status: "Completed"})
	child, err := handle.GetChildRun(ctx, "parent")
	assert.Nil(t, err)
	assert.Equal(t, "child", child.ID)
}
