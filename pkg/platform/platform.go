package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRunNotFound no run/model/endpoint matched the query
var ErrRunNotFound = errors.New("run not found")

// Run one asynchronous execution on the job platform
type Run struct {
	ID     string            `json:"runId"`
	Status string            `json:"status"`
	Tags   map[string]string `json:"tags"`
}

// ModelRecord a registered model
type ModelRecord struct {
	Id          string            `json:"id"`
	Description string            `json:"description"`
	CreatedTime string            `json:"createdTime"`
	Tags        map[string]string `json:"tags"`
}

// EndpointRecord a deployed scoring endpoint
type EndpointRecord struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedTime string            `json:"createdTime"`
	ScoringUri  string            `json:"scoringUri"`
	Tags        map[string]string `json:"tags"`
}

// compute target kinds
const (
	ComputeKindCluster    = "AmlCompute"
	ComputeKindDeployment = "AKS"
)

// Handle an authenticated connection to one workspace on the job platform.
// Runs are correlated back to operations purely by tag match.
type Handle interface {
	// SubmitScriptRun submit a single-step run executing entryPoint with the
	// given parameters. Result reuse is always disabled: every submission
	// produces a fresh run even with identical parameters.
	SubmitScriptRun(ctx context.Context, experiment, entryPoint string,
		parameters map[string]string, tags map[string]string) (string, error)

	// SubmitPipelineRun submit a pre-published pipeline, referenced by id.
	SubmitPipelineRun(ctx context.Context, experiment, pipelineId string,
		parameters map[string]string, tags map[string]string) (string, error)

	// GetRunsByTags list runs in an experiment whose tags contain every
	// entry of tags. An empty result is not an error.
	GetRunsByTags(ctx context.Context, experiment string, tags map[string]string) ([]Run, error)

	// GetChildRun first child run of a run, ErrRunNotFound when none exist.
	GetChildRun(ctx context.Context, runId string) (*Run, error)

	// ListRunFiles artifact names available on a run.
	ListRunFiles(ctx context.Context, runId string) ([]string, error)

	// DownloadRunFile fetch one run artifact to a local path.
	DownloadRunFile(ctx context.Context, runId, remotePath, localPath string) error

	// ListModelsByTags registered models matching every tag.
	ListModelsByTags(ctx context.Context, tags map[string]string) ([]ModelRecord, error)

	// ListEndpointsByTags deployed endpoints matching every tag.
	ListEndpointsByTags(ctx context.Context, tags map[string]string) ([]EndpointRecord, error)

	// GetEndpointKeys live scoring key pair of an endpoint.
	GetEndpointKeys(ctx context.Context, endpointName string) (string, string, error)

	// ListComputeTargets names of compute targets of one kind.
	ListComputeTargets(ctx context.Context, kind string) ([]string, error)
}

// ParseResourceId decompose a workspace resource locator into its
// subscription / resource group / workspace name triple.
func ParseResourceId(resourceId string) (string, string, string, error) {
	parts := strings.Split(resourceId, "/")
	if len(parts) < 5 {
		return "", "", "", fmt.Errorf("malformed workspace resource id: %s", resourceId)
	}
	return parts[2], parts[4], parts[len(parts)-1], nil
}

// PipelineIdFromUrl the published pipeline id is the last url segment.
func PipelineIdFromUrl(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}
