package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/clientcredentials"

	conf "github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

// restHandle talks to the job platform REST api. The http client carries an
// auto-refreshing client-credentials token source, one per workspace.
type restHandle struct {
	client *http.Client
	// {base}/subscriptions/{sub}/resourceGroups/{rg}/workspaces/{ws}
	scope string
}

// Connect authenticate against one workspace with a service principal.
func Connect(workspace *models.Workspace, secret string) (Handle, error) {
	subId, resourceGroup, wsName, err := ParseResourceId(workspace.ResourceId)
	if err != nil {
		return nil, err
	}
	cc := &clientcredentials.Config{
		ClientID:     workspace.AADAppId,
		ClientSecret: secret,
		TokenURL:     conf.ConfigGlobal.PlatformTokenEndpoint(workspace.AADTenantId),
		Scopes:       []string{"https://management.azure.com/.default"},
	}
	client := cc.Client(context.Background())
	client.Timeout = conf.HTTPTIMEOUT
	return &restHandle{
		client: client,
		scope: fmt.Sprintf("%s/subscriptions/%s/resourceGroups/%s/workspaces/%s",
			conf.ConfigGlobal.PlatformApiBase(workspace.Region), subId, resourceGroup, wsName),
	}, nil
}

func (h *restHandle) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.scope+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrRunNotFound
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("platform api %s %s: status %d, %s", method, path, resp.StatusCode, string(data))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func tagQuery(tags map[string]string) string {
	query := url.Values{}
	for key, value := range tags {
		query.Add("tag", fmt.Sprintf("%s=%s", key, value))
	}
	return query.Encode()
}

type submitRequest struct {
	EntryPoint string            `json:"entryPoint,omitempty"`
	PipelineId string            `json:"pipelineId,omitempty"`
	Parameters map[string]string `json:"parameters"`
	Tags       map[string]string `json:"tags"`
	AllowReuse bool              `json:"allowReuse"`
}

type submitResponse struct {
	RunId string `json:"runId"`
}

func (h *restHandle) SubmitScriptRun(ctx context.Context, experiment, entryPoint string,
	parameters map[string]string, tags map[string]string) (string, error) {
	var resp submitResponse
	err := h.do(ctx, http.MethodPost, fmt.Sprintf("/experiments/%s/runs", experiment), &submitRequest{
		EntryPoint: entryPoint,
		Parameters: parameters,
		Tags:       tags,
		AllowReuse: false,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.RunId, nil
}

func (h *restHandle) SubmitPipelineRun(ctx context.Context, experiment, pipelineId string,
	parameters map[string]string, tags map[string]string) (string, error) {
	var resp submitResponse
	err := h.do(ctx, http.MethodPost, fmt.Sprintf("/experiments/%s/runs", experiment), &submitRequest{
		PipelineId: pipelineId,
		Parameters: parameters,
		Tags:       tags,
		AllowReuse: false,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.RunId, nil
}

func (h *restHandle) GetRunsByTags(ctx context.Context, experiment string, tags map[string]string) ([]Run, error) {
	var resp struct {
		Runs []Run `json:"runs"`
	}
	path := fmt.Sprintf("/experiments/%s/runs?%s", experiment, tagQuery(tags))
	if err := h.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

func (h *restHandle) GetChildRun(ctx context.Context, runId string) (*Run, error) {
	var resp struct {
		Runs []Run `json:"runs"`
	}
	if err := h.do(ctx, http.MethodGet, fmt.Sprintf("/runs/%s/children", runId), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &resp.Runs[0], nil
}

func (h *restHandle) ListRunFiles(ctx context.Context, runId string) ([]string, error) {
	var resp struct {
		Files []string `json:"files"`
	}
	if err := h.do(ctx, http.MethodGet, fmt.Sprintf("/runs/%s/artifacts", runId), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (h *restHandle) DownloadRunFile(ctx context.Context, runId, remotePath, localPath string) error {
	path := fmt.Sprintf("/runs/%s/artifacts/content?path=%s", runId, url.QueryEscape(remotePath))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.scope+path, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrRunNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("download %s of run %s: status %d", remotePath, runId, resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	file, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, resp.Body)
	return err
}

func (h *restHandle) ListModelsByTags(ctx context.Context, tags map[string]string) ([]ModelRecord, error) {
	var resp struct {
		Models []ModelRecord `json:"models"`
	}
	if err := h.do(ctx, http.MethodGet, "/models?"+tagQuery(tags), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

func (h *restHandle) ListEndpointsByTags(ctx context.Context, tags map[string]string) ([]EndpointRecord, error) {
	var resp struct {
		Endpoints []EndpointRecord `json:"endpoints"`
	}
	if err := h.do(ctx, http.MethodGet, "/endpoints?"+tagQuery(tags), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Endpoints, nil
}

func (h *restHandle) GetEndpointKeys(ctx context.Context, endpointName string) (string, string, error) {
	var resp struct {
		PrimaryKey   string `json:"primaryKey"`
		SecondaryKey string `json:"secondaryKey"`
	}
	path := fmt.Sprintf("/endpoints/%s/listKeys", endpointName)
	if err := h.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", "", err
	}
	return resp.PrimaryKey, resp.SecondaryKey, nil
}

func (h *restHandle) ListComputeTargets(ctx context.Context, kind string) ([]string, error) {
	var resp struct {
		Computes []struct {
			Name string `json:"name"`
			Kind string `json:"computeType"`
		} `json:"computes"`
	}
	if err := h.do(ctx, http.MethodGet, "/computes", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Computes))
	for _, compute := range resp.Computes {
		if compute.Kind == kind {
			names = append(names, compute.Name)
		}
	}
	return names, nil
}
