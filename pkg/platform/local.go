package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	conf "github.com/Azure/aace/pkg/config"
)

// LocalHandle in-process stand-in for the job platform. Runs complete
// immediately or on demand via SetRunStatus. Backs local development mode
// and the test suites.
type LocalHandle struct {
	lock      sync.Mutex
	nextRun   int
	runs      map[string]*Run
	children  map[string]string
	files     map[string]map[string][]byte
	models    []ModelRecord
	endpoints []EndpointRecord
	keys      map[string][2]string
	computes  map[string][]string
}

func NewLocalHandle() *LocalHandle {
	return &LocalHandle{
		runs:     make(map[string]*Run),
		children: make(map[string]string),
		files:    make(map[string]map[string][]byte),
		keys:     make(map[string][2]string),
		computes: make(map[string][]string),
	}
}

func (h *LocalHandle) submit(tags map[string]string) string {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.nextRun++
	runId := fmt.Sprintf("local-run-%d", h.nextRun)
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	h.runs[runId] = &Run{ID: runId, Status: conf.RUN_RUNNING, Tags: copied}
	return runId
}

func (h *LocalHandle) SubmitScriptRun(_ context.Context, _, _ string,
	_ map[string]string, tags map[string]string) (string, error) {
	return h.submit(tags), nil
}

func (h *LocalHandle) SubmitPipelineRun(_ context.Context, _, _ string,
	_ map[string]string, tags map[string]string) (string, error) {
	return h.submit(tags), nil
}

func (h *LocalHandle) GetRunsByTags(_ context.Context, _ string, tags map[string]string) ([]Run, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	matched := make([]Run, 0)
	for _, run := range h.runs {
		if tagsMatch(run.Tags, tags) {
			matched = append(matched, *run)
		}
	}
	return matched, nil
}

func (h *LocalHandle) GetChildRun(_ context.Context, runId string) (*Run, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	childId, ok := h.children[runId]
	if !ok {
		return nil, ErrRunNotFound
	}
	child, ok := h.runs[childId]
	if !ok {
		return nil, ErrRunNotFound
	}
	copied := *child
	return &copied, nil
}

func (h *LocalHandle) ListRunFiles(_ context.Context, runId string) ([]string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	names := make([]string, 0)
	for name := range h.files[runId] {
		names = append(names, name)
	}
	return names, nil
}

func (h *LocalHandle) DownloadRunFile(_ context.Context, runId, remotePath, localPath string) error {
	h.lock.Lock()
	data, ok := h.files[runId][remotePath]
	h.lock.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(localPath, data, 0644)
}

func (h *LocalHandle) ListModelsByTags(_ context.Context, tags map[string]string) ([]ModelRecord, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	matched := make([]ModelRecord, 0)
	for _, model := range h.models {
		if tagsMatch(model.Tags, tags) {
			matched = append(matched, model)
		}
	}
	return matched, nil
}

func (h *LocalHandle) ListEndpointsByTags(_ context.Context, tags map[string]string) ([]EndpointRecord, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	matched := make([]EndpointRecord, 0)
	for _, endpoint := range h.endpoints {
		if tagsMatch(endpoint.Tags, tags) {
			matched = append(matched, endpoint)
		}
	}
	return matched, nil
}

func (h *LocalHandle) GetEndpointKeys(_ context.Context, endpointName string) (string, string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	pair, ok := h.keys[endpointName]
	if !ok {
		return "", "", ErrRunNotFound
	}
	return pair[0], pair[1], nil
}

func (h *LocalHandle) ListComputeTargets(_ context.Context, kind string) ([]string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	return append([]string(nil), h.computes[kind]...), nil
}

// mutators below are for tests and local mode seeding

func (h *LocalHandle) SetRunStatus(runId, status string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if run, ok := h.runs[runId]; ok {
		run.Status = status
	}
}

func (h *LocalHandle) AddRun(run Run) {
	h.lock.Lock()
	defer h.lock.Unlock()
	copied := run
	h.runs[run.ID] = &copied
}

func (h *LocalHandle) SetChildRun(parentId string, child Run) {
	h.lock.Lock()
	defer h.lock.Unlock()
	copied := child
	h.runs[child.ID] = &copied
	h.children[parentId] = child.ID
}

func (h *LocalHandle) PutRunFile(runId, remotePath string, data []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.files[runId] == nil {
		h.files[runId] = make(map[string][]byte)
	}
	h.files[runId][remotePath] = data
}

func (h *LocalHandle) AddModel(model ModelRecord) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.models = append(h.models, model)
}

func (h *LocalHandle) AddEndpoint(endpoint EndpointRecord, primaryKey, secondaryKey string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.endpoints = append(h.endpoints, endpoint)
	h.keys[endpoint.Name] = [2]string{primaryKey, secondaryKey}
}

func (h *LocalHandle) SetComputeTargets(kind string, names []string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.computes[kind] = append([]string(nil), names...)
}

func tagsMatch(have, want map[string]string) bool {
	for key, value := range want {
		if have[key] != value {
			return false
		}
	}
	return true
}
