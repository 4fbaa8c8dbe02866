package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/module"
	"github.com/Azure/aace/pkg/platform"
	"github.com/Azure/aace/pkg/secret"
)

// memStore in-memory Datastore for handler tests
type memStore struct {
	lock sync.Mutex
	rows map[string]map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]map[string]interface{})}
}

func (m *memStore) Put(key string, values map[string]interface{}) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	row := make(map[string]interface{}, len(values))
	for col, value := range values {
		row[col] = value
	}
	m.rows[key] = row
	return nil
}

func (m *memStore) Update(key string, values map[string]interface{}) error {
	return m.Put(key, values)
}

func (m *memStore) Get(key string, columns []string) (map[string]interface{}, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	row, ok := m.rows[key]
	if !ok {
		return nil, nil
	}
	result := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		if value, ok := row[col]; ok {
			result[col] = value
		}
	}
	return result, nil
}

func (m *memStore) Delete(key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.rows, key)
	return nil
}

func (m *memStore) ListAll(columns []string) (map[string]map[string]interface{}, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	result := make(map[string]map[string]interface{}, len(m.rows))
	for key, row := range m.rows {
		selected := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			if value, ok := row[col]; ok {
				selected[col] = value
			}
		}
		result[key] = selected
	}
	return result, nil
}

func (m *memStore) Close() error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *datastore.UserStore) {
	gin.SetMode(gin.TestMode)
	config.ConfigGlobal = config.DefaultConfig()
	config.ConfigGlobal.AgentId = "agent-1"
	config.ConfigGlobal.CodeCacheDir = t.TempDir()

	handle := platform.NewLocalHandle()
	subscriptions := datastore.NewSubscriptionStore(newMemStore())
	versions := datastore.NewAPIVersionStore(newMemStore())
	workspaces := datastore.NewWorkspaceStore(newMemStore())
	publishers := datastore.NewPublisherStore(newMemStore())
	users := datastore.NewUserStore(newMemStore())
	secrets := secret.NewCache(secret.NewDatastoreStore(newMemStore()))
	resolver := module.NewResolver(secrets, func(_ *models.Workspace, _ string) (platform.Handle, error) {
		return handle, nil
	})
	code := module.NewCodeManager(config.ConfigGlobal.CodeCacheDir, module.NewControlPlaneClient("http://unused"), nil)
	core := module.NewService(subscriptions, versions, workspaces, publishers, secrets, resolver, code)

	assert.Nil(t, workspaces.Upsert(&models.Workspace{
		Name:       "ws1",
		ResourceId: "/subscriptions/s0/resourceGroups/rg0/providers/p/workspaces/ws1",
		AADSecret:  "literal",
	}))
	assert.Nil(t, subscriptions.Upsert(&models.Subscription{
		SubscriptionId:         "sub1",
		UserId:                 "user1",
		ProductName:            "prod",
		DeploymentName:         "dep",
		WorkspaceName:          "ws1",
		PrimaryKeySecretName:   "sub1-primary",
		SecondaryKeySecretName: "sub1-secondary",
	}))
	assert.Nil(t, secrets.Set("sub1-primary", "key-123"))
	assert.Nil(t, versions.Upsert(&models.APIVersion{
		ProductName:       "prod",
		DeploymentName:    "dep",
		VersionName:       "v1",
		VersionSourceType: config.SOURCE_PIPELINE,
		TrainModelAPI:     "https://platform/pipelines/pipe-1",
		WorkspaceName:     "ws1",
	}))

	router := gin.New()
	RegisterHandlers(router, NewAgentHandler(core, users, secrets))
	return router, users
}

func perform(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAgentInfo(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := perform(router, http.MethodGet, "/api/agentinfo", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	assert.Nil(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "agent-1", body["agentId"])
}

func TestOperationAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := perform(router, http.MethodGet, "/api/sub1/operations/train", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = perform(router, http.MethodGet, "/api/sub1/operations/train", "",
		map[string]string{"api-key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = perform(router, http.MethodGet, "/api/nope/operations/train", "",
		map[string]string{"api-key": "key-123"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = perform(router, http.MethodGet, "/api/sub1/operations/train", "",
		map[string]string{"api-key": "key-123"})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "[]", strings.TrimSpace(resp.Body.String()))
}

func TestSubmitAndQueryOperation(t *testing.T) {
	router, _ := newTestRouter(t)
	headers := map[string]string{"api-key": "key-123"}

	resp := perform(router, http.MethodPost, "/api/sub1/train?api-version=v1", `{"epochs":3}`, headers)
	assert.Equal(t, http.StatusAccepted, resp.Code)
	var submitted map[string]string
	assert.Nil(t, json.Unmarshal(resp.Body.Bytes(), &submitted))
	operationId := submitted["operationId"]
	assert.NotEqual(t, "", operationId)

	resp = perform(router, http.MethodGet, "/api/sub1/operations/train/"+operationId, "", headers)
	assert.Equal(t, http.StatusOK, resp.Code)
	var status models.OperationResult
	assert.Nil(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, operationId, status.OperationId)
	assert.Equal(t, config.RUN_RUNNING, status.Status)

	// missing api-version is a user error
	resp = perform(router, http.MethodPost, "/api/sub1/train", "{}", headers)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// unsupported verb in pipeline mode
	resp = perform(router, http.MethodPost, "/api/sub1/deploy?api-version=v1", "{}", headers)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteOutputAcknowledged(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := perform(router, http.MethodDelete, "/api/sub1/inferenceresult/a1", "",
		map[string]string{"api-key": "key-123"})
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestManagementRequiresAdmin(t *testing.T) {
	router, users := newTestRouter(t)

	resp := perform(router, http.MethodGet, "/api/management/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	assert.Nil(t, users.Upsert(&models.AgentUser{
		AADUserId: "root",
		Role:      config.ROLE_ADMIN,
		Key:       "admin-key",
	}))

	resp = perform(router, http.MethodGet, "/api/management/subscriptions", "",
		map[string]string{"x-user-id": "root", "api-key": "admin-key"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var subs []*models.Subscription
	assert.Nil(t, json.Unmarshal(resp.Body.Bytes(), &subs))
	assert.Len(t, subs, 1)

	resp = perform(router, http.MethodGet, "/api/management/deploymentTargetTypes", "",
		map[string]string{"x-user-id": "root", "api-key": "admin-key"})
	assert.Equal(t, http.StatusOK, resp.Code)
}
