package module

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/platform"
	"github.com/Azure/aace/pkg/secret"
)

// memTable in-memory Datastore for tests
type memTable struct {
	lock sync.Mutex
	rows map[string]map[string]interface{}
}

func newMemTable() *memTable {
	return &memTable{rows: make(map[string]map[string]interface{})}
}

func (m *memTable) Put(key string, values map[string]interface{}) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	row := make(map[string]interface{}, len(values))
	for col, value := range values {
		row[col] = value
	}
	m.rows[key] = row
	return nil
}

func (m *memTable) Update(key string, values map[string]interface{}) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	row, ok := m.rows[key]
	if !ok {
		row = make(map[string]interface{})
		m.rows[key] = row
	}
	for col, value := range values {
		row[col] = value
	}
	return nil
}

func (m *memTable) Get(key string, columns []string) (map[string]interface{}, error) {
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

func (m *memTable) Delete(key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.rows, key)
	return nil
}

func (m *memTable) ListAll(columns []string) (map[string]map[string]interface{}, error) {
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

func (m *memTable) Close() error {
	return nil
}

var _ datastore.Datastore = (*memTable)(nil)

// failingUrls a project url getter that must not be called
type failingUrls struct {
	t *testing.T
}

func (f failingUrls) GetProjectFileUrl(_ context.Context, _, _ string) (string, error) {
	f.t.Fatal("unexpected project file url fetch")
	return "", nil
}

func newTestService(t *testing.T) (*Service, *platform.LocalHandle) {
	config.ConfigGlobal = config.DefaultConfig()
	config.ConfigGlobal.CodeCacheDir = t.TempDir()

	handle := platform.NewLocalHandle()
	subscriptions := datastore.NewSubscriptionStore(newMemTable())
	versions := datastore.NewAPIVersionStore(newMemTable())
	workspaces := datastore.NewWorkspaceStore(newMemTable())
	publishers := datastore.NewPublisherStore(newMemTable())
	secrets := secret.NewCache(secret.NewDatastoreStore(newMemTable()))
	resolver := NewResolver(secrets, func(_ *models.Workspace, _ string) (platform.Handle, error) {
		return handle, nil
	})
	code := NewCodeManager(config.ConfigGlobal.CodeCacheDir, failingUrls{t: t}, nil)
	service := NewService(subscriptions, versions, workspaces, publishers, secrets, resolver, code)

	err := workspaces.Upsert(&models.Workspace{
		Name:        "ws1",
		ResourceId:  "/subscriptions/s0/resourceGroups/rg0/providers/p/workspaces/ws1",
		AADTenantId: "tenant",
		AADAppId:    "app",
		AADSecret:   "literal-secret",
		Region:      "westus",
	})
	if err != nil {
		t.Fatal(err)
	}
	err = subscriptions.Upsert(&models.Subscription{
		SubscriptionId:         "sub1",
		UserId:                 "user1",
		ProductName:            "prod",
		DeploymentName:         "dep",
		WorkspaceName:          "ws1",
		PrimaryKeySecretName:   "sub1-primary",
		SecondaryKeySecretName: "sub1-secondary",
	})
	if err != nil {
		t.Fatal(err)
	}
	return service, handle
}

// seedBundle mark a version's project bundle as locally cached and fresh.
func seedBundle(t *testing.T, version *models.APIVersion) {
	dir := filepath.Join(config.ConfigGlobal.CodeCacheDir,
		version.ProductName, version.DeploymentName, version.VersionName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, bundleStampFile), []byte(version.LastUpdatedTime), 0644); err != nil {
		t.Fatal(err)
	}
}
