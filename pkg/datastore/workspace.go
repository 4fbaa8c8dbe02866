package datastore

import (
	"github.com/Azure/aace/pkg/models"
)

var workspaceColumns = []string{
	KWorkspaceName, KWorkspaceResourceId, KWorkspaceTenantId, KWorkspaceAppId,
	KWorkspaceSecretName, KWorkspaceSecret, KWorkspaceRegion,
}

// WorkspaceStore typed access to the workspaces table
type WorkspaceStore struct {
	store Datastore
}

func NewWorkspaceStore(store Datastore) *WorkspaceStore {
	return &WorkspaceStore{store: store}
}

func (w *WorkspaceStore) Get(name string) (*models.Workspace, error) {
	data, err := w.store.Get(name, workspaceColumns)
	if err != nil || data == nil {
		return nil, err
	}
	return workspaceFromRow(name, data), nil
}

func (w *WorkspaceStore) ListAll() ([]*models.Workspace, error) {
	rows, err := w.store.ListAll(workspaceColumns)
	if err != nil {
		return nil, err
	}
	workspaces := make([]*models.Workspace, 0, len(rows))
	for key, data := range rows {
		workspaces = append(workspaces, workspaceFromRow(key, data))
	}
	return workspaces, nil
}

func (w *WorkspaceStore) Upsert(workspace *models.Workspace) error {
	return w.store.Put(workspace.Name, map[string]interface{}{
		KWorkspaceName:       workspace.Name,
		KWorkspaceResourceId: workspace.ResourceId,
		KWorkspaceTenantId:   workspace.AADTenantId,
		KWorkspaceAppId:      workspace.AADAppId,
		KWorkspaceSecretName: workspace.AADSecretName,
		KWorkspaceSecret:     workspace.AADSecret,
		KWorkspaceRegion:     workspace.Region,
	})
}

func (w *WorkspaceStore) Delete(name string) error {
	return w.store.Delete(name)
}

func (w *WorkspaceStore) Close() error {
	return w.store.Close()
}

func workspaceFromRow(key string, data map[string]interface{}) *models.Workspace {
	return &models.Workspace{
		Name:          key,
		ResourceId:    asString(data[KWorkspaceResourceId]),
		AADTenantId:   asString(data[KWorkspaceTenantId]),
		AADAppId:      asString(data[KWorkspaceAppId]),
		AADSecretName: asString(data[KWorkspaceSecretName]),
		AADSecret:     asString(data[KWorkspaceSecret]),
		Region:        asString(data[KWorkspaceRegion]),
	}
}

func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
