package module

import (
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/platform"
	"github.com/Azure/aace/pkg/secret"
)

// WorkspaceConnector exchanges a workspace identity and resolved secret for
// an authenticated platform handle. platform.Connect in production, a local
// handle in tests.
type WorkspaceConnector func(workspace *models.Workspace, secretValue string) (platform.Handle, error)

// Resolver turns workspace records into authenticated platform handles.
// A literal secret on the record wins over secret-name indirection.
type Resolver struct {
	secrets *secret.Cache
	connect WorkspaceConnector
}

func NewResolver(secrets *secret.Cache, connect WorkspaceConnector) *Resolver {
	return &Resolver{secrets: secrets, connect: connect}
}

// Resolve any failure here is a configuration error for the workspace,
// submission must not proceed with a partial handle.
func (r *Resolver) Resolve(workspace *models.Workspace) (platform.Handle, error) {
	secretValue := workspace.AADSecret
	if secretValue == "" {
		value, err := r.secrets.Get(workspace.AADSecretName, true)
		if err != nil {
			return nil, NewServerError("resolve workspace secret "+workspace.AADSecretName, err)
		}
		secretValue = value
	}
	handle, err := r.connect(workspace, secretValue)
	if err != nil {
		return nil, NewServerError("connect workspace "+workspace.Name, err)
	}
	return handle, nil
}
