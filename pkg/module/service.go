package module

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/platform"
	"github.com/Azure/aace/pkg/secret"
)

// Service the operation core. Maps subscription + verb/noun requests onto
// remote runs and resolves everything through the record stores, the secret
// cache and the platform handles.
type Service struct {
	Subscriptions *datastore.SubscriptionStore
	Versions      *datastore.APIVersionStore
	Workspaces    *datastore.WorkspaceStore
	Publishers    *datastore.PublisherStore
	Secrets       *secret.Cache
	Resolver      *Resolver
	Code          *CodeManager

	// control plane clients per base url
	NewControlPlane func(baseUrl string) *ControlPlaneClient

	lock    sync.Mutex
	handles map[string]platform.Handle
}

func NewService(subscriptions *datastore.SubscriptionStore, versions *datastore.APIVersionStore,
	workspaces *datastore.WorkspaceStore, publishers *datastore.PublisherStore,
	secrets *secret.Cache, resolver *Resolver, code *CodeManager) *Service {
	return &Service{
		Subscriptions:   subscriptions,
		Versions:        versions,
		Workspaces:      workspaces,
		Publishers:      publishers,
		Secrets:         secrets,
		Resolver:        resolver,
		Code:            code,
		NewControlPlane: NewControlPlaneClient,
		handles:         make(map[string]platform.Handle),
	}
}

// handleFor authenticated handle to a workspace, resolved once and kept.
func (s *Service) handleFor(workspaceName string) (platform.Handle, error) {
	s.lock.Lock()
	handle, ok := s.handles[workspaceName]
	s.lock.Unlock()
	if ok {
		return handle, nil
	}

	workspace, err := s.Workspaces.Get(workspaceName)
	if err != nil {
		return nil, NewServerError("load workspace "+workspaceName, err)
	}
	if workspace == nil {
		return nil, NewServerError(fmt.Sprintf("workspace %s not configured", workspaceName), nil)
	}
	handle, err = s.Resolver.Resolve(workspace)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	s.handles[workspaceName] = handle
	s.lock.Unlock()
	return handle, nil
}

// subscriptionHandle subscription record plus the handle to its workspace.
func (s *Service) subscriptionHandle(subscriptionId string) (*models.Subscription, platform.Handle, error) {
	subscription, err := s.Subscriptions.Get(subscriptionId)
	if err != nil {
		return nil, nil, NewServerError("load subscription", err)
	}
	if subscription == nil {
		return nil, nil, ErrNotFound
	}
	if subscription.WorkspaceName == "" {
		return nil, nil, NewServerError(fmt.Sprintf("subscription %s has no workspace binding", subscriptionId), nil)
	}
	handle, err := s.handleFor(subscription.WorkspaceName)
	if err != nil {
		return nil, nil, err
	}
	return subscription, handle, nil
}

// versionForNoun the api version record used to resolve custom nouns for a
// subscription. Missing records are fine, built-in nouns need none.
func (s *Service) versionForNoun(subscription *models.Subscription) *models.APIVersion {
	versions, err := s.Versions.ListByDeployment(subscription.ProductName, subscription.DeploymentName)
	if err != nil || len(versions) == 0 {
		return nil
	}
	return versions[0]
}

// WorkspaceClusters live compute and deployment cluster names, queried from
// the platform and never persisted.
func (s *Service) WorkspaceClusters(ctx context.Context, workspaceName string) ([]string, []string, error) {
	handle, err := s.handleFor(workspaceName)
	if err != nil {
		return nil, nil, err
	}
	computeClusters, err := handle.ListComputeTargets(ctx, platform.ComputeKindCluster)
	if err != nil {
		return nil, nil, NewServerError("list compute clusters", err)
	}
	deploymentClusters, err := handle.ListComputeTargets(ctx, platform.ComputeKindDeployment)
	if err != nil {
		return nil, nil, NewServerError("list deployment clusters", err)
	}
	return computeClusters, deploymentClusters, nil
}

// SyncSubscriptions mirror subscriptions from every registered publisher,
// merge-with-delete per publisher.
func (s *Service) SyncSubscriptions(ctx context.Context) error {
	publishers, err := s.Publishers.ListAll()
	if err != nil {
		return NewServerError("list publishers", err)
	}
	for _, publisher := range publishers {
		client := s.NewControlPlane(publisher.ControlPlaneUrl)
		upstream, err := client.ListSubscriptions(ctx)
		if err != nil {
			return NewServerError("list subscriptions from publisher "+publisher.PublisherId, err)
		}
		for _, subscription := range upstream {
			subscription.PublisherId = publisher.PublisherId
		}
		if err := s.Subscriptions.MergeWithDelete(publisher.PublisherId, upstream); err != nil {
			return NewServerError("merge subscriptions of publisher "+publisher.PublisherId, err)
		}
	}
	return nil
}
