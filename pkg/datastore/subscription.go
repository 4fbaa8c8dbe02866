package datastore

import (
	"github.com/Azure/aace/pkg/models"
)

var subscriptionColumns = []string{
	KSubId, KSubName, KSubUserId, KSubProductName, KSubProductType,
	KSubDeploymentName, KSubStatus, KSubHostType, KSubCreateTime, KSubBaseUrl,
	KSubPrimaryKeyName, KSubSecondaryKeyName, KSubWorkspaceName,
	KSubComputeCluster, KSubDeployCluster, KSubDeployTargetType,
	KSubPublisherId, KSubOfferName, KSubPlanName,
}

// SubscriptionStore typed access to the subscriptions table
type SubscriptionStore struct {
	store Datastore
}

func NewSubscriptionStore(store Datastore) *SubscriptionStore {
	return &SubscriptionStore{store: store}
}

func (s *SubscriptionStore) Get(subscriptionId string) (*models.Subscription, error) {
	data, err := s.store.Get(subscriptionId, subscriptionColumns)
	if err != nil || data == nil {
		return nil, err
	}
	return subscriptionFromRow(subscriptionId, data), nil
}

func (s *SubscriptionStore) ListAll() ([]*models.Subscription, error) {
	rows, err := s.store.ListAll(subscriptionColumns)
	if err != nil {
		return nil, err
	}
	subs := make([]*models.Subscription, 0, len(rows))
	for key, data := range rows {
		subs = append(subs, subscriptionFromRow(key, data))
	}
	return subs, nil
}

func (s *SubscriptionStore) Upsert(sub *models.Subscription) error {
	return s.store.Put(sub.SubscriptionId, map[string]interface{}{
		KSubId:               sub.SubscriptionId,
		KSubName:             sub.SubscriptionName,
		KSubUserId:           sub.UserId,
		KSubProductName:      sub.ProductName,
		KSubProductType:      sub.ProductType,
		KSubDeploymentName:   sub.DeploymentName,
		KSubStatus:           sub.Status,
		KSubHostType:         sub.HostType,
		KSubCreateTime:       sub.CreatedTime,
		KSubBaseUrl:          sub.BaseUrl,
		KSubPrimaryKeyName:   sub.PrimaryKeySecretName,
		KSubSecondaryKeyName: sub.SecondaryKeySecretName,
		KSubWorkspaceName:    sub.WorkspaceName,
		KSubComputeCluster:   sub.ComputeCluster,
		KSubDeployCluster:    sub.DeploymentCluster,
		KSubDeployTargetType: sub.DeploymentTargetType,
		KSubPublisherId:      sub.PublisherId,
		KSubOfferName:        sub.OfferName,
		KSubPlanName:         sub.PlanName,
	})
}

func (s *SubscriptionStore) Delete(subscriptionId string) error {
	return s.store.Delete(subscriptionId)
}

// MergeWithDelete mirrors the upstream subscription set for one publisher:
// upstream rows are upserted, local rows for that publisher that are no
// longer present upstream are removed. Other publishers' rows are untouched.
func (s *SubscriptionStore) MergeWithDelete(publisherId string, upstream []*models.Subscription) error {
	existing, err := s.ListAll()
	if err != nil {
		return err
	}
	upstreamIds := make(map[string]struct{}, len(upstream))
	for _, sub := range upstream {
		sub.PublisherId = publisherId
		if err := s.Upsert(sub); err != nil {
			return err
		}
		upstreamIds[sub.SubscriptionId] = struct{}{}
	}
	for _, sub := range existing {
		if sub.PublisherId != publisherId {
			continue
		}
		if _, ok := upstreamIds[sub.SubscriptionId]; !ok {
			if err := s.Delete(sub.SubscriptionId); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SubscriptionStore) Close() error {
	return s.store.Close()
}

func subscriptionFromRow(key string, data map[string]interface{}) *models.Subscription {
	return &models.Subscription{
		SubscriptionId:         key,
		SubscriptionName:       asString(data[KSubName]),
		UserId:                 asString(data[KSubUserId]),
		ProductName:            asString(data[KSubProductName]),
		ProductType:            asString(data[KSubProductType]),
		DeploymentName:         asString(data[KSubDeploymentName]),
		Status:                 asString(data[KSubStatus]),
		HostType:               asString(data[KSubHostType]),
		CreatedTime:            asString(data[KSubCreateTime]),
		BaseUrl:                asString(data[KSubBaseUrl]),
		PrimaryKeySecretName:   asString(data[KSubPrimaryKeyName]),
		SecondaryKeySecretName: asString(data[KSubSecondaryKeyName]),
		WorkspaceName:          asString(data[KSubWorkspaceName]),
		ComputeCluster:         asString(data[KSubComputeCluster]),
		DeploymentCluster:      asString(data[KSubDeployCluster]),
		DeploymentTargetType:   asString(data[KSubDeployTargetType]),
		PublisherId:            asString(data[KSubPublisherId]),
		OfferName:              asString(data[KSubOfferName]),
		PlanName:               asString(data[KSubPlanName]),
	}
}
