package datastore

import (
	"github.com/Azure/aace/pkg/models"
)

var publisherColumns = []string{KPublisherId, KPublisherControlPlaneUrl}

// PublisherStore typed access to the publishers table
type PublisherStore struct {
	store Datastore
}

func NewPublisherStore(store Datastore) *PublisherStore {
	return &PublisherStore{store: store}
}

func (p *PublisherStore) Get(publisherId string) (*models.Publisher, error) {
	data, err := p.store.Get(publisherId, publisherColumns)
	if err != nil || data == nil {
		return nil, err
	}
	return &models.Publisher{
		PublisherId:     publisherId,
		ControlPlaneUrl: asString(data[KPublisherControlPlaneUrl]),
	}, nil
}

func (p *PublisherStore) ListAll() ([]*models.Publisher, error) {
	rows, err := p.store.ListAll(publisherColumns)
	if err != nil {
		return nil, err
	}
	publishers := make([]*models.Publisher, 0, len(rows))
	for key, data := range rows {
		publishers = append(publishers, &models.Publisher{
			PublisherId:     key,
			ControlPlaneUrl: asString(data[KPublisherControlPlaneUrl]),
		})
	}
	return publishers, nil
}

func (p *PublisherStore) Upsert(publisher *models.Publisher) error {
	return p.store.Put(publisher.PublisherId, map[string]interface{}{
		KPublisherId:              publisher.PublisherId,
		KPublisherControlPlaneUrl: publisher.ControlPlaneUrl,
	})
}

func (p *PublisherStore) Delete(publisherId string) error {
	return p.store.Delete(publisherId)
}

func (p *PublisherStore) Close() error {
	return p.store.Close()
}
