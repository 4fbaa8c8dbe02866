package secret

import (
	"errors"

	"github.com/Azure/aace/pkg/datastore"
)

// ErrSecretNotFound the authoritative store has no secret under that name
var ErrSecretNotFound = errors.New("secret not found")

// Store the authoritative secret store
type Store interface {
	GetSecret(name string) (string, error)
	SetSecret(name, value string) error
	ListSecretNames() ([]string, error)
}

// DatastoreStore keeps secrets in the agent's record store. Used by
// self-host deployments that have no managed vault available.
type DatastoreStore struct {
	store datastore.Datastore
}

func NewDatastoreStore(store datastore.Datastore) *DatastoreStore {
	return &DatastoreStore{store: store}
}

func (d *DatastoreStore) GetSecret(name string) (string, error) {
	data, err := d.store.Get(name, []string{datastore.KSecretValue})
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", ErrSecretNotFound
	}
	value, _ := data[datastore.KSecretValue].(string)
	return value, nil
}

func (d *DatastoreStore) SetSecret(name, value string) error {
	return d.store.Put(name, map[string]interface{}{
		datastore.KSecretName:  name,
		datastore.KSecretValue: value,
	})
}

func (d *DatastoreStore) ListSecretNames() ([]string, error) {
	rows, err := d.store.ListAll([]string{datastore.KSecretName})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	return names, nil
}
