package datastore

import (
	"encoding/json"
	"fmt"

	"github.com/Azure/aace/pkg/models"
)

var versionColumns = []string{
	KVersionKey, KVersionProductName, KVersionDeploymentName, KVersionName,
	KVersionRealTimePredict, KVersionTrainModel, KVersionBatchInference,
	KVersionDeployModel, KVersionAuthType, KVersionCreateTime,
	KVersionLastUpdatedTime, KVersionSourceType, KVersionProjectFileUrl,
	KVersionWorkspaceName, KVersionCustomEntryPoints,
}

// APIVersionStore typed access to the apiversions table
type APIVersionStore struct {
	store Datastore
}

func NewAPIVersionStore(store Datastore) *APIVersionStore {
	return &APIVersionStore{store: store}
}

func VersionKey(productName, deploymentName, versionName string) string {
	return fmt.Sprintf("%s:%s:%s", productName, deploymentName, versionName)
}

func (a *APIVersionStore) Get(productName, deploymentName, versionName string) (*models.APIVersion, error) {
	key := VersionKey(productName, deploymentName, versionName)
	data, err := a.store.Get(key, versionColumns)
	if err != nil || data == nil {
		return nil, err
	}
	return versionFromRow(data), nil
}

func (a *APIVersionStore) ListAll() ([]*models.APIVersion, error) {
	rows, err := a.store.ListAll(versionColumns)
	if err != nil {
		return nil, err
	}
	versions := make([]*models.APIVersion, 0, len(rows))
	for _, data := range rows {
		versions = append(versions, versionFromRow(data))
	}
	return versions, nil
}

// ListByDeployment versions of one product/deployment pair.
func (a *APIVersionStore) ListByDeployment(productName, deploymentName string) ([]*models.APIVersion, error) {
	rows, err := a.store.ListAll(versionColumns)
	if err != nil {
		return nil, err
	}
	versions := make([]*models.APIVersion, 0)
	for _, data := range rows {
		if asString(data[KVersionProductName]) == productName &&
			asString(data[KVersionDeploymentName]) == deploymentName {
			versions = append(versions, versionFromRow(data))
		}
	}
	return versions, nil
}

func (a *APIVersionStore) Upsert(version *models.APIVersion) error {
	entryPoints := ""
	if len(version.CustomEntryPoints) > 0 {
		data, err := json.Marshal(version.CustomEntryPoints)
		if err != nil {
			return err
		}
		entryPoints = string(data)
	}
	key := VersionKey(version.ProductName, version.DeploymentName, version.VersionName)
	return a.store.Put(key, map[string]interface{}{
		KVersionKey:               key,
		KVersionProductName:       version.ProductName,
		KVersionDeploymentName:    version.DeploymentName,
		KVersionName:              version.VersionName,
		KVersionRealTimePredict:   version.RealTimePredictAPI,
		KVersionTrainModel:        version.TrainModelAPI,
		KVersionBatchInference:    version.BatchInferenceAPI,
		KVersionDeployModel:       version.DeployModelAPI,
		KVersionAuthType:          version.AuthenticationType,
		KVersionCreateTime:        version.CreatedTime,
		KVersionLastUpdatedTime:   version.LastUpdatedTime,
		KVersionSourceType:        version.VersionSourceType,
		KVersionProjectFileUrl:    version.ProjectFileUrl,
		KVersionWorkspaceName:     version.WorkspaceName,
		KVersionCustomEntryPoints: entryPoints,
	})
}

func (a *APIVersionStore) Delete(productName, deploymentName, versionName string) error {
	return a.store.Delete(VersionKey(productName, deploymentName, versionName))
}

func (a *APIVersionStore) Close() error {
	return a.store.Close()
}

func versionFromRow(data map[string]interface{}) *models.APIVersion {
	version := &models.APIVersion{
		ProductName:        asString(data[KVersionProductName]),
		DeploymentName:     asString(data[KVersionDeploymentName]),
		VersionName:        asString(data[KVersionName]),
		RealTimePredictAPI: asString(data[KVersionRealTimePredict]),
		TrainModelAPI:      asString(data[KVersionTrainModel]),
		BatchInferenceAPI:  asString(data[KVersionBatchInference]),
		DeployModelAPI:     asString(data[KVersionDeployModel]),
		AuthenticationType: asString(data[KVersionAuthType]),
		CreatedTime:        asString(data[KVersionCreateTime]),
		LastUpdatedTime:    asString(data[KVersionLastUpdatedTime]),
		VersionSourceType:  asString(data[KVersionSourceType]),
		ProjectFileUrl:     asString(data[KVersionProjectFileUrl]),
		WorkspaceName:      asString(data[KVersionWorkspaceName]),
	}
	if raw := asString(data[KVersionCustomEntryPoints]); raw != "" {
		entryPoints := make(map[string]string)
		if err := json.Unmarshal([]byte(raw), &entryPoints); err == nil {
			version.CustomEntryPoints = entryPoints
		}
	}
	return version
}
