package datastore

import (
	"fmt"

	config2 "github.com/Azure/aace/pkg/config"
)

type DatastoreFactory struct{}

func (f *DatastoreFactory) NewTable(dbType DatastoreType, tableName string) Datastore {
	switch dbType {
	case SQLite:
		cfg := NewSQLiteConfig(tableName)
		return NewSQLiteDatastore(cfg)
	case TableStore:
		cfg := NewOtsConfig(tableName)
		otsStore, err := NewOtsDatastore(cfg)
		if err != nil {
			panic("init ots fail")
		}
		return otsStore
	default:
		panic(fmt.Sprintf("not support db type=%s", dbType))
	}
}

func tableColumns(tableName string) (map[string]string, string) {
	switch tableName {
	case KWorkspaceTableName:
		return map[string]string{
			KWorkspaceResourceId: "TEXT",
			KWorkspaceTenantId:   "TEXT",
			KWorkspaceAppId:      "TEXT",
			KWorkspaceSecretName: "TEXT",
			KWorkspaceSecret:     "TEXT",
			KWorkspaceRegion:     "TEXT",
		}, KWorkspaceName
	case KSubTableName:
		return map[string]string{
			KSubName:             "TEXT",
			KSubUserId:           "TEXT",
			KSubProductName:      "TEXT",
			KSubProductType:      "TEXT",
			KSubDeploymentName:   "TEXT",
			KSubStatus:           "TEXT",
			KSubHostType:         "TEXT",
			KSubCreateTime:       "TEXT",
			KSubBaseUrl:          "TEXT",
			KSubPrimaryKeyName:   "TEXT",
			KSubSecondaryKeyName: "TEXT",
			KSubWorkspaceName:    "TEXT",
			KSubComputeCluster:   "TEXT",
			KSubDeployCluster:    "TEXT",
			KSubDeployTargetType: "TEXT",
			KSubPublisherId:      "TEXT",
			KSubOfferName:        "TEXT",
			KSubPlanName:         "TEXT",
		}, KSubId
	case KVersionTableName:
		return map[string]string{
			KVersionProductName:       "TEXT",
			KVersionDeploymentName:    "TEXT",
			KVersionName:              "TEXT",
			KVersionRealTimePredict:   "TEXT",
			KVersionTrainModel:        "TEXT",
			KVersionBatchInference:    "TEXT",
			KVersionDeployModel:       "TEXT",
			KVersionAuthType:          "TEXT",
			KVersionCreateTime:        "TEXT",
			KVersionLastUpdatedTime:   "TEXT",
			KVersionSourceType:        "TEXT",
			KVersionProjectFileUrl:    "TEXT",
			KVersionWorkspaceName:     "TEXT",
			KVersionCustomEntryPoints: "TEXT",
		}, KVersionKey
	case KUserTableName:
		return map[string]string{
			KUserId:          "TEXT",
			KUserSubId:       "TEXT",
			KUserDescription: "TEXT",
			KUserRole:        "TEXT",
			KUserCreateTime:  "TEXT",
			KUserKeyHash:     "TEXT",
		}, KUserKey
	case KPublisherTableName:
		return map[string]string{
			KPublisherControlPlaneUrl: "TEXT",
		}, KPublisherId
	case KSecretTableName:
		return map[string]string{
			KSecretValue: "TEXT",
		}, KSecretName
	}
	return nil, ""
}

func NewSQLiteConfig(tableName string) *Config {
	columns, pk := tableColumns(tableName)
	columnConfig := map[string]string{
		pk: "TEXT PRIMARY KEY NOT NULL",
	}
	for col, typ := range columns {
		columnConfig[col] = typ
	}
	return &Config{
		Type:                 SQLite,
		DBName:               config2.ConfigGlobal.DbSqlite,
		TableName:            tableName,
		ColumnConfig:         columnConfig,
		PrimaryKeyColumnName: pk,
	}
}

func NewOtsConfig(tableName string) *Config {
	columns, pk := tableColumns(tableName)
	return &Config{
		Type:                 TableStore,
		TableName:            tableName,
		ColumnConfig:         columns,
		PrimaryKeyColumnName: pk,
		TimeToAlive:          config2.ConfigGlobal.OtsTimeToAlive,
		MaxVersion:           config2.ConfigGlobal.OtsMaxVersion,
	}
}
