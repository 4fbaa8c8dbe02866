package datastore

// workspaces table
const (
	KWorkspaceTableName  = "workspaces"
	KWorkspaceName       = "WORKSPACE_NAME"
	KWorkspaceResourceId = "WORKSPACE_RESOURCE_ID"
	KWorkspaceTenantId   = "WORKSPACE_AAD_TENANT_ID"
	KWorkspaceAppId      = "WORKSPACE_AAD_APP_ID"
	KWorkspaceSecretName = "WORKSPACE_AAD_SECRET_NAME"
	KWorkspaceSecret     = "WORKSPACE_AAD_SECRET"
	KWorkspaceRegion     = "WORKSPACE_REGION"
)

// subscriptions table
const (
	KSubTableName        = "subscriptions"
	KSubId               = "SUB_ID"
	KSubName             = "SUB_NAME"
	KSubUserId           = "SUB_USER_ID"
	KSubProductName      = "SUB_PRODUCT_NAME"
	KSubProductType      = "SUB_PRODUCT_TYPE"
	KSubDeploymentName   = "SUB_DEPLOYMENT_NAME"
	KSubStatus           = "SUB_STATUS"
	KSubHostType         = "SUB_HOST_TYPE"
	KSubCreateTime       = "SUB_CREATE_TIME"
	KSubBaseUrl          = "SUB_BASE_URL"
	KSubPrimaryKeyName   = "SUB_PRIMARY_KEY_NAME"
	KSubSecondaryKeyName = "SUB_SECONDARY_KEY_NAME"
	KSubWorkspaceName    = "SUB_WORKSPACE_NAME"
	KSubComputeCluster   = "SUB_COMPUTE_CLUSTER"
	KSubDeployCluster    = "SUB_DEPLOY_CLUSTER"
	KSubDeployTargetType = "SUB_DEPLOY_TARGET_TYPE"
	KSubPublisherId      = "SUB_PUBLISHER_ID"
	KSubOfferName        = "SUB_OFFER_NAME"
	KSubPlanName         = "SUB_PLAN_NAME"
)

// apiversions table, key=<product>:<deployment>:<version>
const (
	KVersionTableName         = "apiversions"
	KVersionKey               = "VERSION_KEY"
	KVersionProductName       = "VERSION_PRODUCT_NAME"
	KVersionDeploymentName    = "VERSION_DEPLOYMENT_NAME"
	KVersionName              = "VERSION_NAME"
	KVersionRealTimePredict   = "VERSION_REALTIME_PREDICT_API"
	KVersionTrainModel        = "VERSION_TRAIN_MODEL_API"
	KVersionBatchInference    = "VERSION_BATCH_INFERENCE_API"
	KVersionDeployModel       = "VERSION_DEPLOY_MODEL_API"
	KVersionAuthType          = "VERSION_AUTH_TYPE"
	KVersionCreateTime        = "VERSION_CREATE_TIME"
	KVersionLastUpdatedTime   = "VERSION_LAST_UPDATED_TIME"
	KVersionSourceType        = "VERSION_SOURCE_TYPE"
	KVersionProjectFileUrl    = "VERSION_PROJECT_FILE_URL"
	KVersionWorkspaceName     = "VERSION_WORKSPACE_NAME"
	KVersionCustomEntryPoints = "VERSION_CUSTOM_ENTRY_POINTS"
)

// users table, key=<subscription>:<user>
const (
	KUserTableName   = "users"
	KUserKey         = "USER_KEY"
	KUserId          = "USER_AAD_ID"
	KUserSubId       = "USER_SUB_ID"
	KUserDescription = "USER_DESCRIPTION"
	KUserRole        = "USER_ROLE"
	KUserCreateTime  = "USER_CREATE_TIME"
	KUserKeyHash     = "USER_KEY_HASH"
)

// publishers table
const (
	KPublisherTableName       = "publishers"
	KPublisherId              = "PUBLISHER_ID"
	KPublisherControlPlaneUrl = "PUBLISHER_CONTROL_PLANE_URL"
)

// secrets table, the authoritative secret store for self-host deployments
const (
	KSecretTableName = "secrets"
	KSecretName      = "SECRET_NAME"
	KSecretValue     = "SECRET_VALUE"
)
