package models

// Workspace identity + location of a remote job platform instance
type Workspace struct {
	Name          string `json:"name"`
	ResourceId    string `json:"resourceId"`
	AADTenantId   string `json:"aadApplicationTenantId"`
	AADAppId      string `json:"aadApplicationClientId"`
	AADSecretName string `json:"aadApplicationClientSecretName,omitempty"`
	// literal secret, takes precedence over AADSecretName when present
	AADSecret string `json:"aadApplicationClientSecret,omitempty"`
	Region    string `json:"region,omitempty"`

	// live-queried, never persisted
	ComputeClusters    []string `json:"computeClusters,omitempty"`
	DeploymentClusters []string `json:"aksClusters,omitempty"`
}

// Subscription a tenant's binding to a product/deployment/api-version
type Subscription struct {
	SubscriptionId         string `json:"subscriptionId"`
	SubscriptionName       string `json:"subscriptionName"`
	UserId                 string `json:"userId"`
	ProductName            string `json:"productName"`
	ProductType            string `json:"productType"`
	DeploymentName         string `json:"deploymentName"`
	Status                 string `json:"status"`
	HostType               string `json:"hostType"`
	CreatedTime            string `json:"createdTime"`
	BaseUrl                string `json:"baseUrl"`
	PrimaryKeySecretName   string `json:"primaryKeySecretName"`
	SecondaryKeySecretName string `json:"secondaryKeySecretName"`
	WorkspaceName          string `json:"amlWorkspace"`
	ComputeCluster         string `json:"computeCluster"`
	DeploymentCluster      string `json:"deploymentCluster"`
	DeploymentTargetType   string `json:"deploymentTargetType"`
	PublisherId            string `json:"publisherId"`
	OfferName              string `json:"offerName"`
	PlanName               string `json:"planName"`
}

// APIVersion describes how a product/deployment/version is executed
type APIVersion struct {
	ProductName        string `json:"productName"`
	DeploymentName     string `json:"deploymentName"`
	VersionName        string `json:"versionName"`
	RealTimePredictAPI string `json:"realTimePredictAPI"`
	TrainModelAPI      string `json:"trainModelAPI"`
	BatchInferenceAPI  string `json:"batchInferenceAPI"`
	DeployModelAPI     string `json:"deployModelAPI"`
	AuthenticationType string `json:"authenticationType"`
	CreatedTime        string `json:"createdTime"`
	LastUpdatedTime    string `json:"lastUpdatedTime"`
	VersionSourceType  string `json:"versionSourceType"`
	ProjectFileUrl     string `json:"projectFileUrl"`
	WorkspaceName      string `json:"amlWorkspace"`
	// custom verb -> entry point script, product specific
	CustomEntryPoints map[string]string `json:"customEntryPoints,omitempty"`
}

// AgentUser a user or admin bound to a subscription
type AgentUser struct {
	AADUserId      string `json:"id"`
	SubscriptionId string `json:"subscriptionId,omitempty"`
	Description    string `json:"description,omitempty"`
	Role           string `json:"role"`
	CreatedTime    string `json:"createdTime,omitempty"`
	// personal access key, write-only; persisted as a bcrypt hash
	Key string `json:"key,omitempty"`
}

// Publisher a control plane the agent mirrors subscriptions from
type Publisher struct {
	PublisherId     string `json:"publisherId"`
	ControlPlaneUrl string `json:"controlPlaneUrl"`
}

// OperationResult status view of one operation
type OperationResult struct {
	OperationId string `json:"operationId"`
	Status      string `json:"status"`
}

// ModelOutput output of a completed train operation
type ModelOutput struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	CreatedTime string `json:"created_time"`
}

// EndpointOutput output of a completed deploy operation
type EndpointOutput struct {
	Id           string `json:"id"`
	Description  string `json:"description"`
	CreatedTime  string `json:"created_time"`
	ScoringUri   string `json:"scoring_uri"`
	PrimaryKey   string `json:"primary_key"`
	SecondaryKey string `json:"secondary_key"`
}

// RunOutputFiles artifact listing of one run, used by output enumeration
type RunOutputFiles struct {
	OperationId string   `json:"operationId"`
	Files       []string `json:"files"`
}

// DeploymentTargetType a place endpoints can be deployed to
type DeploymentTargetType struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
}
