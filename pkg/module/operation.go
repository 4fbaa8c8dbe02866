package module

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

// run tag keys, the sole correlation mechanism between an operation and its
// remote run
const (
	TagUserId                 = "userId"
	TagProductName            = "productName"
	TagDeploymentName         = "deploymentName"
	TagApiVersion             = "apiVersion"
	TagOperationName          = "operationName"
	TagOperationId            = "operationId"
	TagSubscriptionId         = "subscriptionId"
	TagPredecessorOperationId = "predecessorOperationId"

	TagModelId    = "modelId"
	TagEndpointId = "endpointId"
)

// Operation one logical unit of work requested by a user. Identity is
// immutable once minted; live status is always re-derived from the platform.
type Operation struct {
	OperationId            string
	OperationName          string
	UserId                 string
	SubscriptionId         string
	ProductName            string
	DeploymentName         string
	ApiVersion             string
	PredecessorOperationId string
}

// MintOperationID opaque unique token with a stable leading letter so ids
// are valid platform resource names. 31 hex chars of a random uuid follow,
// collision odds are negligible.
func MintOperationID() string {
	id := uuid.New()
	return "a" + hex.EncodeToString(id[:])[1:]
}

// OperationTags full tag set written onto the remote run at submission.
func OperationTags(op *Operation) map[string]string {
	return map[string]string{
		TagUserId:                 op.UserId,
		TagProductName:            op.ProductName,
		TagDeploymentName:         op.DeploymentName,
		TagApiVersion:             op.ApiVersion,
		TagOperationName:          op.OperationName,
		TagOperationId:            op.OperationId,
		TagSubscriptionId:         op.SubscriptionId,
		TagPredecessorOperationId: op.PredecessorOperationId,
	}
}

// LookupTags the exact-match subset used to find runs back.
func LookupTags(operationName, operationId, userId, subscriptionId string) map[string]string {
	tags := map[string]string{
		TagUserId:         userId,
		TagOperationName:  operationName,
		TagSubscriptionId: subscriptionId,
	}
	if operationId != "" {
		tags[TagOperationId] = operationId
	}
	return tags
}

// ParseOperationTags recover an operation view from a run's tag set.
func ParseOperationTags(tags map[string]string) *Operation {
	return &Operation{
		OperationId:            tags[TagOperationId],
		OperationName:          tags[TagOperationName],
		UserId:                 tags[TagUserId],
		SubscriptionId:         tags[TagSubscriptionId],
		ProductName:            tags[TagProductName],
		DeploymentName:         tags[TagDeploymentName],
		ApiVersion:             tags[TagApiVersion],
		PredecessorOperationId: tags[TagPredecessorOperationId],
	}
}

// EntryPointForVerb resolve a verb to the entry point script it executes.
// The built-in verbs map to themselves, anything else goes through the api
// version's product-specific entry point table.
func EntryPointForVerb(verb string, version *models.APIVersion) (string, error) {
	switch verb {
	case config.VERB_TRAIN, config.VERB_BATCHINFERENCE, config.VERB_DEPLOY:
		return verb, nil
	}
	if version != nil {
		if entryPoint, ok := version.CustomEntryPoints[verb]; ok && entryPoint != "" {
			return entryPoint, nil
		}
	}
	return "", ErrOperationNotSupported
}

// OperationNameForNoun map an output noun to the operation name that
// produced it. Custom nouns are valid when the api version defines a custom
// verb of the same name.
func OperationNameForNoun(noun string, version *models.APIVersion) (string, error) {
	switch noun {
	case config.NOUN_MODELS:
		return config.VERB_TRAIN, nil
	case config.NOUN_ENDPOINTS:
		return config.VERB_DEPLOY, nil
	case config.NOUN_INFERENCERESULT:
		return config.VERB_BATCHINFERENCE, nil
	}
	if version != nil {
		if _, ok := version.CustomEntryPoints[noun]; ok {
			return noun, nil
		}
	}
	return "", ErrOperationNotSupported
}
