package module

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/platform"
)

// SubmitOperation mint an operation id and submit the matching remote run.
// The api version's source type selects the submission mode: git-sourced
// versions run an entry point script out of the project bundle, pipeline
// versions trigger the pre-published pipeline for the verb.
func (s *Service) SubmitOperation(ctx context.Context, productName, deploymentName, apiVersion, verb,
	userInput, predecessorOperationId, userId, subscriptionId string) (string, error) {

	version, err := s.Versions.Get(productName, deploymentName, apiVersion)
	if err != nil {
		return "", NewServerError("load api version", err)
	}
	if version == nil {
		return "", ErrNotFound
	}

	workspaceName := version.WorkspaceName
	if workspaceName == "" {
		subscription, err := s.Subscriptions.Get(subscriptionId)
		if err != nil {
			return "", NewServerError("load subscription", err)
		}
		if subscription == nil {
			return "", ErrNotFound
		}
		workspaceName = subscription.WorkspaceName
	}
	handle, err := s.handleFor(workspaceName)
	if err != nil {
		return "", err
	}

	op := &Operation{
		OperationId:            MintOperationID(),
		OperationName:          verb,
		UserId:                 userId,
		SubscriptionId:         subscriptionId,
		ProductName:            productName,
		DeploymentName:         deploymentName,
		ApiVersion:             apiVersion,
		PredecessorOperationId: predecessorOperationId,
	}
	tags := OperationTags(op)
	parameters := map[string]string{
		"operationId":            op.OperationId,
		"userId":                 userId,
		"userInput":              userInput,
		"productName":            productName,
		"deploymentName":         deploymentName,
		"apiVersion":             apiVersion,
		"subscriptionId":         subscriptionId,
		"predecessorOperationId": predecessorOperationId,
	}

	var runId string
	switch version.VersionSourceType {
	case config.SOURCE_GIT:
		runId, err = s.submitProject(ctx, handle, version, verb, subscriptionId, parameters, tags)
	case config.SOURCE_PIPELINE:
		runId, err = s.submitPipeline(ctx, handle, version, verb, subscriptionId, parameters, tags)
	default:
		err = ErrOperationNotSupported
	}
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"operationId":    op.OperationId,
		"subscriptionId": subscriptionId,
		"runId":          runId,
	}).Infof("submitted %s operation", verb)
	return op.OperationId, nil
}

func (s *Service) submitProject(ctx context.Context, handle platform.Handle, version *models.APIVersion,
	verb, subscriptionId string, parameters, tags map[string]string) (string, error) {
	entryPoint, err := EntryPointForVerb(verb, version)
	if err != nil {
		return "", err
	}
	_, codeUrl, err := s.Code.EnsureBundle(ctx, subscriptionId, version)
	if err != nil {
		return "", err
	}
	if codeUrl != "" {
		parameters["codeUrl"] = codeUrl
	}
	runId, err := handle.SubmitScriptRun(ctx, subscriptionId, entryPoint, parameters, tags)
	if err != nil {
		return "", NewServerError("submit script run", err)
	}
	return runId, nil
}

func (s *Service) submitPipeline(ctx context.Context, handle platform.Handle, version *models.APIVersion,
	verb, subscriptionId string, parameters, tags map[string]string) (string, error) {
	pipelineUrl := pipelineUrlForVerb(version, verb)
	if pipelineUrl == "" {
		return "", ErrOperationNotSupported
	}
	runId, err := handle.SubmitPipelineRun(ctx, subscriptionId, platform.PipelineIdFromUrl(pipelineUrl), parameters, tags)
	if err != nil {
		return "", NewServerError("submit pipeline run", err)
	}
	return runId, nil
}

func pipelineUrlForVerb(version *models.APIVersion, verb string) string {
	switch verb {
	case config.VERB_TRAIN:
		return version.TrainModelAPI
	case config.VERB_BATCHINFERENCE:
		return version.BatchInferenceAPI
	case config.VERB_DEPLOY:
		return version.DeployModelAPI
	}
	return ""
}
