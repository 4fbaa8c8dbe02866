package module

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/platform"
)

// GetOperationStatus status view of one operation, re-derived from the
// platform by tag match. Zero matches is NotFound.
func (s *Service) GetOperationStatus(ctx context.Context, verb, operationId, userId, subscriptionId string) (*models.OperationResult, error) {
	_, handle, err := s.subscriptionHandle(subscriptionId)
	if err != nil {
		return nil, err
	}
	runs, err := handle.GetRunsByTags(ctx, subscriptionId, LookupTags(verb, operationId, userId, subscriptionId))
	if err != nil {
		return nil, NewServerError("query runs", err)
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &models.OperationResult{OperationId: operationId, Status: runs[0].Status}, nil
}

// ListOperations all operations of a verb for one user and subscription.
// Zero matches is an empty list, not an error.
func (s *Service) ListOperations(ctx context.Context, verb, userId, subscriptionId string) ([]*models.OperationResult, error) {
	_, handle, err := s.subscriptionHandle(subscriptionId)
	if err != nil {
		return nil, err
	}
	runs, err := handle.GetRunsByTags(ctx, subscriptionId, LookupTags(verb, "", userId, subscriptionId))
	if err != nil {
		return nil, NewServerError("query runs", err)
	}
	results := make([]*models.OperationResult, 0, len(runs))
	for _, run := range runs {
		results = append(results, &models.OperationResult{
			OperationId: run.Tags[TagOperationId],
			Status:      run.Status,
		})
	}
	return results, nil
}

// GetOperationOutput output artifact of a completed operation. Models and
// endpoints resolve against the platform registries; everything else reads
// the child run's output artifact. A nil result with nil error means the
// output does not exist yet.
func (s *Service) GetOperationOutput(ctx context.Context, noun, operationId, userId, subscriptionId string) (interface{}, error) {
	subscription, handle, err := s.subscriptionHandle(subscriptionId)
	if err != nil {
		return nil, err
	}

	switch noun {
	case config.NOUN_MODELS:
		return s.modelOutput(ctx, handle, operationId, userId, subscriptionId)
	case config.NOUN_ENDPOINTS:
		return s.endpointOutput(ctx, handle, operationId, userId, subscriptionId)
	}

	verb, err := OperationNameForNoun(noun, s.versionForNoun(subscription))
	if err != nil {
		return nil, err
	}
	runs, err := handle.GetRunsByTags(ctx, subscriptionId, LookupTags(verb, operationId, userId, subscriptionId))
	if err != nil {
		return nil, NewServerError("query runs", err)
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return s.runOutput(ctx, handle, runs[0].ID)
}

func (s *Service) modelOutput(ctx context.Context, handle platform.Handle, operationId, userId, subscriptionId string) (interface{}, error) {
	tags := map[string]string{TagUserId: userId, TagModelId: operationId, TagSubscriptionId: subscriptionId}
	records, err := handle.ListModelsByTags(ctx, tags)
	if err != nil {
		return nil, NewServerError("query models", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &models.ModelOutput{
		Id:          operationId,
		Description: records[0].Description,
		CreatedTime: records[0].CreatedTime,
	}, nil
}

// endpointOutput every field comes from the resolved endpoint record, the
// key pair is fetched live rather than read from any stored subscription key.
func (s *Service) endpointOutput(ctx context.Context, handle platform.Handle, operationId, userId, subscriptionId string) (interface{}, error) {
	tags := map[string]string{TagUserId: userId, TagEndpointId: operationId, TagSubscriptionId: subscriptionId}
	records, err := handle.ListEndpointsByTags(ctx, tags)
	if err != nil {
		return nil, NewServerError("query endpoints", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	endpoint := records[0]
	primaryKey, secondaryKey, err := handle.GetEndpointKeys(ctx, endpoint.Name)
	if err != nil {
		return nil, NewServerError("fetch endpoint keys", err)
	}
	return &models.EndpointOutput{
		Id:           operationId,
		Description:  endpoint.Description,
		CreatedTime:  endpoint.CreatedTime,
		ScoringUri:   endpoint.ScoringUri,
		PrimaryKey:   primaryKey,
		SecondaryKey: secondaryKey,
	}, nil
}

// runOutput fetch and parse the child run's output artifact. The scratch
// directory is removed on every exit path.
func (s *Service) runOutput(ctx context.Context, handle platform.Handle, runId string) (interface{}, error) {
	child, err := handle.GetChildRun(ctx, runId)
	if err != nil {
		if errors.Is(err, platform.ErrRunNotFound) {
			return nil, nil
		}
		return nil, NewServerError("query child run", err)
	}

	dir, err := os.MkdirTemp("", "operation-output-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	localPath := filepath.Join(dir, "output.json")
	if err := handle.DownloadRunFile(ctx, child.ID, config.RUN_OUTPUT_PATH, localPath); err != nil {
		if errors.Is(err, platform.ErrRunNotFound) {
			return nil, nil
		}
		return nil, NewServerError("download run output", err)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}
	var output interface{}
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, NewServerError("parse run output", err)
	}
	return output, nil
}

// ListOperationOutputs enumerate outputs for a noun. Models and endpoints
// list their registries, other nouns list each run's available artifacts.
// Runs with no output are skipped.
func (s *Service) ListOperationOutputs(ctx context.Context, noun, userId, subscriptionId string) ([]interface{}, error) {
	subscription, handle, err := s.subscriptionHandle(subscriptionId)
	if err != nil {
		return nil, err
	}

	switch noun {
	case config.NOUN_MODELS:
		return s.listModelOutputs(ctx, handle, userId, subscriptionId)
	case config.NOUN_ENDPOINTS:
		return s.listEndpointOutputs(ctx, handle, userId, subscriptionId)
	}

	verb, err := OperationNameForNoun(noun, s.versionForNoun(subscription))
	if err != nil {
		return nil, err
	}
	runs, err := handle.GetRunsByTags(ctx, subscriptionId, LookupTags(verb, "", userId, subscriptionId))
	if err != nil {
		return nil, NewServerError("query runs", err)
	}
	outputs := make([]interface{}, 0, len(runs))
	for _, run := range runs {
		child, err := handle.GetChildRun(ctx, run.ID)
		if err != nil {
			if errors.Is(err, platform.ErrRunNotFound) {
				continue
			}
			return nil, NewServerError("query child run", err)
		}
		files, err := handle.ListRunFiles(ctx, child.ID)
		if err != nil {
			return nil, NewServerError("list run files", err)
		}
		if len(files) == 0 {
			continue
		}
		outputs = append(outputs, &models.RunOutputFiles{
			OperationId: run.Tags[TagOperationId],
			Files:       files,
		})
	}
	return outputs, nil
}

func (s *Service) listModelOutputs(ctx context.Context, handle platform.Handle, userId, subscriptionId string) ([]interface{}, error) {
	records, err := handle.ListModelsByTags(ctx, map[string]string{TagUserId: userId, TagSubscriptionId: subscriptionId})
	if err != nil {
		return nil, NewServerError("query models", err)
	}
	outputs := make([]interface{}, 0, len(records))
	for _, record := range records {
		outputs = append(outputs, &models.ModelOutput{
			Id:          record.Tags[TagModelId],
			Description: record.Description,
			CreatedTime: record.CreatedTime,
		})
	}
	return outputs, nil
}

func (s *Service) listEndpointOutputs(ctx context.Context, handle platform.Handle, userId, subscriptionId string) ([]interface{}, error) {
	records, err := handle.ListEndpointsByTags(ctx, map[string]string{TagUserId: userId, TagSubscriptionId: subscriptionId})
	if err != nil {
		return nil, NewServerError("query endpoints", err)
	}
	outputs := make([]interface{}, 0, len(records))
	for _, record := range records {
		primaryKey, secondaryKey, err := handle.GetEndpointKeys(ctx, record.Name)
		if err != nil {
			return nil, NewServerError("fetch endpoint keys", err)
		}
		outputs = append(outputs, &models.EndpointOutput{
			Id:           record.Tags[TagEndpointId],
			Description:  record.Description,
			CreatedTime:  record.CreatedTime,
			ScoringUri:   record.ScoringUri,
			PrimaryKey:   primaryKey,
			SecondaryKey: secondaryKey,
		})
	}
	return outputs, nil
}
