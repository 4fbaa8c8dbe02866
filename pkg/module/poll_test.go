package module

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Azure/aace/pkg/config"
)

func TestWaitForCompletionTerminal(t *testing.T) {
	service, handle := newTestService(t)
	config.ConfigGlobal.PollIntervalSecond = 1
	config.ConfigGlobal.WaitTimeoutSecond = 30
	operationId := submitTrain(t, service)

	runs, _ := handle.GetRunsByTags(context.Background(), "sub1", nil)
	handle.SetRunStatus(runs[0].ID, config.RUN_FAILED)

	result, err := service.WaitForCompletion(context.Background(), config.VERB_TRAIN,
		operationId, "user1", "sub1")
	assert.Nil(t, err)
	// failure states are terminal too, the caller inspects the status
	assert.Equal(t, config.RUN_FAILED, result.Status)
}

func TestWaitForCompletionTimeoutAuthoritative(t *testing.T) {
	service, _ := newTestService(t)
	config.ConfigGlobal.PollIntervalSecond = 1
	config.ConfigGlobal.WaitTimeoutSecond = 0
	operationId := submitTrain(t, service)

	_, err := service.WaitForCompletion(context.Background(), config.VERB_TRAIN,
		operationId, "user1", "sub1")
	assert.True(t, errors.Is(err, ErrWaitTimeout))
}

func TestWaitForCompletionPersistentNotFound(t *testing.T) {
	service, _ := newTestService(t)
	config.ConfigGlobal.PollIntervalSecond = 1
	config.ConfigGlobal.WaitTimeoutSecond = 0

	_, err := service.WaitForCompletion(context.Background(), config.VERB_TRAIN,
		"a-never-submitted", "user1", "sub1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWaitForCompletionContextCanceled(t *testing.T) {
	service, _ := newTestService(t)
	config.ConfigGlobal.PollIntervalSecond = 1
	config.ConfigGlobal.WaitTimeoutSecond = 30
	operationId := submitTrain(t, service)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := service.WaitForCompletion(ctx, config.VERB_TRAIN, operationId, "user1", "sub1")
	assert.True(t, errors.Is(err, context.Canceled))
}
