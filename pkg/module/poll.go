package module

import (
	"context"
	"errors"
	"time"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

// WaitForCompletion poll an operation until it leaves the Running state.
// The wait window is authoritative: when it elapses the call fails with
// ErrWaitTimeout, or with NotFound when no run was ever observed during the
// window. Any status other than Running is terminal, the caller inspects it
// to tell success from failure.
func (s *Service) WaitForCompletion(ctx context.Context, verb, operationId, userId, subscriptionId string) (*models.OperationResult, error) {
	interval := config.ConfigGlobal.PollInterval()
	deadline := time.Now().Add(config.ConfigGlobal.WaitTimeout())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sawRun := false
	for {
		result, err := s.GetOperationStatus(ctx, verb, operationId, userId, subscriptionId)
		switch {
		case err == nil:
			sawRun = true
			if result.Status != config.RUN_RUNNING {
				return result, nil
			}
		case errors.Is(err, ErrNotFound):
			// transient after submission, terminal if it never shows up
		default:
			return nil, err
		}

		if !time.Now().Before(deadline) {
			if !sawRun {
				return nil, ErrNotFound
			}
			return nil, ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
