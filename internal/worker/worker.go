// Package worker implements background tasks that keep the snapshot cache warm.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"fxrates/internal/provider"
)

// TaskTypeWarmLatest is the Asynq task type that refreshes the latest snapshot for a base.
const TaskTypeWarmLatest = "rates:warm_latest"

// WarmLatestPayload is the payload of TaskTypeWarmLatest tasks.
type WarmLatestPayload struct {
	Base string `json:"base"`
}

// NewWarmLatestTask builds a warm task for base.
func NewWarmLatestTask(base string, maxRetry int, timeout time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(WarmLatestPayload{Base: strings.ToUpper(base)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWarmLatest, payload,
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(timeout),
	), nil
}

// NewWarmLatestHandler returns a handler that refetches the latest snapshot for the payload's
// base and overwrites any cached entry on the way. When the base is defaultBase the
// default-base snapshot served by Latest is refreshed as well.
func NewWarmLatestHandler(source provider.RatesSource, defaultBase string, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	defaultBase = strings.ToUpper(defaultBase)
	return func(ctx context.Context, t *asynq.Task) error {
		var payload WarmLatestPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Base == "" {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return fmt.Errorf("invalid %s payload: %w", t.Type(), asynq.SkipRetry)
		}
		base := strings.ToUpper(payload.Base)
		ctx = provider.WithRefresh(ctx)

		snap, err := source.LatestForBase(ctx, base)
		if err != nil {
			logger.Errorw("Cache warm failed", "base", base, "error", err)
			return err
		}
		logger.Infow("Cache warmed", "base", base, "date", snap.Date().Format(time.DateOnly), "rates", snap.Len())

		if base != defaultBase {
			return nil
		}
		if _, err := source.Latest(ctx); err != nil {
			logger.Errorw("Default base cache warm failed", "base", base, "error", err)
			return err
		}
		return nil
	}
}

// RegisterWarmTasks registers one periodic warm task per base on scheduler.
func RegisterWarmTasks(scheduler *asynq.Scheduler, cronspec string, bases []string, maxRetry int, timeout time.Duration) error {
	for _, base := range bases {
		task, err := NewWarmLatestTask(base, maxRetry, timeout)
		if err != nil {
			return fmt.Errorf("build warm task for %s: %w", base, err)
		}
		if _, err := scheduler.Register(cronspec, task); err != nil {
			return fmt.Errorf("register warm task for %s: %w", base, err)
		}
	}
	return nil
}

// AsynqEnqueuer enqueues one-off warm tasks with fixed retry and timeout settings.
type AsynqEnqueuer struct {
	client   *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer.
func NewAsynqEnqueuer(client *asynq.Client, maxRetry int, timeout time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:   client,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

// EnqueueWarm enqueues an immediate warm task for each base.
func (e *AsynqEnqueuer) EnqueueWarm(ctx context.Context, bases ...string) error {
	for _, base := range bases {
		task, err := NewWarmLatestTask(base, e.maxRetry, e.timeout)
		if err != nil {
			return err
		}
		if _, err := e.client.EnqueueContext(ctx, task); err != nil {
			return fmt.Errorf("enqueue warm task for %s: %w", base, err)
		}
	}
	return nil
}
