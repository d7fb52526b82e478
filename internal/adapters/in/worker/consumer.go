// Package worker consumes background tasks queued after load changes commit.
package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"freight/internal/adapters/out/queue"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/pkg/errs"
)

// Consumer turns queued tasks into commands.
type Consumer struct {
	record commands.RecordLoadEventCommandHandler
	log    *zap.Logger
}

func NewConsumer(record commands.RecordLoadEventCommandHandler, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{record: record, log: log}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskRecordLoadEvent, c.handleRecordLoadEvent)
}

// handleRecordLoadEvent drops malformed payloads without retrying them.
// Storage failures are returned so asynq retries with backoff.
func (c *Consumer) handleRecordLoadEvent(ctx context.Context, task *asynq.Task) error {
	event, err := queue.ParseLoadEvent(task)
	if err != nil {
		c.log.Warn("record load event: bad payload", zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	cmd, err := commands.NewRecordLoadEventCommand(event)
	if err != nil {
		c.log.Warn("record load event: invalid event", zap.String("event_id", event.ID.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := c.record.Handle(ctx, cmd); err != nil {
		if errs.KindOf(err) == errs.KindInvalidRequest {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		c.log.Warn("record load event failed",
			zap.String("event_id", event.ID.String()),
			zap.String("load_id", event.LoadID.String()),
			zap.Error(err),
		)
		return err
	}
	c.log.Debug("load event recorded", zap.String("event_id", event.ID.String()), zap.String("type", string(event.Type)))
	return nil
}
