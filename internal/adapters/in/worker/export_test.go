package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

func (c *Consumer) HandleRecordLoadEvent(ctx context.Context, task *asynq.Task) error {
	return c.handleRecordLoadEvent(ctx, task)
}
