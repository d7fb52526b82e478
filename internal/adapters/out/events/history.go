package events

import (
	"context"
	"errors"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/load"
)

// HistoryRecorder appends events to the load history in the publishing
// process. It stands in for the queue when no worker runs.
type HistoryRecorder struct {
	record commands.RecordLoadEventCommandHandler
}

func NewHistoryRecorder(record commands.RecordLoadEventCommandHandler) HistoryRecorder {
	return HistoryRecorder{record: record}
}

func (r HistoryRecorder) Publish(ctx context.Context, events ...load.Event) error {
	var problems []error
	for _, e := range events {
		cmd, err := commands.NewRecordLoadEventCommand(e)
		if err == nil {
			err = r.record.Handle(ctx, cmd)
		}
		if err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}
