package commands

import (
	"context"
)

// RecordLoadEventCommandHandler writes history entries. Redelivered events are
// absorbed by the repository, which keeps the first copy of an event id.
type RecordLoadEventCommandHandler struct {
	uowFactory HistoryUoWFactory
}

func NewRecordLoadEventCommandHandler(uowFactory HistoryUoWFactory) RecordLoadEventCommandHandler {
	return RecordLoadEventCommandHandler{uowFactory: uowFactory}
}

func (h RecordLoadEventCommandHandler) Handle(ctx context.Context, command RecordLoadEventCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LoadHistoryRepository().Append(ctx, command.Event()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
