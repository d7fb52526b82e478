package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// UpdateLoadLocationCommandHandler stores a position report on a load. Reports
// older than the stored one are accepted and ignored.
type UpdateLoadLocationCommandHandler struct {
	uowFactory LoadUoWFactory
	locker     ports.Locker
	events     eventSink
}

func NewUpdateLoadLocationCommandHandler(
	uowFactory LoadUoWFactory,
	locker ports.Locker,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) UpdateLoadLocationCommandHandler {
	return UpdateLoadLocationCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		events:     newEventSink(publisher, log),
	}
}

func (h UpdateLoadLocationCommandHandler) Handle(ctx context.Context, command UpdateLoadLocationCommand) (*load.Load, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, loadLockKeys(command.LoadID(), nil, nil)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loads := uow.LoadRepository()
	l, err := loads.GetForUpdate(ctx, command.TenantID(), command.LoadID())
	if err != nil {
		return nil, err
	}
	if !l.IsActive() {
		return nil, load.ErrLoadIsDeactivated
	}

	kept, err := l.RecordPosition(command.Point(), command.At(), command.EstimatedArrival())
	if err != nil {
		return nil, err
	}
	if !kept {
		return l, nil
	}

	if err = loads.Update(ctx, l); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, load.NewEvent(load.EventLocationUpdated, l, l.Status(), command.At()))
	return l, nil
}
